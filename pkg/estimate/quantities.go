package estimate

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// DefaultMaterial is the pipe material assumed when none is given. It is also
// the material whose name is left out of pipe specifications.
const DefaultMaterial = "VU"

// BandWidth is the depth covered by one elevation band.
const BandWidth = 0.2

// Band is an elevation band index: band b covers depths [b×0.2, (b+1)×0.2].
type Band int

// StepBand returns the band a fitting at depth d is priced in: d rounded up
// to the next band edge.
func StepBand(d float64) Band { return Band(int(d*5 + 0.9999)) }

// FloorBand returns the band whose lower edge is at or just below d.
func FloorBand(d float64) Band { return Band(math.Floor(d*5 + 1e-9)) }

// Depth returns the lower edge of b.
func (b Band) Depth() float64 { return float64(b) * BandWidth }

func (b Band) String() string { return strconv.FormatFloat(b.Depth(), 'f', 1, 64) }

// PartKey identifies a counted part: its descriptive label and price band.
type PartKey struct {
	Label string
	Band  Band
}

// Name returns the part name, the label up to its first ", ".
func (k PartKey) Name() string {
	name, _, _ := strings.Cut(k.Label, ", ")
	return name
}

// Spec returns the remainder of the label after the part name.
func (k PartKey) Spec() string {
	_, spec, _ := strings.Cut(k.Label, ", ")
	return spec
}

// PipeName is the item name of every pipe row.
const PipeName = "排水管"

// PipeKey identifies a pipe length bucket.
type PipeKey struct {
	Band     Band
	Size     int
	Material string
}

// Spec renders the pipe specification, e.g. "φ100×H0.6～0.8".
func (k PipeKey) Spec() string {
	var b strings.Builder
	b.WriteString("φ")
	b.WriteString(strconv.Itoa(k.Size))
	if k.Material != DefaultMaterial {
		b.WriteString(k.Material)
	}
	b.WriteString("×H")
	b.WriteString(k.Band.String())
	b.WriteString("～")
	b.WriteString((k.Band + 1).String())
	return b.String()
}

// Quantities is a takeoff: part counts and pipe lengths.
type Quantities struct {
	Parts map[PartKey]int
	Pipes map[PipeKey]float64
}

// NewQuantities returns an empty takeoff.
func NewQuantities() *Quantities {
	return &Quantities{
		Parts: make(map[PartKey]int),
		Pipes: make(map[PipeKey]float64),
	}
}

// AddPart counts one occurrence of label in band.
func (q *Quantities) AddPart(label string, band Band) {
	q.Parts[PartKey{Label: label, Band: band}]++
}

// AddPipe adds length to a bucket.
func (q *Quantities) AddPipe(key PipeKey, length float64) {
	q.Pipes[key] += length
}

// AddPipeRun apportions a pipe of the given length running between depths
// from and to over the bands it crosses, in proportion to the depth covered in
// each band. A level pipe goes entirely into the band of its depth.
func (q *Quantities) AddPipeRun(size int, material string, from, to, length float64) {
	lo, hi := math.Min(from, to), math.Max(from, to)
	delta := hi - lo
	if delta < 1e-12 {
		q.AddPipe(PipeKey{Band: FloorBand(lo), Size: size, Material: material}, length)
		return
	}
	for b := FloorBand(lo); b.Depth() < hi-1e-12; b++ {
		covered := math.Min(hi, (b+1).Depth()) - math.Max(lo, b.Depth())
		if covered <= 1e-12 {
			continue
		}
		q.AddPipe(PipeKey{Band: b, Size: size, Material: material}, length*covered/delta)
	}
}

// PartKeys returns the part keys ordered by band, then label.
func (q *Quantities) PartKeys() []PartKey {
	keys := make([]PartKey, 0, len(q.Parts))
	for k := range q.Parts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Band != keys[j].Band {
			return keys[i].Band < keys[j].Band
		}
		return keys[i].Label < keys[j].Label
	})
	return keys
}

// PipeKeys returns the pipe keys ordered by band, size, then material.
func (q *Quantities) PipeKeys() []PipeKey {
	keys := make([]PipeKey, 0, len(q.Pipes))
	for k := range q.Pipes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Band != b.Band {
			return a.Band < b.Band
		}
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		return a.Material < b.Material
	})
	return keys
}

// PartCount returns the number of counted parts.
func (q *Quantities) PartCount() int {
	n := 0
	for _, c := range q.Parts {
		n += c
	}
	return n
}

// PipeLength returns the summed pipe length over all buckets.
func (q *Quantities) PipeLength() float64 {
	total := 0.0
	for _, l := range q.Pipes {
		total += l
	}
	return total
}
