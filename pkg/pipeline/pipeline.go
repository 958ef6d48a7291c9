// Package pipeline runs a network description through every drainplan stage.
//
// The pipeline reads a .ge description, builds and levels the network,
// places its labels, and renders the requested artifacts: the plan drawing
// (SVG, PDF or PNG), the cost estimate (any [estimate.Format]) and an
// optional Graphviz topology diagram. The CLI is a thin layer over it.
//
// # Stages
//
//  1. Read: load the description and hash it
//  2. Build: parse, place and level the network ([network.Read])
//  3. Resolve: choose label angles ([network.Network.ResolveLabels])
//  4. Render: draw, take off quantities and write the estimate
//
// Artifacts are cached by the hash of the description plus every option that
// affects them, so unchanged inputs skip stages 2 to 4 entirely. Warnings are
// cached with the artifact and reported on hits too.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	in, err := pipeline.ReadInput("house.ge")
//	opts := pipeline.FromConfig(cfg)
//	opts.Drawing, opts.Estimate = true, true
//	result, err := runner.Execute(ctx, in, opts)
//	for _, a := range result.Artifacts {
//	    path, err := pipeline.WriteArtifact(outDir, in, a)
//	}
package pipeline

import (
	"encoding/json"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drainplan/pkg/cache"
	"github.com/matzehuels/drainplan/pkg/config"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/network"
)

// Drawing and topology formats.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
	// FormatDOT is the Graphviz source of a topology diagram.
	FormatDOT = "dot"
)

// DefaultPNGScale is the rsvg-convert zoom used for PNG output.
const DefaultPNGScale = 2.0

// DrawingFormats are the formats a plan drawing can be rendered in.
var DrawingFormats = []string{FormatSVG, FormatPDF, FormatPNG}

// TopologyFormats are the formats a topology diagram can be rendered in.
var TopologyFormats = []string{FormatSVG, FormatPDF, FormatPNG, FormatDOT}

// Options selects the artifacts of a run and how they are produced.
type Options struct {
	// Network configures the build and label passes.
	Network network.Options

	Drawing  bool // render the plan drawing
	Estimate bool // write the cost estimate
	Topology bool // render the topology diagram

	DrawingFormat  string
	EstimateFormat estimate.Format
	TopologyFormat string
	// Detailed adds pipe and slope to topology edges.
	Detailed bool
	PNGScale float64

	// Customer heads the estimate; empty means the input's base name.
	Customer string
	Prices   []estimate.Price

	// Refresh ignores cached artifacts but still stores new ones.
	Refresh bool

	Logger *log.Logger

	validated bool
}

// FromConfig returns options carrying the configuration's defaults. No
// artifact is selected.
func FromConfig(cfg config.Config) Options {
	return Options{
		Network:        cfg.NetworkOptions(),
		DrawingFormat:  cfg.DrawingFormat,
		EstimateFormat: estimate.Format(cfg.EstimateFormat),
		Prices:         cfg.Prices,
	}
}

// ValidateAndSetDefaults checks the options and fills zero fields.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if !o.Drawing && !o.Estimate && !o.Topology {
		return errors.New(errors.ErrCodeInvalidInput, "no artifact requested")
	}
	if o.DrawingFormat == "" {
		o.DrawingFormat = FormatSVG
	}
	if !slices.Contains(DrawingFormats, o.DrawingFormat) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid drawing format %q (must be one of: svg, pdf, png)", o.DrawingFormat)
	}
	if o.EstimateFormat == "" {
		o.EstimateFormat = estimate.FormatXLSX
	}
	f, err := estimate.ParseFormat(string(o.EstimateFormat))
	if err != nil {
		return err
	}
	o.EstimateFormat = f
	if o.TopologyFormat == "" {
		o.TopologyFormat = o.DrawingFormat
	}
	if !slices.Contains(TopologyFormats, o.TopologyFormat) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid topology format %q (must be one of: svg, pdf, png, dot)", o.TopologyFormat)
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if err := o.Network.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// kinds lists the requested artifact kinds in output order.
func (o *Options) kinds() []string {
	var ks []string
	if o.Drawing {
		ks = append(ks, cache.KindDrawing)
	}
	if o.Estimate {
		ks = append(ks, cache.KindEstimate)
	}
	if o.Topology {
		ks = append(ks, cache.KindTopology)
	}
	return ks
}

// format returns the output format of an artifact kind.
func (o *Options) format(kind string) string {
	switch kind {
	case cache.KindEstimate:
		return string(o.EstimateFormat)
	case cache.KindTopology:
		return o.TopologyFormat
	}
	return o.DrawingFormat
}

// ArtifactKeyOpts returns cache key options for one artifact kind.
func (o *Options) ArtifactKeyOpts(kind, customer string) cache.ArtifactKeyOpts {
	n := o.Network
	n.SetDefaults()
	k := cache.ArtifactKeyOpts{
		Kind:            kind,
		Format:          o.format(kind),
		Scale:           n.Scale,
		DefaultMaterial: n.DefaultMaterial,
		AdjustBoxLength: n.AdjustBoxLength,
		DrawDepth:       !n.NoDepthLabels,
	}
	switch kind {
	case cache.KindDrawing:
		k.LabelRadius = n.Resolver.Radius
		k.LabelClearance = n.Resolver.Clearance
		k.MarkerLength = n.Resolver.MarkerLength
		k.RetryBudget = n.RetryBudget
	case cache.KindEstimate:
		k.Customer = customer
		k.PriceHash = priceHash(o.Prices)
	case cache.KindTopology:
		k.Detailed = o.Detailed
	}
	if k.Format == FormatPNG {
		k.PNGScale = o.PNGScale
	}
	return k
}

func priceHash(prices []estimate.Price) string {
	if len(prices) == 0 {
		return ""
	}
	b, _ := json.Marshal(prices)
	return cache.Hash(b)
}

// Artifact is one rendered output.
type Artifact struct {
	Kind   string
	Format string
	Data   []byte
	// Cached is true when Data came from the cache.
	Cached bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in log lines.
	RunID string
	// Network is the built network; nil when every artifact was cached.
	Network *network.Network
	// Warnings are the non-fatal conditions found while building.
	Warnings  []network.Warning
	Artifacts []Artifact
	Stats     Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	PipeLength float64
	PartCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
	CacheHits  int
}
