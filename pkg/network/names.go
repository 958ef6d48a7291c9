package network

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/drainplan/pkg/estimate"
)

func fixedName(name string) func(*Node) string {
	return func(*Node) string { return name }
}

func textName(nd *Node) string { return nd.Text }

// angleName names a fitting after the absolute size of its turn.
func angleName(format string) func(*Node) string {
	return func(nd *Node) string { return fmt.Sprintf(format, formatAngle(pan(nd.Turn))) }
}

func bendName(nd *Node) string {
	if nd.Turn == 0 {
		return "ストレートマス"
	}
	return formatAngle(pan(nd.Turn)) + "° L"
}

// pan folds an exit angle into [0, 180].
func pan(a float64) float64 {
	if a > 180 {
		a = 360 - a
	}
	return math.Abs(a)
}

func formatAngle(a float64) string { return strconv.FormatFloat(a, 'f', -1, 64) }

func boxPart(n *Network, nd *Node) (string, estimate.Band, bool) {
	band := estimate.StepBand(n.Depth(nd.ID))
	return fmt.Sprintf("%s, φ150×%d×H%s", n.Name(nd.ID), nd.Pipe.Size, band), band, true
}

func unitPart(n *Network, nd *Node) (string, estimate.Band, bool) {
	return n.Name(nd.ID), estimate.StepBand(n.Depth(nd.ID)), true
}

func fittingPart(n *Network, nd *Node) (string, estimate.Band, bool) {
	entry := n.EntryPipe(nd.ID)
	label := fmt.Sprintf("%s, %s φ%d", n.Name(nd.ID), entry.Material, entry.Size)
	if nd.BranchSize != 0 && nd.BranchSize != entry.Size {
		label += "×" + strconv.Itoa(nd.BranchSize)
	}
	return label, 0, true
}

func selectPart(_ *Network, nd *Node) (string, estimate.Band, bool) {
	if nd.PrevSize == nd.Pipe.Size {
		return "", 0, false
	}
	hi, lo := max(nd.PrevSize, nd.Pipe.Size), min(nd.PrevSize, nd.Pipe.Size)
	return fmt.Sprintf("S, φ%d×%d", hi, lo), 0, true
}

// slopeFraction renders a slope truncated to thousandths as a reduced
// fraction, e.g. 0.02 as "1/50".
func slopeFraction(s float64) string {
	num, den := int(s*1000+1e-9), 1000
	if num == 0 {
		return "0/1"
	}
	g := gcd(abs(num), den)
	return fmt.Sprintf("%d/%d", num/g, den/g)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// textWidth is the display width of s in half-width cells.
func textWidth(s string) int { return runewidth.StringWidth(s) }
