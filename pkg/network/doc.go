// Package network builds and processes drainage pipe networks.
//
// A network is described by a parenthesized expression read with
// [github.com/matzehuels/drainplan/pkg/sexpr]:
//
//	(K (0.8 100)            ; public junction, depth 0.8, drawn at 1/100
//	   (5 I (3 WC) (2 KI)   ; invert junction 5 units downstream
//	      4 L 90 (2 BT))    ; ... continuing to a 90° bend
//	   nil nil)
//
// [Build] turns the expression into a [Network]: an arena of [Node] values
// addressed by [NodeID], each placed by polar offset from its parent and given
// an elevation derived from its parent's outlet and the slope of its incoming
// pipe. Take-out level nodes (TL) that cannot be met at the current slope, and
// junctions too shallow for minimum cover, trigger a backward recalculation
// that adjusts slopes along the path to the nearest anchor and re-derives
// everything below it.
//
// The built network is then processed by independent passes:
//
//   - [Network.ResolveLabels] chooses collision-free leader-line angles
//   - [Network.Takeoff] aggregates part counts and banded pipe lengths
//   - [Network.Draw] replays the drawing on a [render.Device]
//
// Behavior per node kind (parse grammar, elevation rule, label, quantities,
// drawing) lives in a table of traits keyed by [Kind]; the table is checked at
// package initialization.
//
// [render.Device]: https://pkg.go.dev/github.com/matzehuels/drainplan/pkg/render#Device
package network
