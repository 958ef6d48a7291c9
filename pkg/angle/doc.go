// Package angle finds unobstructed directions for label leader lines.
//
// Every pipe segment and text label of a drawing is recorded as a [Vector] in
// a [Catalog]. To place a label at a node, the vectors near the node are turned
// into blocked heading ranges, the free headings are the complement over
// [0°, 360°), and [Searcher.Search] picks one of them: the caller's hint when it
// sits comfortably inside a free range, otherwise a point two thirds of the way
// up the widest free range. A short marker vector is then recorded along the
// chosen heading so later labels steer clear of it.
//
// Markers can be withdrawn with [Catalog.Mark] and [Catalog.Rollback], which is
// how a caller abandons a candidate and tries another.
//
// [Bisect] is the context-free fallback used when searching fails: it splits
// the widest gap between a node's exit offsets.
package angle
