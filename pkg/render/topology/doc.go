// Package topology renders a parsed drainage network as a Graphviz diagram.
//
// # Overview
//
// The plan drawing shows where pipes run; the topology diagram shows how the
// network is connected. Every node becomes a Graphviz node labelled with its
// symbol, sequence number and name, and every pipe an edge from the upstream
// node to the node it drains into, labelled with its length and slope.
// Pre-existing pipes are dashed and placeholder nodes are drawn as points.
//
// # Usage
//
//	dot := topology.ToDOT(net, topology.Options{Detailed: true})
//	svg, err := topology.RenderSVG(ctx, dot)
//
// [RenderSVG] uses the WebAssembly build of Graphviz bundled with
// github.com/goccy/go-graphviz, so no system installation is needed. PDF and
// PNG go through [render.ToPDF] and [render.ToPNG].
package topology
