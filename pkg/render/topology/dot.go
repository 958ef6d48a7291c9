package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drainplan/pkg/network"
	"github.com/matzehuels/drainplan/pkg/render"
)

// Options configures topology rendering.
type Options struct {
	// Detailed adds depth, ground offset and pipe properties to the labels.
	Detailed bool
}

// ToDOT converts a network to Graphviz DOT. Edges point downstream, so the
// public junction is at the bottom.
func ToDOT(net *network.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for i := range net.Nodes {
		nd := &net.Nodes[i]
		fmt.Fprintf(&buf, "  n%d [%s];\n", nd.ID, strings.Join(nodeAttrs(net, nd, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for i := range net.Nodes {
		nd := &net.Nodes[i]
		if nd.Parent == network.NoNode {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", nd.ID, nd.Parent, strings.Join(edgeAttrs(net, nd, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(net *network.Network, nd *network.Node, detailed bool) string {
	head := nd.Symbol
	if head == "" {
		head = nd.Kind.String()
	}
	if nd.Seq != "" {
		head += " No." + nd.Seq
	}
	lines := []string{head}
	if name := net.Name(nd.ID); name != "" && name != nd.Symbol {
		lines = append(lines, name)
	}
	if detailed {
		lines = append(lines, fmt.Sprintf("H %.3f  GL %.2f", net.Depth(nd.ID), nd.GroundOffset))
	}
	return strings.Join(lines, "\n")
}

func nodeAttrs(net *network.Network, nd *network.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(net, nd, detailed))}
	switch {
	case nd.Kind == network.KindPlaceholder:
		attrs = []string{`label=""`, "shape=point"}
	case nd.Kind.IsRoot():
		attrs = append(attrs, "shape=doublecircle")
	case nd.Kind == network.KindLabel || nd.Kind == network.KindFixture:
		attrs = append(attrs, "shape=note")
	}
	if !net.EntryPipe(nd.ID).New {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

func edgeAttrs(net *network.Network, nd *network.Node, detailed bool) []string {
	label := strconv.FormatFloat(nd.Length, 'f', 2, 64)
	pipe := net.EntryPipe(nd.ID)
	if detailed {
		label += fmt.Sprintf("\n%s s=%.4f", pipe, nd.Slope)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !pipe.New {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
