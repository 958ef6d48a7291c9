package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/network"
	"github.com/matzehuels/drainplan/pkg/render"
	"github.com/matzehuels/drainplan/pkg/render/svg"
	"github.com/matzehuels/drainplan/pkg/render/topology"
)

// RenderDrawing draws net and returns it in format.
func RenderDrawing(ctx context.Context, net *network.Network, format string, pngScale float64) ([]byte, error) {
	dev := svg.New()
	net.Draw(dev)
	data := dev.Bytes()

	switch format {
	case FormatSVG:
		return data, nil
	case FormatPDF:
		return render.ToPDF(ctx, data)
	case FormatPNG:
		return render.ToPNG(ctx, data, pngScale)
	}
	return nil, fmt.Errorf("unsupported drawing format: %s", format)
}

// RenderEstimate takes off the quantities of net and writes them as a priced
// estimate sheet headed by customer.
func RenderEstimate(net *network.Network, customer string, format estimate.Format, book *estimate.PriceBook) ([]byte, error) {
	sheet := estimate.NewSheet(customer, net.Takeoff(), book)
	var buf bytes.Buffer
	if err := estimate.Write(&buf, sheet, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTopology renders the pipe topology of net through Graphviz.
func RenderTopology(ctx context.Context, net *network.Network, format string, detailed bool, pngScale float64) ([]byte, error) {
	dot := topology.ToDOT(net, topology.Options{Detailed: detailed})

	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return topology.RenderSVG(ctx, dot)
	case FormatPDF:
		return topology.RenderPDF(ctx, dot)
	case FormatPNG:
		return topology.RenderPNG(ctx, dot, pngScale)
	}
	return nil, fmt.Errorf("unsupported topology format: %s", format)
}
