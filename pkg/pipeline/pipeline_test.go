package pipeline

import (
	"testing"

	"github.com/matzehuels/drainplan/pkg/cache"
	"github.com/matzehuels/drainplan/pkg/config"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/estimate"
)

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"nothing requested", Options{}, errors.ErrCodeInvalidInput},
		{"drawing", Options{Drawing: true}, ""},
		{"pdf", Options{Drawing: true, DrawingFormat: "pdf"}, ""},
		{"bad drawing format", Options{Drawing: true, DrawingFormat: "gif"}, errors.ErrCodeInvalidFormat},
		{"estimate", Options{Estimate: true, EstimateFormat: "CSV"}, ""},
		{"bad estimate format", Options{Estimate: true, EstimateFormat: "docx"}, errors.ErrCodeInvalidFormat},
		{"dot topology", Options{Topology: true, TopologyFormat: "dot"}, ""},
		{"bad topology format", Options{Topology: true, TopologyFormat: "xlsx"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("ValidateAndSetDefaults() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	opts := Options{Topology: true, EstimateFormat: "YAML"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.DrawingFormat != FormatSVG {
		t.Errorf("DrawingFormat = %q, want svg", opts.DrawingFormat)
	}
	if opts.TopologyFormat != FormatSVG {
		t.Errorf("TopologyFormat = %q, want the drawing format", opts.TopologyFormat)
	}
	if opts.EstimateFormat != estimate.FormatYAML {
		t.Errorf("EstimateFormat = %q, want yaml", opts.EstimateFormat)
	}
	if opts.PNGScale != DefaultPNGScale || opts.Logger == nil {
		t.Errorf("PNGScale = %v, Logger = %v", opts.PNGScale, opts.Logger)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scale = 50
	cfg.DrawingFormat = "png"
	cfg.Prices = []estimate.Price{{Name: "排水管", Price: 1800}}

	opts := FromConfig(cfg)
	if opts.Network.Scale != 50 || opts.DrawingFormat != "png" || len(opts.Prices) != 1 {
		t.Errorf("FromConfig() = %+v", opts)
	}
	if opts.Drawing || opts.Estimate || opts.Topology {
		t.Error("FromConfig should not select artifacts")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Drawing: true, Estimate: true, Topology: true, TopologyFormat: "dot"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	d := opts.ArtifactKeyOpts(cache.KindDrawing, "house")
	if d.Format != "svg" || d.LabelRadius == 0 || d.Customer != "" {
		t.Errorf("drawing key opts = %+v", d)
	}
	e := opts.ArtifactKeyOpts(cache.KindEstimate, "house")
	if e.Format != "xlsx" || e.Customer != "house" || e.LabelRadius != 0 {
		t.Errorf("estimate key opts = %+v", e)
	}
	if tp := opts.ArtifactKeyOpts(cache.KindTopology, "house"); tp.Format != "dot" {
		t.Errorf("topology key opts = %+v", tp)
	}

	priced := opts
	priced.Prices = []estimate.Price{{Name: "排水管", Price: 1}}
	if priced.ArtifactKeyOpts(cache.KindEstimate, "house").PriceHash == e.PriceHash {
		t.Error("prices should change the estimate key")
	}
}
