// Package config loads the drainplan configuration file.
//
// The file is TOML, by default at $XDG_CONFIG_HOME/drainplan/config.toml
// (~/.config/drainplan/config.toml without XDG_CONFIG_HOME). A missing file
// is not an error: [Load] returns [Default]. Keys left out of the file keep
// their defaults.
//
//	default_material = "VU"
//	output_dir = "out"
//	draw_depth = true
//	adjust_box_length = false
//	scale = 0
//	drawing_format = "svg"
//	estimate_format = "xlsx"
//
//	[resolver]
//	radius = 5
//	clearance = 20
//	marker_length = 5
//	retry_budget = 64
//
//	[[prices]]
//	name = "排水管"
//	spec = "φ100×H0.6～0.8"
//	price = 1800
//
// Pipe rows are grouped in 0.2 m depth bands and their spec names a band by
// both edges, lower edge first: the entry above prices pipe laid between 0.6
// and 0.8 deep. Price lists that key a pipe by the deeper edge alone (H0.8 for
// the same pipe) must be rewritten to the two-edge form. Parts keep the
// single rounded-up depth, e.g. "φ150×100×H0.6".
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/drainplan/pkg/angle"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/network"
)

const appName = "drainplan"

// FileName is the configuration file name.
const FileName = "config.toml"

// Drawing formats.
const (
	DrawingSVG = "svg"
	DrawingPDF = "pdf"
	DrawingPNG = "png"
)

// Resolver tunes label placement.
type Resolver struct {
	Radius       float64 `toml:"radius"`
	Clearance    float64 `toml:"clearance"`
	MarkerLength float64 `toml:"marker_length"`
	RetryBudget  int     `toml:"retry_budget"`
}

// Config is the configuration file.
type Config struct {
	DefaultMaterial string  `toml:"default_material"`
	OutputDir       string  `toml:"output_dir"`
	DrawDepth       bool    `toml:"draw_depth"`
	AdjustBoxLength bool    `toml:"adjust_box_length"`
	Scale           float64 `toml:"scale"`
	DrawingFormat   string  `toml:"drawing_format"`
	EstimateFormat  string  `toml:"estimate_format"`

	Resolver Resolver         `toml:"resolver"`
	Prices   []estimate.Price `toml:"prices"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := angle.DefaultParams()
	return Config{
		DefaultMaterial: estimate.DefaultMaterial,
		DrawDepth:       true,
		DrawingFormat:   DrawingSVG,
		EstimateFormat:  string(estimate.FormatXLSX),
		Resolver: Resolver{
			Radius:       p.Radius,
			Clearance:    p.Clearance,
			MarkerLength: p.MarkerLength,
			RetryBudget:  network.DefaultRetryBudget,
		},
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, FileName), nil
}

// Load reads the configuration at path over the defaults. An empty path
// means [Path]. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown key %s", path, undec[0])
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and format names.
func (c Config) Validate() error {
	if c.Scale != 0 {
		if err := errors.ValidateScale(c.Scale); err != nil {
			return err
		}
	}
	switch c.DrawingFormat {
	case DrawingSVG, DrawingPDF, DrawingPNG:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown drawing format %q (want svg, pdf or png)", c.DrawingFormat)
	}
	if _, err := estimate.ParseFormat(c.EstimateFormat); err != nil {
		return err
	}
	if c.Resolver.Clearance < 0 || c.Resolver.Clearance >= 180 {
		return errors.New(errors.ErrCodeInvalidInput, "resolver clearance must be in [0, 180), got %g", c.Resolver.Clearance)
	}
	return nil
}

// NetworkOptions returns the build options the configuration implies.
func (c Config) NetworkOptions() network.Options {
	return network.Options{
		DefaultMaterial: c.DefaultMaterial,
		Scale:           c.Scale,
		AdjustBoxLength: c.AdjustBoxLength,
		NoDepthLabels:   !c.DrawDepth,
		Resolver: angle.Params{
			Radius:       c.Resolver.Radius,
			Clearance:    c.Resolver.Clearance,
			MarkerLength: c.Resolver.MarkerLength,
		},
		RetryBudget: c.Resolver.RetryBudget,
	}
}

// PriceBook returns the configured prices.
func (c Config) PriceBook() *estimate.PriceBook {
	return estimate.NewPriceBook(c.Prices)
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
