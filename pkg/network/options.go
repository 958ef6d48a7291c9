package network

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drainplan/pkg/angle"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/estimate"
)

// Physical constants of the drainage model, in model units (metres).
const (
	// DefaultSlope is the slope of every pipe until recalculation changes it.
	DefaultSlope = 0.02
	// DefaultPipeSize is the diameter of the pipe leaving the public junction.
	DefaultPipeSize = 100
	// MinCover is the minimum depth of a junction before its path is flattened.
	MinCover = 0.1
	// LevelTolerance is how far a take-out level may miss its requirement.
	LevelTolerance = 0.001
	// StepDip is the extra fall of stepped invert junctions and rain boxes.
	StepDip = 0.05
	// DefaultLift is the lift of a pump given as 0.
	DefaultLift = 0.5
	// BoxAdjust is added to every placement when box lengths are adjusted.
	BoxAdjust = 0.254 / 2
	// SepticSetback is added to the placement of septic tanks.
	SepticSetback = 2
	// TurnLength is the length of the bend leading into a wye side branch.
	TurnLength = 0.1
)

// SlopeSteps are the standard slopes tried, in order, when a path must be
// flattened.
var SlopeSteps = []float64{0.02, 0.015, 0.01, 0.0075, 0.005, 0.0025}

// DefaultRetryBudget bounds the label-angle retries of one resolution.
const DefaultRetryBudget = 64

// maxRefinements bounds the iterations of one constrained recalculation.
const maxRefinements = 8

// Options configures [Build] and the passes over the built network.
type Options struct {
	// DefaultMaterial is the material of the pipe leaving the public junction.
	DefaultMaterial string
	// Scale overrides the scale given in the input when positive.
	Scale float64
	// AdjustBoxLength extends every placement by half a junction box.
	AdjustBoxLength bool
	// NoDepthLabels leaves depths out of junction labels.
	NoDepthLabels bool

	// Resolver tunes the label-angle search.
	Resolver angle.Params
	// RetryBudget bounds label-angle retries; 0 means [DefaultRetryBudget].
	RetryBudget int

	// Logger receives recalculation and resolution diagnostics.
	Logger *log.Logger
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.DefaultMaterial == "" {
		o.DefaultMaterial = estimate.DefaultMaterial
	}
	def := angle.DefaultParams()
	if o.Resolver.Radius <= 0 {
		o.Resolver.Radius = def.Radius
	}
	if o.Resolver.Clearance <= 0 {
		o.Resolver.Clearance = def.Clearance
	}
	if o.Resolver.MarkerLength <= 0 {
		o.Resolver.MarkerLength = def.MarkerLength
	}
	if o.RetryBudget <= 0 {
		o.RetryBudget = DefaultRetryBudget
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate checks option values.
func (o *Options) Validate() error {
	if o.Scale != 0 {
		if err := errors.ValidateScale(o.Scale); err != nil {
			return err
		}
	}
	if o.Resolver.Clearance >= 180 {
		return errors.New(errors.ErrCodeInvalidInput, "label clearance must be below 180°, got %g", o.Resolver.Clearance)
	}
	return nil
}
