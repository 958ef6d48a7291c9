package network

import (
	"math"
	"testing"

	"github.com/matzehuels/drainplan/pkg/errors"
)

func TestMinCoverFlattensPath(t *testing.T) {
	net := mustBuild(t, `(K (0.45 100) (10 I nil nil 10 I nil nil 10 I) nil nil)`, Options{})
	if len(net.Warnings) != 0 {
		t.Fatalf("Warnings = %v", net.Warnings)
	}
	for _, id := range []NodeID{1, 2} {
		if s := net.Node(id).Slope; !near(s, 0.015) {
			t.Errorf("node %d slope = %v, want 0.015", id, s)
		}
		if d := net.Depth(id); d < MinCover {
			t.Errorf("node %d depth %v below minimum cover", id, d)
		}
	}
	if s := net.Root().Slope; !near(s, 0.015) {
		t.Errorf("root slope = %v, want the flattened slope", s)
	}
	if got := net.Node(2).Elevation; math.Abs(got-0.15) > 1e-9 {
		t.Errorf("node 2 elevation = %v, want 0.15", got)
	}
}

func TestMinCoverResidual(t *testing.T) {
	net := mustBuild(t, `(K (0.05 100) (1 I) nil nil)`, Options{})
	if len(net.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", net.Warnings)
	}
	w := net.Warnings[0]
	if w.Code != errors.ErrCodeRecalculationResidual || w.Node != 0 {
		t.Errorf("warning = %+v", w)
	}
}

func TestPlanOnlySkipsMinCover(t *testing.T) {
	net := mustBuild(t, `(K (0 100) (10 I nil nil 10 I) nil nil)`, Options{})
	if len(net.Warnings) != 0 || net.Node(1).Slope != DefaultSlope {
		t.Errorf("plan-only network recalculated: warnings %v slope %v", net.Warnings, net.Node(1).Slope)
	}
}

func TestTakeOutLevel(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (10 I nil nil 0 TL 0.5 10 I) nil nil)`, Options{})
	if len(net.Warnings) != 0 {
		t.Fatalf("Warnings = %v", net.Warnings)
	}
	tl := net.Node(2)
	if tl.Kind != KindTakeOut || math.Abs(tl.Elevation-tl.Required) > LevelTolerance {
		t.Errorf("take-out elevation = %v, want %v", tl.Elevation, tl.Required)
	}
	if s := net.Node(1).Slope; math.Abs(s-0.05) > 1e-6 {
		t.Errorf("invert slope = %v, want 0.05", s)
	}
	// Pipes attached past the take-out follow the new slope.
	if got := net.Node(3).Elevation; math.Abs(got-0) > 1e-6 {
		t.Errorf("upstream elevation = %v, want 0", got)
	}
}

func TestMinCoverStopsAtTakeOut(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (10 TL 0.9 45 I nil nil 40 I nil nil 1 I) nil nil)`, Options{})
	if len(net.Warnings) != 0 {
		t.Fatalf("Warnings = %v", net.Warnings)
	}
	tl := net.Node(1)
	if math.Abs(tl.Elevation-tl.Required) > LevelTolerance {
		t.Errorf("take-out elevation = %v, want %v", tl.Elevation, tl.Required)
	}
	// Only the pipes below the take-out step down.
	for _, id := range []NodeID{2, 3} {
		if s := net.Node(id).Slope; !near(s, 0.0075) {
			t.Errorf("node %d slope = %v, want 0.0075", id, s)
		}
	}
	if s := tl.Slope; !near(s, 0.01) {
		t.Errorf("take-out slope = %v, want 0.01", s)
	}
	if s := net.Root().Slope; !near(s, 0.01) {
		t.Errorf("root slope = %v, want 0.01", s)
	}
	if got := net.Node(3).Elevation; math.Abs(got-0.2625) > 1e-9 {
		t.Errorf("node 3 elevation = %v, want 0.2625", got)
	}
}

func TestShallowTakeOutKeepsLevel(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (10 TL 0.05 1 I) nil nil)`, Options{})
	if len(net.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", net.Warnings)
	}
	if w := net.Warnings[0]; w.Code != errors.ErrCodeRecalculationResidual || w.Node != 1 {
		t.Errorf("warning = %+v", w)
	}
	if tl := net.Node(1); math.Abs(tl.Elevation-0.05) > LevelTolerance {
		t.Errorf("take-out elevation = %v, want 0.05", tl.Elevation)
	}
}

func TestTakeOutWithoutRun(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (0 TL 0.5) nil nil)`, Options{})
	if len(net.Warnings) != 1 || net.Warnings[0].Code != errors.ErrCodeRecalculationResidual {
		t.Errorf("Warnings = %v, want one residual", net.Warnings)
	}
}

func TestOutlet(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (1 D 0 1 D (0 0.3) 1 PO 0.2 1 PO 0) nil nil)`, Options{})
	d1, d2, p1, p2 := net.Node(1), net.Node(2), net.Node(3), net.Node(4)
	if !near(net.Outlet(d1.ID), d1.Elevation/2) {
		t.Errorf("drop without step outlet = %v", net.Outlet(d1.ID))
	}
	if !near(net.Outlet(d2.ID), d2.Elevation-0.3) {
		t.Errorf("drop with step outlet = %v", net.Outlet(d2.ID))
	}
	if !near(net.Outlet(p1.ID), p1.Elevation+0.2) {
		t.Errorf("pump outlet = %v", net.Outlet(p1.ID))
	}
	if p2.Lift != DefaultLift {
		t.Errorf("pump lift = %v, want %v", p2.Lift, DefaultLift)
	}
}

func TestGroundLevel(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (0 LEVEL 0.2 1 I nil nil 0 LEVEL 0.1 1 I nil nil 0 ALEVEL 0 1 I) nil nil)`, Options{})
	want := map[NodeID]float64{2: 0.2, 4: 0.3, 6: 0}
	for id, g := range want {
		if got := net.Node(id).GroundOffset; !near(got, g) {
			t.Errorf("node %d ground offset = %v, want %v", id, got, g)
		}
	}
	if d := net.Depth(2); !near(d, net.Node(2).Elevation+0.2) {
		t.Errorf("Depth(2) = %v", d)
	}
}

func TestNextSlope(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
		ok   bool
	}{
		{0.02, 0.015, true},
		{0.05, 0.02, true},
		{0.0075, 0.005, true},
		{0.0025, 0.0025, false},
	}
	for _, tt := range tests {
		got, ok := nextSlope(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("nextSlope(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
