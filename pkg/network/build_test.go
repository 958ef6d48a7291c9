package network

import (
	"math"
	"sort"
	"testing"

	"github.com/matzehuels/drainplan/pkg/angle"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/geom"
)

const e2eInput = `(K (0 100) (5 I (3 N) (2 N) nil) nil nil)`

func mustBuild(t *testing.T, s string, opts Options) *Network {
	t.Helper()
	net, err := BuildString(s, opts)
	if err != nil {
		t.Fatalf("BuildString(%q) error = %v", s, err)
	}
	return net
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestKindsComplete(t *testing.T) {
	if err := validateKinds(); err != nil {
		t.Fatal(err)
	}
	syms := Symbols()
	if len(syms) != len(grammar) || !sort.StringsAreSorted(syms) {
		t.Errorf("Symbols() = %v, want all %d symbols sorted", syms, len(grammar))
	}
	for _, sym := range syms {
		if _, ok := SymbolKind(sym); !ok {
			t.Errorf("Symbols() returned unknown symbol %s", sym)
		}
	}
	if k, ok := SymbolKind("TL"); !ok || k != KindTakeOut {
		t.Errorf("SymbolKind(TL) = %v, %v; want take-out", k, ok)
	}
	if _, ok := SymbolKind("ZZ"); ok {
		t.Error("SymbolKind(ZZ) found a kind")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"unbalanced", `(K (0 100) (5 I`, errors.ErrCodeMalformedInput},
		{"unterminated string", `(K (0 100) (5 I "A1`, errors.ErrCodeMalformedInput},
		{"stray close", `)`, errors.ErrCodeMalformedInput},
		{"empty", ``, errors.ErrCodeGrammar},
		{"unknown root", `(Q (0 100))`, errors.ErrCodeUnknownNodeType},
		{"missing info", `(K 100)`, errors.ErrCodeGrammar},
		{"length not a number", `(K (0 100) (x I) nil nil)`, errors.ErrCodeGrammar},
		{"branch not a list", `(K (0 100) 5 nil nil)`, errors.ErrCodeGrammar},
		{"unknown node", `(K (0 100) (5 ZZ) nil nil)`, errors.ErrCodeUnknownNodeType},
		{"bend without angle", `(K (0 100) (5 L) nil nil)`, errors.ErrCodeGrammar},
		{"side branch not a list", `(K (0 100) (5 I "A1" x nil) nil nil)`, errors.ErrCodeGrammar},
		{"bad pipe size", `(K (0 100) (5 PS (12.5) 1 I) nil nil)`, errors.ErrCodeGrammar},
		{"bad newness", `(K (0 100) (5 PS (100 VU maybe) 1 I) nil nil)`, errors.ErrCodeGrammar},
		{"trailing form", `(K (0 100) nil nil nil) (K (0 100))`, errors.ErrCodeGrammar},
		{"bad scale", `(K (0 -1) nil nil nil)`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildString(tt.input, Options{})
			if err == nil {
				t.Fatalf("BuildString(%q) succeeded, want %s", tt.input, tt.code)
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("error code = %s, want %s (%v)", got, tt.code, err)
			}
			if !errors.IsFatal(err) {
				t.Errorf("IsFatal(%v) = false", err)
			}
		})
	}
}

func TestBuildEndToEnd(t *testing.T) {
	net := mustBuild(t, e2eInput, Options{})
	if net.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", net.Len())
	}

	inv := net.Node(1)
	if inv.Kind != KindInvert || inv.Heading != 0 || inv.Pos.Distance(geom.Pt(5, 0)) > 1e-9 {
		t.Errorf("invert = %s at %v heading %v, want invert at (5, 0) heading 0", inv.Kind, inv.Pos, inv.Heading)
	}

	net.Walk(0, func(nd *Node) {
		if nd.Parent == NoNode {
			return
		}
		p := net.Node(nd.Parent)
		if nd.Pos.Length() <= p.Pos.Length() {
			t.Errorf("node %d at distance %v is not further out than its parent (%v)", nd.ID, nd.Pos.Length(), p.Pos.Length())
		}
		if nd.Elevation >= p.Elevation {
			t.Errorf("node %d elevation %v not below parent %v", nd.ID, nd.Elevation, p.Elevation)
		}
		if want := net.Outlet(p.ID) - nd.Length*DefaultSlope; !near(nd.Elevation, want) {
			t.Errorf("node %d elevation = %v, want %v", nd.ID, nd.Elevation, want)
		}
	})
	if len(net.Warnings) != 0 {
		t.Errorf("Warnings = %v", net.Warnings)
	}
	if net.DepthLabels {
		t.Error("DepthLabels set for a plan without a public junction depth")
	}

	q := net.Takeoff()
	if got := q.PipeLength(); !near(got, 10) {
		t.Errorf("PipeLength() = %v, want 10", got)
	}
	if q.PartCount() != 1 {
		t.Fatalf("PartCount() = %d, want 1: %v", q.PartCount(), q.Parts)
	}
	key := q.PartKeys()[0]
	if key.Name() != "合流マス" || key.Band != 0 {
		t.Errorf("part = %+v, want 合流マス in band 0", key)
	}
}

func TestBuildBranchOrder(t *testing.T) {
	net := mustBuild(t, `(K (0 100) (4 I (1 N) (2 N) 3 N) (5 N) (6 N))`, Options{})
	tests := []struct {
		id      NodeID
		heading float64
		length  float64
	}{
		{1, 0, 4},   // root forward
		{2, 0, 3},   // invert forward
		{3, 90, 2},  // invert left
		{4, 270, 1}, // invert right
		{5, 270, 5}, // root right
		{6, 90, 6},  // root left
	}
	for _, tt := range tests {
		nd := net.Node(tt.id)
		if !near(nd.Heading, tt.heading) || nd.Length != tt.length {
			t.Errorf("node %d: heading %v length %v, want %v, %v", tt.id, nd.Heading, nd.Length, tt.heading, tt.length)
		}
	}
	if got := net.Children(1); len(got) != 3 || got[0] != 2 {
		t.Errorf("Children(1) = %v, want forward first", got)
	}
}

func TestBuildBareSequence(t *testing.T) {
	net := mustBuild(t, "; bare form\nK (0 100 90) (2 I) nil nil", Options{})
	if net.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", net.Len())
	}
	if p := net.Node(1).Pos; p.Distance(geom.Pt(0, 2)) > 1e-9 {
		t.Errorf("node 1 at %v, want (0, 2)", p)
	}
}

func TestBuildOptions(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (5 JO) (3 I) nil)`, Options{Scale: 200, AdjustBoxLength: true, DefaultMaterial: "HP"})
	if net.Scale != 200 || !net.ScaleOverridden {
		t.Errorf("Scale = %v overridden %v, want 200 true", net.Scale, net.ScaleOverridden)
	}
	if got := net.Node(1).Pos.X; !near(got, 5+SepticSetback) {
		t.Errorf("septic placed at %v, want %v", got, 5+SepticSetback)
	}
	if got := net.Node(2).Pos.Y; !near(got, -(3 + BoxAdjust)) {
		t.Errorf("invert placed at y=%v, want %v", got, -(3 + BoxAdjust))
	}
	if m := net.EntryPipe(1).Material; m != "HP" {
		t.Errorf("material = %s, want HP", m)
	}

	if _, err := BuildString(`(K (1 100))`, Options{Resolver: angle.Params{Clearance: 180}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("clearance 180 error = %v, want INVALID_INPUT", err)
	}
}

func TestNumbering(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (2 I (1 I) (1 I "A1") 1 I) nil nil)`, Options{})
	want := map[NodeID]string{0: "4", 1: "3", 2: "1", 3: "A1", 4: "2"}
	for id, seq := range want {
		if got := net.Node(id).Seq; got != seq {
			t.Errorf("node %d Seq = %q, want %q", id, got, seq)
		}
	}
}

func TestOldPipesAreNotNumbered(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (0 PS (100 VU OLD) 2 I nil nil 3 I) nil nil)`, Options{})
	for id := NodeID(2); id < 4; id++ {
		if seq := net.Node(id).Seq; seq != "" {
			t.Errorf("node %d behind an old pipe numbered %q", id, seq)
		}
	}
	q := net.Takeoff()
	if q.PartCount() != 0 || q.PipeLength() != 0 {
		t.Errorf("takeoff of old pipes = %v parts, %v length", q.PartCount(), q.PipeLength())
	}
}

func TestWye(t *testing.T) {
	net := mustBuild(t, `(K (0 100) (2 YT 45 (1 N) nil 1 N) nil nil)`, Options{})
	if net.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", net.Len())
	}
	turn, side := net.Node(3), net.Node(4)
	if turn.Kind != KindTurn || !near(turn.Heading, 315) || turn.Length != TurnLength {
		t.Errorf("turn = %s heading %v length %v", turn.Kind, turn.Heading, turn.Length)
	}
	if side.Parent != turn.ID || !near(side.Heading, 315) {
		t.Errorf("side branch parent %d heading %v, want %d, 315", side.Parent, side.Heading, turn.ID)
	}
	q := net.Takeoff()
	keys := q.PartKeys()
	if len(keys) != 1 || keys[0].Label != "45°YT, VU φ100" {
		t.Errorf("parts = %v, want one 45°YT", keys)
	}
}

func TestNames(t *testing.T) {
	net := mustBuild(t, `(K (1 100) (1 L 0 1 L 90 1 LT 315 1 DD 30 nil nil 1 WC) nil nil)`, Options{})
	want := []string{"公共マス", "ストレートマス", "90° L", "45°L", "ダブルドロップマス", "便所"}
	for i, w := range want {
		if got := net.Name(NodeID(i)); got != w {
			t.Errorf("Name(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestPipeString(t *testing.T) {
	tests := []struct {
		pipe Pipe
		want string
	}{
		{Pipe{Size: 100, Material: "VU", New: true}, "φ100 VU " + NewnessNew},
		{Pipe{Size: 75, Material: "HP"}, "φ75 HP " + NewnessOld},
	}
	for _, tt := range tests {
		if got := tt.pipe.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	net := mustBuild(t, `(K (0 100) (0 PS (100 VU OLD) 2 I) nil nil)`, Options{})
	if p := net.Node(1).Pipe; p.New {
		t.Errorf("pipe select %v, want %s", p, NewnessOld)
	}
}
