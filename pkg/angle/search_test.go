package angle

import (
	"math"
	"testing"

	"github.com/matzehuels/drainplan/pkg/geom"
	"github.com/matzehuels/drainplan/pkg/interval"
)

func TestVectorRanges(t *testing.T) {
	tests := []struct {
		name string
		v    Vector
		want []interval.Range
	}{
		{"quadrant", Vector{geom.Pt(1, 0), geom.Pt(0, 1)}, []interval.Range{{Min: 0, Max: 90}}},
		{"wraps", Vector{geom.Pt(1, -1), geom.Pt(1, 1)}, []interval.Range{{Min: 0, Max: 45}, {Min: 315, Max: 360}}},
		{"one endpoint at origin", Vector{geom.Origin, geom.Pt(0, 1)}, []interval.Range{{Min: 90, Max: 90}}},
		{"degenerate", Vector{geom.Origin, geom.Origin}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Ranges(geom.Origin)
			if len(got) != len(tt.want) {
				t.Fatalf("Ranges() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i].Min-tt.want[i].Min) > 1e-9 || math.Abs(got[i].Max-tt.want[i].Max) > 1e-9 {
					t.Errorf("Ranges()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCatalogRollback(t *testing.T) {
	var c Catalog
	c.Add(Vector{geom.Origin, geom.Pt(1, 0)})
	mark := c.Mark()
	c.AddMarker(Vector{geom.Origin, geom.Pt(0, 1)})
	c.AddMarker(Vector{geom.Origin, geom.Pt(-1, 0)})
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	c.Rollback(mark)
	if c.Len() != 1 || c.Markers() != 0 {
		t.Errorf("after Rollback Len() = %d, Markers() = %d", c.Len(), c.Markers())
	}
	c.Rollback(10)
	if c.Len() != 1 {
		t.Errorf("Rollback past the end changed Len() to %d", c.Len())
	}
}

func TestCatalogNear(t *testing.T) {
	var c Catalog
	c.Add(Vector{geom.Pt(0.5, 0), geom.Pt(10, 0)})
	c.Add(Vector{geom.Pt(20, 0), geom.Pt(30, 0)})
	if got := c.Near(geom.Origin, 1); len(got) != 1 {
		t.Errorf("Near() returned %d vectors, want 1", len(got))
	}
}

func TestSearchEmptyCatalog(t *testing.T) {
	s := &Searcher{Catalog: &Catalog{}, Params: DefaultParams(), Scale: 100}

	a, ok := s.Search(geom.Origin, NoHint, nil)
	if !ok || a != 240 {
		t.Errorf("Search() = %v, %v; want 240, true", a, ok)
	}
	if s.Catalog.Markers() != 1 {
		t.Errorf("Markers() = %d, want 1", s.Catalog.Markers())
	}
}

func TestSearchHint(t *testing.T) {
	s := &Searcher{Catalog: &Catalog{}, Params: DefaultParams(), Scale: 100}
	// A pipe leaving east blocks nothing but the single heading 0.
	s.Catalog.Add(Vector{geom.Origin, geom.Pt(3, 0)})

	a, ok := s.Search(geom.Origin, HintAt(100), nil)
	if !ok || a != 100 {
		t.Errorf("Search() = %v, %v; want the hint", a, ok)
	}
	if s.Catalog.Markers() != 0 {
		t.Errorf("an accepted hint recorded %d markers", s.Catalog.Markers())
	}

	// Too close to an avoided heading: the hint is refused.
	a, ok = s.Search(geom.Origin, HintAt(100), []float64{90})
	if !ok || a == 100 {
		t.Errorf("Search() = %v, %v; want a heading other than the hint", a, ok)
	}
}

func TestSearchHintOnOwnPipe(t *testing.T) {
	s := &Searcher{Catalog: &Catalog{}, Params: DefaultParams(), Scale: 100}
	s.Catalog.Add(Vector{geom.Origin, geom.Pt(0, 3)})

	free := s.Free(geom.Origin, nil)
	if len(free) != 2 || free[0].Max != 90 || free[1].Min != 90 {
		t.Fatalf("Free() = %v, want the turn split at 90", free)
	}
	for _, hint := range []float64{90, 80, 105} {
		a, ok := s.Search(geom.Origin, HintAt(hint), nil)
		if !ok {
			t.Fatalf("Search(%v) failed", hint)
		}
		if math.Abs(a-90) <= s.Params.Clearance {
			t.Errorf("Search(%v) = %v, within %v° of the pipe at 90", hint, a, s.Params.Clearance)
		}
	}
}

func TestSearchSurrounded(t *testing.T) {
	s := &Searcher{Catalog: &Catalog{}, Params: DefaultParams(), Scale: 100}
	corners := []geom.Point{geom.Pt(1, 1), geom.Pt(-1, 1), geom.Pt(-1, -1), geom.Pt(1, -1)}
	for i := range corners {
		s.Catalog.Add(Vector{corners[i], corners[(i+1)%len(corners)]})
	}
	if a, ok := s.Search(geom.Origin, HintAt(45), nil); ok {
		t.Errorf("Search() = %v, want failure", a)
	}
}

func TestSearchScaleRadius(t *testing.T) {
	s := &Searcher{Catalog: &Catalog{}, Params: DefaultParams(), Scale: 50}
	// 3 units away: inside the radius at 1/100 but not at 1/50.
	s.Catalog.Add(Vector{geom.Pt(3, -3), geom.Pt(3, 3)})
	if free := s.Free(geom.Origin, nil); len(free) != 1 || free[0].Size() != 360 {
		t.Errorf("Free() at 1/50 = %v, want the full turn", free)
	}
	s.Scale = 100
	if free := s.Free(geom.Origin, nil); len(free) != 1 || math.Abs(free[0].Size()-270) > 1e-9 {
		t.Errorf("Free() at 1/100 = %v, want [45,315]", free)
	}
}

func TestAddArc(t *testing.T) {
	tests := []struct {
		center float64
		want   string
	}{
		{90, "{[70,110]}"},
		{10, "{[0,30] [350,360]}"},
		{350, "{[0,10] [330,360]}"},
	}
	for _, tt := range tests {
		var s interval.Set
		AddArc(&s, tt.center, 20)
		if got := s.String(); got != tt.want {
			t.Errorf("AddArc(%v) = %s, want %s", tt.center, got, tt.want)
		}
	}
}

func TestBisect(t *testing.T) {
	tests := []struct {
		name     string
		offsets  []float64
		want     float64
		straight bool
	}{
		{"forward only", []float64{0}, 0, true},
		{"forward and right", []float64{0, 270}, 90, false},
		{"tee", []float64{0, 90, 270}, 45, false},
		{"bend", []float64{45}, 270, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, straight := Bisect(tt.offsets)
			if straight != tt.straight || (!straight && got != tt.want) {
				t.Errorf("Bisect(%v) = %v, %v; want %v, %v", tt.offsets, got, straight, tt.want, tt.straight)
			}
		})
	}
}
