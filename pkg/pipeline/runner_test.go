package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/drainplan/pkg/cache"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/observability"
)

const house = `(K (1 100) (5 I (3 N) (2 N) nil) nil nil)`

type countingHooks struct {
	observability.NoopCacheHooks
	mu           sync.Mutex
	hits, misses int
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Drawing: true, Estimate: true, EstimateFormat: estimate.FormatJSON, Topology: true, TopologyFormat: FormatDOT}

	result, err := r.Execute(context.Background(), NewInput("house.ge", []byte(house)), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Network == nil || result.Stats.NodeCount != 4 {
		t.Fatalf("Network = %v, NodeCount = %d", result.Network, result.Stats.NodeCount)
	}
	if len(result.Artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(result.Artifacts))
	}
	if result.Stats.PipeLength != 10 || result.Stats.PartCount != 1 {
		t.Errorf("PipeLength = %v, PartCount = %d", result.Stats.PipeLength, result.Stats.PartCount)
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}

	draw, est, topo := result.Artifacts[0], result.Artifacts[1], result.Artifacts[2]
	if draw.Kind != cache.KindDrawing || !bytes.Contains(draw.Data, []byte("<svg")) {
		t.Errorf("drawing artifact = %s %q", draw.Kind, draw.Data)
	}
	if !bytes.Contains(draw.Data, []byte("1/100")) {
		t.Error("drawing lacks the scale caption")
	}

	var sheet estimate.Sheet
	if err := json.Unmarshal(est.Data, &sheet); err != nil {
		t.Fatalf("estimate is not JSON: %v", err)
	}
	if sheet.Customer != "house" {
		t.Errorf("Customer = %q, want the input base name", sheet.Customer)
	}

	if topo.Format != FormatDOT || !strings.HasPrefix(string(topo.Data), "digraph") {
		t.Errorf("topology artifact = %s %q", topo.Format, topo.Data)
	}
}

func TestExecuteBuildError(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), NewInput("bad.ge", []byte(`(K (0 100) (5 ZZ) nil nil)`)), Options{Drawing: true})
	if !errors.Is(err, errors.ErrCodeUnknownNodeType) {
		t.Errorf("Execute() error = %v, want UNKNOWN_NODE_TYPE", err)
	}
	if !errors.IsFatal(err) {
		t.Error("build errors should be fatal")
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(ctx, NewInput("house.ge", []byte(house)), Options{Drawing: true}); err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecuteCache(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	in := NewInput("house.ge", []byte(`(K (0.05 100) (5 I (3 N) (2 N) nil) nil nil)`))
	opts := Options{Drawing: true, Estimate: true, EstimateFormat: estimate.FormatCSV}

	first, err := r.Execute(context.Background(), in, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.CacheHits != 0 || hooks.misses != 2 {
		t.Errorf("first run: hits = %d, misses = %d", first.Stats.CacheHits, hooks.misses)
	}

	second, err := r.Execute(context.Background(), in, opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.Network != nil || second.Stats.CacheHits != 2 || hooks.hits != 2 {
		t.Errorf("second run: network = %v, hits = %d", second.Network, second.Stats.CacheHits)
	}
	for i := range first.Artifacts {
		if !second.Artifacts[i].Cached || !bytes.Equal(first.Artifacts[i].Data, second.Artifacts[i].Data) {
			t.Errorf("artifact %d differs on cache hit", i)
		}
	}
	if len(second.Warnings) != len(first.Warnings) {
		t.Errorf("cached warnings = %v, want %v", second.Warnings, first.Warnings)
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), in, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Network == nil || third.Stats.CacheHits != 0 {
		t.Error("Refresh should rebuild")
	}

	edited := NewInput("house.ge", []byte(`(K (0.05 100) (6 I (3 N) (2 N) nil) nil nil)`))
	fourth, err := r.Execute(context.Background(), edited, Options{Drawing: true})
	if err != nil {
		t.Fatal(err)
	}
	if fourth.Stats.CacheHits != 0 {
		t.Error("an edited input should miss the cache")
	}
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "house.ge")
	if err := os.WriteFile(path, []byte(house), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := ReadInput(path)
	if err != nil {
		t.Fatalf("ReadInput() error = %v", err)
	}
	if in.Name() != "house.ge" || in.Base() != "house" || in.Dir() != dir {
		t.Errorf("Name = %q, Base = %q, Dir = %q", in.Name(), in.Base(), in.Dir())
	}
	if in.Hash() != cache.Hash([]byte(house)) {
		t.Error("Hash() should hash the source")
	}

	if _, err := ReadInput(filepath.Join(dir, "missing.ge")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := ReadInput(dir); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("directory error = %v", err)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		a    Artifact
		want string
	}{
		{Artifact{Kind: cache.KindDrawing, Format: "svg"}, "house.svg"},
		{Artifact{Kind: cache.KindDrawing, Format: "pdf"}, "house.pdf"},
		{Artifact{Kind: cache.KindEstimate, Format: "xlsx"}, "house.xlsx"},
		{Artifact{Kind: cache.KindEstimate, Format: "table"}, "house.txt"},
		{Artifact{Kind: cache.KindTopology, Format: "dot"}, "house.topology.dot"},
	}
	for _, tt := range tests {
		if got := tt.a.FileName("house"); got != tt.want {
			t.Errorf("FileName(%s/%s) = %q, want %q", tt.a.Kind, tt.a.Format, got, tt.want)
		}
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "house.ge")
	if err := os.WriteFile(src, []byte(house), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := ReadInput(src)
	if err != nil {
		t.Fatal(err)
	}
	a := Artifact{Kind: cache.KindDrawing, Format: "svg", Data: []byte("<svg/>")}

	path, err := WriteArtifact("", in, a)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "house.svg") {
		t.Errorf("path = %q", path)
	}

	// An output edited after the input is kept.
	later := in.ModTime.Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	path, err = WriteArtifact("", in, a)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "house.svg~") {
		t.Errorf("newer output should be kept, wrote %q", path)
	}

	out := filepath.Join(dir, "out")
	path, err = WriteArtifact(out, in, Artifact{Kind: cache.KindEstimate, Format: "csv", Data: []byte("a")})
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(out, "house.csv") {
		t.Errorf("path = %q", path)
	}
}
