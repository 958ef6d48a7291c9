package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/drainplan/pkg/config"
	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/estimate"
)

const house = `(K (1 100) (5 I (3 N) (2 N) nil) nil nil)`

// workspace isolates config and cache under a temp dir and writes house.ge.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	if err := os.WriteFile(filepath.Join(dir, "house.ge"), []byte(house), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	want := map[string]bool{"render": false, "estimate": false, "inspect": false, "cache": false, "config": false, "completion": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := workspace(t)
	input := filepath.Join(dir, "house.ge")

	if err := execute(t, "render", "-e", input); err != nil {
		t.Fatalf("render error = %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "house.svg"))
	if err != nil {
		t.Fatalf("drawing not written: %v", err)
	}
	if !bytes.Contains(svg, []byte("1/100")) {
		t.Error("drawing lacks the scale caption")
	}
	if _, err := os.Stat(filepath.Join(dir, "house.xlsx")); err != nil {
		t.Errorf("estimate not written: %v", err)
	}

	// The second run is served from the cache.
	entries, _ := os.ReadDir(filepath.Join(dir, "cache", appName))
	if len(entries) == 0 {
		t.Error("render did not populate the cache")
	}
	if err := execute(t, "render", "-e", input); err != nil {
		t.Fatalf("cached render error = %v", err)
	}
}

func TestRenderCommandOptions(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "out")

	err := execute(t, "render", "--no-cache", "--scale", "50", "-t", "--topology-format", "dot", "-o", out, filepath.Join(dir, "house.ge"))
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(out, "house.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("1/50")) {
		t.Error("--scale did not override the input scale")
	}
	dot, err := os.ReadFile(filepath.Join(out, "house.topology.dot"))
	if err != nil || !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("topology = %q, %v", dot, err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := workspace(t)

	err := execute(t, "render", "-f", "gif", filepath.Join(dir, "house.ge"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}

	bad := filepath.Join(dir, "bad.ge")
	if err := os.WriteFile(bad, []byte(`(K (0 100) (5 ZZ) nil nil)`), 0o644); err != nil {
		t.Fatal(err)
	}
	err = execute(t, "render", "--no-cache", bad, filepath.Join(dir, "house.ge"))
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("partial failure error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "house.svg")); err != nil {
		t.Error("a failing file should not stop the others")
	}
}

func TestEstimateCommand(t *testing.T) {
	dir := workspace(t)
	out := filepath.Join(dir, "out")

	if err := execute(t, "estimate", "--no-cache", "-f", "csv", "--customer", "Tanaka", "-o", out, filepath.Join(dir, "house.ge")); err != nil {
		t.Fatalf("estimate error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "house.csv"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Tanaka", estimate.PipeName, "合流マス"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("estimate missing %q:\n%s", want, data)
		}
	}
}

func TestEstimateToStdout(t *testing.T) {
	tests := []struct {
		f      estimate.Format
		stdout bool
		dir    string
		want   bool
	}{
		{estimate.FormatTable, false, "", true},
		{estimate.FormatTable, false, "out", false},
		{estimate.FormatCSV, false, "", false},
		{estimate.FormatCSV, true, "out", true},
	}
	for _, tt := range tests {
		if got := estimateToStdout(tt.f, tt.stdout, tt.dir); got != tt.want {
			t.Errorf("estimateToStdout(%s, %v, %q) = %v, want %v", tt.f, tt.stdout, tt.dir, got, tt.want)
		}
	}
}

func TestInspectCommand(t *testing.T) {
	dir := workspace(t)
	if err := execute(t, "inspect", filepath.Join(dir, "house.ge")); err != nil {
		t.Errorf("inspect error = %v", err)
	}
	if err := execute(t, "inspect", "--dot", filepath.Join(dir, "house.ge")); err != nil {
		t.Errorf("inspect --dot error = %v", err)
	}
	if err := execute(t, "inspect", filepath.Join(dir, "missing.ge")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	if err := execute(t, "inspect"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("inspect without a file error = %v", err)
	}
	if err := execute(t, "inspect", "--symbols"); err != nil {
		t.Errorf("inspect --symbols error = %v", err)
	}
}

func TestSymbolTable(t *testing.T) {
	out := symbolTable()
	for _, want := range []string{"Symbol", "TL", "take-out", "LABEL", "label", "2FWC", "fixture"} {
		if !strings.Contains(out, want) {
			t.Errorf("symbolTable() missing %q", want)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	dir := workspace(t)
	path := filepath.Join(dir, "drainplan.toml")

	if err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.DrawingFormat != config.DrawingSVG {
		t.Errorf("DrawingFormat = %q", cfg.DrawingFormat)
	}
	if err := execute(t, "--config", path, "config"); err != nil {
		t.Errorf("config error = %v", err)
	}

	if err := os.WriteFile(path, []byte("colour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--config", path, "config"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown key error = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := workspace(t)
	if err := execute(t, "cache", "clear"); err != nil {
		t.Errorf("clear of a missing cache: %v", err)
	}
	if err := execute(t, "render", filepath.Join(dir, "house.ge")); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "cache"); err != nil {
		t.Errorf("cache info error = %v", err)
	}
	if err := execute(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear error = %v", err)
	}
	fc, err := openFileCache()
	if err != nil || fc == nil {
		t.Fatalf("openFileCache() = %v, %v", fc, err)
	}
	if n, _, _ := fc.Entries(); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}

func TestFileListModel(t *testing.T) {
	m := NewFileListModel([]string{"a.ge", "b.ge"})
	if !strings.Contains(m.View(), "a.ge") {
		t.Error("View() should list the files")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := next.(FileListModel).Selected; got != "b.ge" {
		t.Errorf("Selected = %q, want b.ge", got)
	}
	if cmd == nil {
		t.Error("enter should quit")
	}

	m = NewFileListModel([]string{"a.ge"})
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if got := next.(FileListModel).Selected; got != "" {
		t.Errorf("quit should not select, got %q", got)
	}
}
