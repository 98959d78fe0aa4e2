package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"build", "eval", "sample", "render", "preview", "graphs", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"dot,png", []string{"dot", "png"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestParseOrigin(t *testing.T) {
	origin, err := parseOrigin("1.5, -2,3")
	if err != nil {
		t.Fatalf("parseOrigin() error = %v", err)
	}
	if origin != [4]float64{1.5, -2, 3, 0} {
		t.Errorf("parseOrigin() = %v", origin)
	}

	if _, err := parseOrigin("1,2,3,4,5"); err == nil {
		t.Error("expected error for 5 components")
	}
	if _, err := parseOrigin("1,abc"); err == nil {
		t.Error("expected error for non-numeric component")
	}
}

func TestLoadPatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patches.toml")
	content := "[floats]\nfrequency = 2.5\n\n[ints]\nseed = 7\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ps, err := loadPatches(path, []string{"frequency=9", "sea_level=0.25"}, []string{"octaves=4"})
	if err != nil {
		t.Fatalf("loadPatches() error = %v", err)
	}

	// --set overrides the file value
	if ps.Floats["frequency"] != 9 {
		t.Errorf("frequency = %v, want 9 (flag overrides file)", ps.Floats["frequency"])
	}
	if ps.Floats["sea_level"] != 0.25 {
		t.Errorf("sea_level = %v, want 0.25", ps.Floats["sea_level"])
	}
	if ps.Ints["seed"] != 7 || ps.Ints["octaves"] != 4 {
		t.Errorf("ints = %v", ps.Ints)
	}
}

func TestLoadPatchesEmpty(t *testing.T) {
	ps, err := loadPatches("", nil, nil)
	if err != nil {
		t.Fatalf("loadPatches() error = %v", err)
	}
	if ps != nil {
		t.Errorf("empty inputs should yield a nil patch set, got %+v", ps)
	}
}

func TestLoadPatchesErrors(t *testing.T) {
	tests := []struct {
		name    string
		sets    []string
		intSets []string
	}{
		{"missing equals", []string{"frequency"}, nil},
		{"empty name", []string{"=3"}, nil},
		{"not a number", []string{"frequency=abc"}, nil},
		{"negative int", nil, []string{"seed=-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadPatches("", tt.sets, tt.intSets); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGridPath(t *testing.T) {
	tests := []struct {
		base   string
		name   string
		count  int
		asJSON bool
		want   string
	}{
		{"", "height", 1, false, "height.png"},
		{"", "height", 1, true, "height.json"},
		{"out.png", "height", 1, false, "out.png"},
		{"base", "height", 2, false, "base-height.png"},
	}
	for _, tt := range tests {
		if got := gridPath(tt.base, tt.name, tt.count, tt.asJSON); got != tt.want {
			t.Errorf("gridPath(%q, %q, %d, %v) = %q, want %q", tt.base, tt.name, tt.count, tt.asJSON, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	if got := artifactPath("graph.svg", "svg", 1); got != "graph.svg" {
		t.Errorf("artifactPath() = %q, want graph.svg", got)
	}
	if got := artifactPath("graph", "dot", 2); got != "graph.dot" {
		t.Errorf("artifactPath() = %q, want graph.dot", got)
	}
}

func TestShadeFor(t *testing.T) {
	// Clamped extremes map to the ends of the ramp without panicking.
	low := shadeFor(-5)
	high := shadeFor(5)
	if low.GetForeground() == high.GetForeground() {
		t.Error("extreme values should map to different shades")
	}
	mid := shadeFor(0)
	if mid.GetForeground() == low.GetForeground() || mid.GetForeground() == high.GetForeground() {
		t.Error("midpoint should map to an interior shade")
	}
}
