package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not be an error, got %v", err)
	}
	if s != Default() {
		t.Errorf("expected built-in defaults, got %+v", s)
	}
	if s.Interval != 2*time.Second {
		t.Errorf("expected 2s default interval, got %v", s.Interval)
	}
}

func TestLoadAppliesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"interval": 0.5, "color": true, "differences": "cumulative"}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Interval != 500*time.Millisecond {
		t.Errorf("expected 500ms interval, got %v", s.Interval)
	}
	if !s.Color || s.Differences != "cumulative" {
		t.Errorf("expected file values applied, got %+v", s)
	}
	if s.Beep || s.Precise || s.NoTitle {
		t.Errorf("absent fields must keep defaults, got %+v", s)
	}
}

func TestLoadMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestDefaultPathUnderHomeConfig(t *testing.T) {
	p := DefaultPath()
	if p == "" {
		t.Skip("no home directory")
	}
	want := filepath.Join(".config", "rewatch", "config.json")
	if !strings.HasSuffix(p, want) {
		t.Errorf("expected path ending in %q, got %q", want, p)
	}
}

func TestEnvGeometryBounds(t *testing.T) {
	cases := []struct {
		lines, cols string
		rows, width int
	}{
		{"24", "80", 24, 80},
		{"665", "665", 665, 665},
		{"666", "666", 0, 0},
		{"0", "0", 0, 0},
		{"-3", "-3", 0, 0},
		{"24.5", "80.0", 0, 0},
		{"abc", "", 0, 0},
		{"24 ", " 80", 0, 0},
	}
	for _, tc := range cases {
		t.Setenv("LINES", tc.lines)
		t.Setenv("COLUMNS", tc.cols)
		rows, cols := EnvGeometry()
		if rows != tc.rows || cols != tc.width {
			t.Errorf("LINES=%q COLUMNS=%q: expected %dx%d, got %dx%d",
				tc.lines, tc.cols, tc.rows, tc.width, rows, cols)
		}
	}
}
