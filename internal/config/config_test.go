package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find = %q, %v, %v", path, ok, err)
	}
	if path != filepath.Join(root, FileName) {
		t.Fatalf("path = %q", path)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	f, ok, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		// A coerce.toml above the temp dir would make this test meaningless.
		t.Skip("coerce.toml found above temp dir")
	}
	if f.Config.Output.Color != "auto" || f.Config.Trace.Level != "off" {
		t.Fatalf("defaults not applied: %+v", f.Config)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	writeFile(t, path, `
[run]
paths = ["cases", "/abs/cases"]
jobs = 3
fail_fast = true

[output]
color = "off"
report = "out/report.json"

[trace]
level = "case"
mode = "ring"
`)
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := f.Config
	if cfg.Run.Jobs != 3 || !cfg.Run.FailFast {
		t.Fatalf("run = %+v", cfg.Run)
	}
	if cfg.Run.Paths[0] != filepath.Join(root, "cases") || cfg.Run.Paths[1] != "/abs/cases" {
		t.Fatalf("paths = %v", cfg.Run.Paths)
	}
	if cfg.Output.Color != "off" || cfg.Output.Report != "out/report.json" {
		t.Fatalf("output = %+v", cfg.Output)
	}
	if cfg.Trace.Level != "case" || cfg.Trace.Mode != "ring" || cfg.Trace.Output != "-" {
		t.Fatalf("trace = %+v", cfg.Trace)
	}
	if f.Root != root {
		t.Fatalf("root = %q", f.Root)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"syntax", "[run\n", "failed to parse TOML"},
		{"unknown key", "[run]\nthreads = 2\n", "unknown keys: run.threads"},
		{"color", "[output]\ncolor = \"always\"\n", "[output].color"},
		{"report", "[output]\nreport = \"x.xml\"\n", "[output].report"},
		{"level", "[trace]\nlevel = \"verbose\"\n", "[trace].level"},
		{"mode", "[trace]\nmode = \"file\"\n", "[trace].mode"},
		{"jobs", "[run]\njobs = -1\n", "[run].jobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) || !strings.Contains(err.Error(), path) {
				t.Fatalf("err = %v, want mention of %q and the path", err, tt.want)
			}
		})
	}
}
