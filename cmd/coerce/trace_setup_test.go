package main

import (
	"testing"

	"github.com/spf13/cobra"

	"coerce/internal/config"
	"coerce/internal/trace"
)

func traceRoot(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "coerce"}
	addTraceFlags(root)
	if err := root.PersistentFlags().Parse(args); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestResolveTraceSettings(t *testing.T) {
	cfg := config.TraceConfig{Level: "off", Mode: "stream", Output: "-"}
	tests := []struct {
		name  string
		args  []string
		cfg   config.TraceConfig
		level trace.Level
		mode  trace.StorageMode
		out   string
	}{
		{"config only", nil, cfg, trace.LevelOff, trace.ModeStream, "-"},
		{"output implies suite", []string{"--trace", "t.ndjson"}, cfg, trace.LevelSuite, trace.ModeStream, "t.ndjson"},
		{"explicit level wins", []string{"--trace", "t.log", "--trace-level", "error"}, cfg, trace.LevelError, trace.ModeStream, "t.log"},
		{"config level kept", []string{"--trace", "-"}, config.TraceConfig{Level: "debug", Mode: "ring"}, trace.LevelDebug, trace.ModeRing, "-"},
		{"mode flag", []string{"--trace-mode", "ring", "--trace-level", "case"}, cfg, trace.LevelCase, trace.ModeRing, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := resolveTraceSettings(traceRoot(t, tt.args...), tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			if s.level != tt.level || s.mode != tt.mode || s.output != tt.out || s.ringSize != 4096 {
				t.Fatalf("settings = %+v", s)
			}
		})
	}
}

func TestResolveTraceSettingsRejects(t *testing.T) {
	cfg := config.TraceConfig{Level: "off", Mode: "stream"}
	for _, args := range [][]string{{"--trace-level", "loud"}, {"--trace-mode", "tape"}} {
		if _, err := resolveTraceSettings(traceRoot(t, args...), cfg); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}
