package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"coerce/internal/config"
	"coerce/internal/trace"
)

func addTraceFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.String("trace", "", "trace output file (- for stderr, .ndjson for JSON lines)")
	pf.String("trace-level", "", "trace level (off|error|suite|case|debug)")
	pf.String("trace-mode", "", "trace storage mode (stream|ring)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode=ring")
}

// traceSettings is the [trace] table with command-line overrides applied.
type traceSettings struct {
	output   string
	level    trace.Level
	mode     trace.StorageMode
	ringSize int
}

func resolveTraceSettings(cmd *cobra.Command, cfg config.TraceConfig) (traceSettings, error) {
	var s traceSettings
	output, err := persistentString(cmd, "trace", cfg.Output)
	if err != nil {
		return s, err
	}
	levelName, err := persistentString(cmd, "trace-level", cfg.Level)
	if err != nil {
		return s, err
	}
	modeName, err := persistentString(cmd, "trace-mode", cfg.Mode)
	if err != nil {
		return s, err
	}
	flags := cmd.Root().PersistentFlags()
	if s.ringSize, err = flags.GetInt("trace-ring-size"); err != nil {
		return s, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	// naming an output without a level asks for suite events
	if flags.Changed("trace") && !flags.Changed("trace-level") && (levelName == "" || levelName == "off") {
		levelName = "suite"
	}
	if s.level, err = trace.ParseLevel(levelName); err != nil {
		return s, fmt.Errorf("invalid trace level: %w", err)
	}
	if s.mode, err = trace.ParseMode(modeName); err != nil {
		return s, fmt.Errorf("invalid trace mode: %w", err)
	}
	s.output = output
	return s, nil
}

// setupTracing attaches the configured tracer to the command context and
// returns its cleanup. With a ring tracer, cleanup(true) first dumps the
// recorded events to stderr.
func setupTracing(cmd *cobra.Command, cfg config.TraceConfig) (func(failed bool), error) {
	s, err := resolveTraceSettings(cmd, cfg)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(trace.Config{
		Level:      s.level,
		Mode:       s.mode,
		OutputPath: s.output,
		RingSize:   s.ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	stderr := cmd.ErrOrStderr()
	return func(failed bool) {
		if ring, ok := tracer.(*trace.RingTracer); ok && failed {
			dumpRing(stderr, ring)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: %v\n", err)
		}
	}, nil
}

func dumpRing(w io.Writer, ring *trace.RingTracer) {
	fmt.Fprintf(w, "trace: last %d event(s), %d failure(s)\n", ring.Len(), len(ring.Failures()))
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump: %v\n", err)
	}
}
