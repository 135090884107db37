package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coerce/internal/conformance"
	"coerce/internal/observ"
	"coerce/internal/prof"
	"coerce/internal/report"
	"coerce/internal/trace"
	"coerce/internal/version"
)

var runCmd = &cobra.Command{
	Use:   "run [path...]",
	Short: "Run conformance case files",
	Long: `Run .toml and .yaml case files. Directories are walked recursively.
Without arguments the [run].paths of coerce.toml are used.`,
	RunE: runCases,
}

func init() {
	runCmd.Flags().IntP("jobs", "j", 0, "files evaluated in parallel (0 = GOMAXPROCS)")
	runCmd.Flags().Bool("fail-fast", false, "stop scheduling files after the first failure")
	runCmd.Flags().String("report", "", "write a machine report (.json, .mp or .msgpack)")
	runCmd.Flags().String("ui", "auto", "live progress view (auto|on|off)")
	runCmd.Flags().BoolP("verbose", "v", false, "list passing and skipped cases too")
	runCmd.Flags().String("cpuprofile", "", "write a CPU profile to file")
	runCmd.Flags().String("memprofile", "", "write a heap profile to file")
	runCmd.Flags().String("exec-trace", "", "write a Go runtime execution trace to file")
}

func profileOptions(cmd *cobra.Command) prof.Options {
	var opts prof.Options
	opts.CPU, _ = cmd.Flags().GetString("cpuprofile")
	opts.Mem, _ = cmd.Flags().GetString("memprofile")
	opts.Trace, _ = cmd.Flags().GetString("exec-trace")
	return opts
}

func runCases(cmd *cobra.Command, args []string) error {
	file, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	cfg := file.Config

	timer := observ.NewTimer()
	showTimings := persistentBool(cmd, "timings")
	quiet := persistentBool(cmd, "quiet")

	colorOn, err := resolveColor(cmd, cfg.Output.Color)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	uiMode, err := parseSwitch("ui", uiValue)
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}

	opts := conformance.Options{Jobs: cfg.Run.Jobs, FailFast: cfg.Run.FailFast}
	if cmd.Flags().Changed("jobs") {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if cmd.Flags().Changed("fail-fast") {
		if opts.FailFast, err = cmd.Flags().GetBool("fail-fast"); err != nil {
			return fmt.Errorf("failed to get fail-fast flag: %w", err)
		}
	}
	reportPath := cfg.Output.Report
	if cmd.Flags().Changed("report") {
		if reportPath, err = cmd.Flags().GetString("report"); err != nil {
			return fmt.Errorf("failed to get report flag: %w", err)
		}
	}
	if reportPath != "" {
		if _, err := report.FormatForPath(reportPath); err != nil {
			return err
		}
	}

	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	failed := true
	defer func() { cleanup(failed) }()

	if popts := profileOptions(cmd); popts.Enabled() {
		session, err := prof.Start(popts)
		if err != nil {
			return err
		}
		defer func() {
			if err := session.Stop(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
			}
		}()
	}

	span, ctx := trace.Start(cmd.Context(), trace.ScopeDriver, "run")
	defer func() {
		result := "ok"
		if failed {
			result = "failed"
		}
		span.End(result)
	}()

	paths := args
	if len(paths) == 0 {
		paths = cfg.Run.Paths
	}
	done := timer.Track("discover")
	files, err := conformance.ListFiles(paths)
	if err != nil {
		return err
	}
	done(fmt.Sprintf("%d file(s)", len(files)))
	if len(files) == 0 {
		return fmt.Errorf("no case files found in %s", strings.Join(paths, ", "))
	}

	done = timer.Track("run")
	var sum *conformance.Summary
	if useProgressUI(uiMode, quiet) {
		sum, err = runWithUI(ctx, "coerce run", files, opts)
	} else {
		sum, err = conformance.Run(ctx, files, opts)
	}
	if err != nil {
		return err
	}
	done(fmt.Sprintf("%d case(s)", sum.Passed+sum.Failed+sum.Skipped))

	err = report.WriteSummary(cmd.OutOrStdout(), sum, report.SummaryOptions{
		Palette: report.NewPalette(colorOn),
		Verbose: verbose,
		Quiet:   quiet,
	})
	if err != nil {
		return err
	}

	if reportPath != "" {
		doc, err := report.NewDocument(sum, version.Version)
		if err != nil {
			return err
		}
		if showTimings {
			timings := timer.Report()
			doc.Timings = &timings
		}
		done = timer.Track("report")
		if err := report.WriteFile(reportPath, doc); err != nil {
			return err
		}
		done(reportPath)
	}
	if showTimings {
		if err := timer.WriteSummary(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	if !sum.OK() {
		return fmt.Errorf("%d case(s) failed, %d file(s) unreadable", sum.Failed, sum.Errored)
	}
	failed = false
	return nil
}
