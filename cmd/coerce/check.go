package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coerce/internal/report"
	"coerce/internal/testkit"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the engine's equality and conversion properties over a built-in sample set",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int64("seed", 1, "seed for generated round-trip numbers")
	checkCmd.Flags().StringSliceP("property", "p", nil, "check only the named properties")
	checkCmd.Flags().Bool("list", false, "list properties and exit")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	file, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	colorOn, err := resolveColor(cmd, file.Config.Output.Color)
	if err != nil {
		return err
	}
	palette := report.NewPalette(colorOn)
	out := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("list"); list {
		tbl := &report.Table{Header: []string{"property", "checks"}}
		for _, p := range testkit.Properties() {
			tbl.Rows = append(tbl.Rows, []string{p.Name, p.Doc})
		}
		return tbl.Render(out)
	}

	seed, err := cmd.Flags().GetInt64("seed")
	if err != nil {
		return fmt.Errorf("failed to get seed flag: %w", err)
	}
	names, err := cmd.Flags().GetStringSlice("property")
	if err != nil {
		return fmt.Errorf("failed to get property flag: %w", err)
	}

	u := testkit.NewUniverse(testkit.WithSeed(seed))
	violations, err := u.Check(names...)
	if err != nil {
		return err
	}
	checked := len(names)
	if checked == 0 {
		checked = len(testkit.Properties())
	}
	for _, v := range violations {
		fmt.Fprintf(out, "%s %s\n", palette.Fail.Sprint("✗"), v)
	}
	if len(violations) > 0 {
		return fmt.Errorf("%d violation(s) in %d checked properties", len(violations), checked)
	}
	if !persistentBool(cmd, "quiet") {
		fmt.Fprintf(out, "%s  %d properties over %d samples\n", palette.Pass.Sprint("ok"), checked, len(u.Samples)+1)
	}
	return nil
}
