package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"coerce/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "coerce",
	Short:        "Dynamic value coercion and comparison engine",
	Long:         `coerce evaluates loose and strict equality and the ToNumber, ToBoolean and ToString conversions over dynamically typed values`,
	SilenceUsage: true,
}

// main executes the root command. Any returned error exits with status 1.
func main() {
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerCommands wires subcommands and persistent flags into rootCmd.
func registerCommands() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "", "colorize output (auto|on|off); defaults to [output].color")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "path to coerce.toml (default: search upward from the working directory)")
	addTraceFlags(rootCmd)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
