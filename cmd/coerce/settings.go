package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"coerce/internal/config"
)

// loadProjectConfig loads --config when given, otherwise the nearest
// coerce.toml, otherwise the defaults.
func loadProjectConfig(cmd *cobra.Command) (*config.File, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	file, _, err := config.Discover(".")
	return file, err
}

// persistentString returns the flag value when it was set on the command
// line and fallback otherwise.
func persistentString(cmd *cobra.Command, name, fallback string) (string, error) {
	flags := cmd.Root().PersistentFlags()
	value, err := flags.GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if !flags.Changed(name) {
		return fallback, nil
	}
	return value, nil
}

func persistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Root().PersistentFlags().GetBool(name)
	return err == nil && v
}

// switchMode is the auto|on|off setting shared by --color and --ui.
type switchMode int

const (
	switchAuto switchMode = iota
	switchOn
	switchOff
)

func parseSwitch(flag, value string) (switchMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always":
		return switchOn, nil
	case "off", "never":
		return switchOff, nil
	}
	return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// decide resolves auto to detected.
func (m switchMode) decide(detected bool) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	return detected
}

func (m switchMode) String() string {
	return [...]string{"auto", "on", "off"}[m]
}

// resolveColor decides whether output is colorized and applies the choice
// to fatih/color globally.
func resolveColor(cmd *cobra.Command, configured string) (bool, error) {
	value, err := persistentString(cmd, "color", configured)
	if err != nil {
		return false, err
	}
	mode, err := parseSwitch("color", value)
	if err != nil {
		return false, err
	}
	color.NoColor = !mode.decide(!color.NoColor)
	return !color.NoColor, nil
}

// useProgressUI reports whether `run` should drive the bubbletea view.
func useProgressUI(mode switchMode, quiet bool) bool {
	return !quiet && mode.decide(isTerminal(os.Stdout))
}
