// Package config discovers and decodes coerce.toml project files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the project file looked up from the working directory.
const FileName = "coerce.toml"

// Config is the decoded project file.
type Config struct {
	Run    RunConfig    `toml:"run"`
	Output OutputConfig `toml:"output"`
	Trace  TraceConfig  `toml:"trace"`
}

type RunConfig struct {
	Paths    []string `toml:"paths"`
	Jobs     int      `toml:"jobs"`
	FailFast bool     `toml:"fail_fast"`
}

type OutputConfig struct {
	Color  string `toml:"color"`  // auto|on|off
	Report string `toml:"report"` // .json, .mp or .msgpack path
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
}

// File is a Config together with where it came from.
type File struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used when no coerce.toml exists.
func Default() Config {
	return Config{
		Run:    RunConfig{Paths: []string{"testdata"}},
		Output: OutputConfig{Color: "auto"},
		Trace:  TraceConfig{Level: "off", Mode: "stream", Output: "-"},
	}
}

// Find walks up from startDir to locate coerce.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest coerce.toml. ok is false when there
// is none; the returned File then holds Default().
func Discover(startDir string) (*File, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &File{Config: Default()}, false, nil
	}
	f, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return f, true, nil
}

// Load decodes the file at path on top of Default() and validates it.
// Relative run paths are resolved against the file's directory.
func Load(path string) (*File, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	root := filepath.Dir(path)
	for i, p := range cfg.Run.Paths {
		if !filepath.IsAbs(p) {
			cfg.Run.Paths[i] = filepath.Join(root, filepath.FromSlash(p))
		}
	}
	return &File{Path: path, Root: root, Config: cfg}, nil
}

// Validate checks enumerated and numeric fields.
func (c *Config) Validate() error {
	if c.Run.Jobs < 0 {
		return fmt.Errorf("[run].jobs must be >= 0, got %d", c.Run.Jobs)
	}
	switch c.Output.Color {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto|on|off, got %q", c.Output.Color)
	}
	switch strings.ToLower(filepath.Ext(c.Output.Report)) {
	case "", ".json", ".mp", ".msgpack":
	default:
		return fmt.Errorf("[output].report must end in .json, .mp or .msgpack, got %q", c.Output.Report)
	}
	switch c.Trace.Level {
	case "", "off", "error", "suite", "case", "debug":
	default:
		return fmt.Errorf("[trace].level must be off|error|suite|case|debug, got %q", c.Trace.Level)
	}
	switch c.Trace.Mode {
	case "", "stream", "ring":
	default:
		return fmt.Errorf("[trace].mode must be stream|ring, got %q", c.Trace.Mode)
	}
	return nil
}
