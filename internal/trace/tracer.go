package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Tracer receives trace events. Implementations must be safe for
// concurrent use: the runner emits from one goroutine per case file.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// StorageMode is where accepted events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // encoded to the output as they happen
	ModeRing                          // last RingSize events held in memory
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring"}

func (m StorageMode) String() string { return lookupName(modeNames[:], int(m)) }

// ParseMode accepts a mode name in any case; "" means stream.
func ParseMode(s string) (StorageMode, error) {
	if s == "" {
		return ModeStream, nil
	}
	for i, name := range modeNames {
		if i > 0 && strings.EqualFold(s, name) {
			return StorageMode(i), nil //nolint:gosec // G115: table index
		}
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring)", s)
}

// Config selects and configures a tracer. Output wins over OutputPath;
// an empty OutputPath or "-" means stderr.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format // FormatAuto picks from OutputPath
	Output     io.Writer
	OutputPath string
	RingSize   int // ring mode capacity, 4096 when <= 0
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream, 0:
		format := cfg.Format
		if format == FormatAuto {
			format = FormatForPath(cfg.OutputPath)
		}
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return NewStreamTracer(w, cfg.Level, format), nil
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return unclosable{os.Stderr}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create trace directory: %w", err)
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return &bufferedFile{Writer: bufio.NewWriterSize(f, 64<<10), f: f}, nil
}

// bufferedFile batches trace writes to a file; StreamTracer flushes it.
type bufferedFile struct {
	*bufio.Writer
	f *os.File
}

func (b *bufferedFile) Close() error {
	return errors.Join(b.Flush(), b.f.Close())
}

// unclosable hides any Close method so the tracer never shuts stderr.
type unclosable struct{ io.Writer }
