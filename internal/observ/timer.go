package observ

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Timer records named phases of one command. Phases may overlap; Report
// sums them and separately measures wall time from NewTimer.
type Timer struct {
	mu     sync.Mutex
	now    func() time.Time
	origin time.Time
	phases []phase
}

type phase struct {
	name  string
	note  string
	began time.Time
	took  time.Duration
	open  bool
}

func NewTimer() *Timer {
	t := &Timer{now: time.Now}
	t.origin = t.now()
	return t
}

// Track opens a phase and returns its stop function. Only the first stop
// call counts.
func (t *Timer) Track(name string) (stop func(note string)) {
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, phase{name: name, began: t.now(), open: true})
	t.mu.Unlock()

	return func(note string) {
		t.mu.Lock()
		defer t.mu.Unlock()
		p := &t.phases[idx]
		if !p.open {
			return
		}
		p.open = false
		p.took = t.now().Sub(p.began)
		p.note = note
	}
}

// PhaseReport is the serialized form of one phase.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Share      float64 `json:"share" msgpack:"share"` // of TotalMS, 0..1
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
	Running    bool    `json:"running,omitempty" msgpack:"running,omitempty"`
}

// Report is the snapshot embedded in machine reports.
type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	WallMS  float64       `json:"wall_ms" msgpack:"wall_ms"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report snapshots the phases. A phase still open is measured up to now
// and flagged Running.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	now := t.now()
	r := Report{WallMS: millis(now.Sub(t.origin)), Phases: make([]PhaseReport, len(t.phases))}
	for i, p := range t.phases {
		took := p.took
		if p.open {
			took = now.Sub(p.began)
		}
		r.Phases[i] = PhaseReport{Name: p.name, DurationMS: millis(took), Note: p.note, Running: p.open}
		r.TotalMS += r.Phases[i].DurationMS
	}
	if r.TotalMS > 0 {
		for i := range r.Phases {
			r.Phases[i].Share = r.Phases[i].DurationMS / r.TotalMS
		}
	}
	return r
}

// WriteSummary prints one line per phase with its share of the total.
func (t *Timer) WriteSummary(w io.Writer) error {
	r := t.Report()
	ew := &errWriter{w: w}
	ew.printf("timings:\n")
	for _, p := range r.Phases {
		ew.printf("  %-12s %9.2f ms %5.1f%%", p.Name, p.DurationMS, 100*p.Share)
		switch {
		case p.Running:
			ew.printf("  (running)")
		case p.Note != "":
			ew.printf("  // %s", p.Note)
		}
		ew.printf("\n")
	}
	ew.printf("  %-12s %9.2f ms (wall %.2f ms)\n", "total", r.TotalMS, r.WallMS)
	return ew.err
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.w, format, args...)
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
