package conformance

import "time"

// Stage is the phase a case file is in: load parses the file, build
// resolves value notation into heap values, run evaluates the cases.
type Stage string

const (
	StageLoad  Stage = "load"
	StageBuild Stage = "build"
	StageRun   Stage = "run"
)

// Status is the state within a Stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event is one progress report for a case file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Passed  int
	Failed  int
	Total   int
	Err     error
	Elapsed time.Duration
}

// Settled reports whether the file will emit no further events.
func (e Event) Settled() bool {
	return e.Status == StatusDone || e.Status == StatusError
}

// Label is the short human state for e, or "" for an unknown status.
// An error during run means cases failed; any earlier error means the file
// itself could not be used.
func (e Event) Label() string {
	switch e.Status {
	case StatusQueued, StatusDone:
		return string(e.Status)
	case StatusError:
		if e.Stage == StageRun {
			return "failed"
		}
		return "error"
	case StatusWorking:
		return map[Stage]string{StageLoad: "loading", StageBuild: "building", StageRun: "running"}[e.Stage]
	}
	return ""
}

// stageFloor is the share of a file's work complete once a stage starts.
var stageFloor = map[Stage]float64{StageLoad: 0.05, StageBuild: 0.1, StageRun: 0.1}

// Fraction estimates how much of the file is complete, in [0, 1].
func (e Event) Fraction() float64 {
	switch {
	case e.Settled():
		return 1
	case e.Status == StatusQueued:
		return 0
	}
	f := stageFloor[e.Stage]
	if e.Stage == StageRun && e.Total > 0 {
		f += (1 - f) * float64(e.Passed+e.Failed) / float64(e.Total)
	}
	return f
}

// ProgressSink consumes progress events. Run calls OnEvent from worker
// goroutines, so implementations must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(e Event) { f(e) }

// ChannelSink forwards events into a channel; a nil Ch drops them.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(e Event) {
	if s.Ch != nil {
		s.Ch <- e
	}
}

var discard = SinkFunc(func(Event) {})
