package trace

import "time"

// Kind is what an Event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindFailure // a point carrying an error; kept at every level but off
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point", KindFailure: "failure"}

func (k Kind) String() string { return lookupName(kindNames[:], int(k)) }

// MarshalText encodes the kind by name in NDJSON output.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI command
	ScopeSuite                   // one case file
	ScopeCase                    // one case inside a file
	ScopeOp                      // one engine operation
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopeSuite: "suite", ScopeCase: "case", ScopeOp: "op"}

func (s Scope) String() string { return lookupName(scopeNames[:], int(s)) }

func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func lookupName(names []string, i int) string {
	if i <= 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

// Event is one trace record. The json tags define the NDJSON line layout.
type Event struct {
	Time     time.Time         `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     Kind              `json:"kind"`
	Scope    Scope             `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"` // "suite:equality.toml", "op:toNumber"
	Detail   string            `json:"detail,omitempty"`
	Dur      time.Duration     `json:"dur_ns,omitempty"` // span end only
	Extra    map[string]string `json:"extra,omitempty"`
}

// Point emits an instant event if t accepts it.
func Point(t Tracer, scope Scope, name, detail string) {
	emitInstant(t, KindPoint, scope, name, detail, nil)
}

// Failure emits a failure event; it passes every level except off.
func Failure(t Tracer, scope Scope, name, detail string, extra map[string]string) {
	emitInstant(t, KindFailure, scope, name, detail, extra)
}

func emitInstant(t Tracer, kind Kind, scope Scope, name, detail string, extra map[string]string) {
	if t == nil || !t.Enabled() {
		return
	}
	ev := &Event{
		Time:   time.Now(),
		Kind:   kind,
		Scope:  scope,
		Name:   name,
		Detail: detail,
		Extra:  extra,
	}
	if !t.Level().Allows(ev) {
		return
	}
	ev.GID = getGoroutineID()
	t.Emit(ev)
}
