package conformance

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"coerce/internal/trace"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestListFiles(t *testing.T) {
	files, err := ListFiles([]string{filepath.Join("testdata", "cases")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"equality.toml", "operators.yml", "to_number.toml", "to_string.yaml"}
	if len(files) != len(want) {
		t.Fatalf("files = %v", files)
	}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Fatalf("files[%d] = %s, want %s", i, f, want[i])
		}
	}

	again, err := ListFiles([]string{files[0], filepath.Join("testdata", "cases")})
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(want) {
		t.Fatalf("duplicates not removed: %v", again)
	}
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name, ext, body, want string
	}{
		{"unknown toml key", ".toml", "title = \"x\"\n", "unknown key"},
		{"unknown yaml key", ".yaml", "title: x\n", "field title not found"},
		{"arity", ".toml", "[[cases]]\nop = \"add\"\nargs = [\"num:1\"]\nexpect = \"num:1\"\n", "takes 2 argument(s)"},
		{"no expectation", ".yaml", "cases:\n  - op: toNumber\n    args: [\"null\"]\n", "needs expect or error"},
		{"both expectations", ".yaml", "cases:\n  - op: toNumber\n    args: [\"null\"]\n    expect: num:0\n    error: TypeMismatch\n", "exclusive"},
		{"bad error code", ".yaml", "cases:\n  - op: toNumber\n    args: [\"null\"]\n    error: Boom\n", "unknown error code"},
		{"bad kind", ".toml", "[[objects]]\nname = \"x\"\nkind = \"map\"\n", "invalid object kind"},
		{"elements on object", ".toml", "[[objects]]\nname = \"x\"\nkind = \"object\"\nelements = [\"null\"]\n", "only arrays"},
		{"duplicate object", ".yaml", "objects:\n  - {name: a, kind: array}\n  - {name: a, kind: array}\n", "duplicate name"},
		{"extension", ".json", "{}", "unsupported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body), tt.ext)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestBuildResolvesForwardAndSelfReferences(t *testing.T) {
	suite, err := Decode([]byte(`
objects:
  - name: a
    kind: array
    elements: ["ref:b", "ref:a"]
  - name: b
    kind: array
    elements: ["num:1"]
`), ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	h, n, err := Build(suite)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := n.Objects["a"].AsRef()
	elems, err := h.Elements(a.Handle)
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 2 {
		t.Fatalf("elements = %v", elems)
	}
	if r, _ := elems[1].AsRef(); r.Handle != a.Handle {
		t.Fatalf("self reference lost: %v", elems[1])
	}
	names := ObjectNames(n)
	if names[a.Handle] != "a" {
		t.Fatalf("names = %v", names)
	}
}

func TestBuildUnknownReference(t *testing.T) {
	suite := &Suite{Objects: []ObjectSpec{{Name: "a", Kind: "array", Elements: []string{"ref:ghost"}}}}
	if _, _, err := Build(suite); err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunCases(t *testing.T) {
	files, err := ListFiles([]string{filepath.Join("testdata", "cases")})
	if err != nil {
		t.Fatal(err)
	}
	sink := &recordingSink{}
	sum, err := Run(context.Background(), files, Options{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	if !sum.OK() {
		for _, f := range sum.Files {
			if f.Err != "" {
				t.Errorf("%s: %s", f.Path, f.Err)
			}
			for _, c := range f.Cases {
				if c.Status == CaseFail {
					t.Errorf("%s: %s: %s (want %s, got %s)", f.Path, c.Name, c.Message, c.Want, c.Got)
				}
			}
		}
		t.FailNow()
	}
	if sum.Passed == 0 || sum.Skipped != 1 {
		t.Fatalf("passed=%d skipped=%d", sum.Passed, sum.Skipped)
	}

	done := 0
	for _, ev := range sink.events {
		if ev.Stage == StageRun && ev.Status == StatusDone {
			done++
		}
	}
	if done != len(files) {
		t.Fatalf("done events = %d, want %d", done, len(files))
	}
}

func TestRunReportsFailuresAndBadFiles(t *testing.T) {
	files := []string{
		filepath.Join("testdata", "bad", "failing.yaml"),
		filepath.Join("testdata", "bad", "unknown_op.toml"),
	}
	sum, err := Run(context.Background(), files, Options{Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	if sum.OK() {
		t.Fatal("expected failures")
	}
	if sum.Failed != 1 || sum.Passed != 1 || sum.Errored != 1 {
		t.Fatalf("failed=%d passed=%d errored=%d", sum.Failed, sum.Passed, sum.Errored)
	}
	bad := sum.Files[1]
	if !strings.Contains(bad.Err, "unknown op") {
		t.Fatalf("bad file err = %q", bad.Err)
	}
	failed := sum.Files[0].Cases[0]
	if failed.Want != "num:2" || failed.Got != "num:1" {
		t.Fatalf("want/got = %q/%q", failed.Want, failed.Got)
	}
}

func TestRunFailFast(t *testing.T) {
	files := []string{
		filepath.Join("testdata", "bad", "failing.yaml"),
		filepath.Join("testdata", "cases", "equality.toml"),
	}
	sum, err := Run(context.Background(), files, Options{Jobs: 1, FailFast: true})
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Aborted {
		t.Fatal("run should be aborted")
	}
	if n := len(sum.Files[0].Cases); n != 1 {
		t.Fatalf("fail-fast should stop after the first failing case, ran %d", n)
	}
	if !sum.Files[1].Cancelled {
		t.Fatal("second file should not run")
	}
}

func TestRunEmitsTraceSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelCase, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)
	files := []string{filepath.Join("testdata", "bad", "failing.yaml")}
	if _, err := Run(ctx, files, Options{Jobs: 1}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"suite:" + files[0], "case:wrong expectation", "(fail)", "! case:wrong expectation"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in trace:\n%s", want, out)
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	files := []string{filepath.Join("testdata", "cases", "equality.toml")}
	sum, err := Run(ctx, files, Options{})
	if err == nil {
		t.Fatal("expected context error")
	}
	if sum.Passed != 0 {
		t.Fatalf("nothing should run, passed=%d", sum.Passed)
	}
}

func TestEventFraction(t *testing.T) {
	tests := []struct {
		ev    Event
		want  float64
		label string
	}{
		{Event{Stage: StageLoad, Status: StatusQueued}, 0, "queued"},
		{Event{Stage: StageLoad, Status: StatusWorking}, 0.05, "loading"},
		{Event{Stage: StageBuild, Status: StatusWorking}, 0.1, "building"},
		{Event{Stage: StageRun, Status: StatusWorking, Passed: 1, Failed: 1, Total: 4}, 0.55, "running"},
		{Event{Stage: StageBuild, Status: StatusError}, 1, "error"},
		{Event{Stage: StageRun, Status: StatusError, Failed: 1, Total: 1}, 1, "failed"},
		{Event{Stage: StageRun, Status: "paused"}, 0.1, ""},
	}
	for _, tt := range tests {
		if got := tt.ev.Fraction(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%+v Fraction = %v, want %v", tt.ev, got, tt.want)
		}
		if got := tt.ev.Label(); got != tt.label {
			t.Errorf("%+v Label = %q, want %q", tt.ev, got, tt.label)
		}
	}
}
