package conformance

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"coerce/internal/coerce"
	"coerce/internal/trace"
	"coerce/internal/value"
)

// CaseStatus is the outcome of one case.
type CaseStatus string

const (
	CasePass CaseStatus = "pass"
	CaseFail CaseStatus = "fail"
	CaseSkip CaseStatus = "skip"
)

// CaseResult records one evaluated case.
type CaseResult struct {
	Name    string        `json:"name" msgpack:"name"`
	Op      string        `json:"op" msgpack:"op"`
	Args    []string      `json:"args" msgpack:"args"`
	Status  CaseStatus    `json:"status" msgpack:"status"`
	Want    string        `json:"want,omitempty" msgpack:"want,omitempty"`
	Got     string        `json:"got,omitempty" msgpack:"got,omitempty"`
	Message string        `json:"message,omitempty" msgpack:"message,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns" msgpack:"elapsed_ns"`
}

// FileResult records one case file. Err is set when the file could not be
// loaded or built; Cancelled when a fail-fast stop prevented it from running.
type FileResult struct {
	Path      string        `json:"path" msgpack:"path"`
	Suite     string        `json:"suite,omitempty" msgpack:"suite,omitempty"`
	Cases     []CaseResult  `json:"cases" msgpack:"cases"`
	Err       string        `json:"error,omitempty" msgpack:"error,omitempty"`
	Cancelled bool          `json:"cancelled,omitempty" msgpack:"cancelled,omitempty"`
	Elapsed   time.Duration `json:"elapsed_ns" msgpack:"elapsed_ns"`
}

// Counts tallies case outcomes.
func (f *FileResult) Counts() (passed, failed, skipped int) {
	for _, c := range f.Cases {
		switch c.Status {
		case CasePass:
			passed++
		case CaseFail:
			failed++
		case CaseSkip:
			skipped++
		}
	}
	return passed, failed, skipped
}

// OK reports whether the file loaded and no case failed.
func (f *FileResult) OK() bool {
	_, failed, _ := f.Counts()
	return f.Err == "" && failed == 0
}

// Summary aggregates a whole run.
type Summary struct {
	Files   []FileResult  `json:"files" msgpack:"files"`
	Passed  int           `json:"passed" msgpack:"passed"`
	Failed  int           `json:"failed" msgpack:"failed"`
	Skipped int           `json:"skipped" msgpack:"skipped"`
	Errored int           `json:"errored" msgpack:"errored"`
	Aborted bool          `json:"aborted,omitempty" msgpack:"aborted,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns" msgpack:"elapsed_ns"`
}

// OK reports whether every case passed or was skipped and every file loaded.
func (s *Summary) OK() bool {
	return s.Failed == 0 && s.Errored == 0
}

// Options control a run.
type Options struct {
	Jobs     int // <= 0 means GOMAXPROCS
	FailFast bool
	Progress ProgressSink
}

var errFailFast = errors.New("conformance: stopping after first failure")

// Run evaluates files concurrently, each against its own heap. The tracer
// is taken from ctx. The returned error is non-nil only when ctx itself was
// cancelled; case failures are reported through the Summary.
func Run(ctx context.Context, files []string, opts Options) (*Summary, error) {
	start := time.Now()
	tracer := trace.FromContext(ctx)
	sink := opts.Progress
	if sink == nil {
		sink = discard
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	sum := &Summary{}
	if len(files) == 0 {
		return sum, nil
	}
	for _, path := range files {
		sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = FileResult{Path: path, Cancelled: true}
				return nil
			}
			results[i] = runFile(gctx, path, tracer, sink, opts.FailFast)
			if opts.FailFast && !results[i].OK() {
				return errFailFast
			}
			return nil
		})
	}
	err := g.Wait()
	if errors.Is(err, errFailFast) {
		sum.Aborted = true
		err = nil
	}
	if err == nil {
		err = ctx.Err()
	}

	sum.Files = results
	for i := range results {
		f := &results[i]
		if f.Err != "" {
			sum.Errored++
		}
		p, fl, sk := f.Counts()
		sum.Passed += p
		sum.Failed += fl
		sum.Skipped += sk
	}
	sum.Elapsed = time.Since(start)
	return sum, err
}

func runFile(ctx context.Context, path string, tracer trace.Tracer, sink ProgressSink, failFast bool) FileResult {
	start := time.Now()
	res := FileResult{Path: path}
	span, _ := trace.Start(ctx, trace.ScopeSuite, "suite:"+path)

	fail := func(stage Stage, err error) FileResult {
		res.Err = err.Error()
		res.Elapsed = time.Since(start)
		trace.Failure(tracer, trace.ScopeSuite, "suite:"+path, res.Err, map[string]string{"stage": string(stage)})
		sink.OnEvent(Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: res.Elapsed})
		span.End("error")
		return res
	}

	sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusWorking})
	suite, err := LoadFile(path)
	if err != nil {
		return fail(StageLoad, err)
	}
	res.Suite = suite.Name

	sink.OnEvent(Event{File: path, Stage: StageBuild, Status: StatusWorking})
	h, n, err := Build(suite)
	if err != nil {
		return fail(StageBuild, fmt.Errorf("%s: %w", path, err))
	}
	names := ObjectNames(n)
	engine := coerce.New(h, coerce.WithTracer(tracer))

	total := len(suite.Cases)
	res.Cases = make([]CaseResult, 0, total)
	passed, failed := 0, 0
	for i := range suite.Cases {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}
		c := &suite.Cases[i]
		cspan := trace.Begin(tracer, trace.ScopeCase, "case:"+c.Label(i), span.ID())
		cr := runCase(engine, n, names, c, i)
		cspan.End(string(cr.Status))
		res.Cases = append(res.Cases, cr)

		switch cr.Status {
		case CasePass:
			passed++
		case CaseFail:
			failed++
			trace.Failure(tracer, trace.ScopeCase, "case:"+cr.Name, cr.Message, map[string]string{"want": cr.Want, "got": cr.Got})
		}
		sink.OnEvent(Event{File: path, Stage: StageRun, Status: StatusWorking, Passed: passed, Failed: failed, Total: total})
		if failFast && cr.Status == CaseFail {
			break
		}
	}

	res.Elapsed = time.Since(start)
	status := StatusDone
	if failed > 0 {
		status = StatusError
	}
	sink.OnEvent(Event{File: path, Stage: StageRun, Status: status, Passed: passed, Failed: failed, Total: total, Elapsed: res.Elapsed})
	span.WithExtra("passed", strconv.Itoa(passed)).WithExtra("failed", strconv.Itoa(failed)).End(string(status))
	return res
}

func runCase(e *coerce.Engine, n *Notation, names map[value.Handle]string, c *Case, index int) CaseResult {
	start := time.Now()
	res := evalCase(e, n, names, c, index)
	res.Elapsed = time.Since(start)
	return res
}

func evalCase(e *coerce.Engine, n *Notation, names map[value.Handle]string, c *Case, index int) CaseResult {
	res := CaseResult{Name: c.Label(index), Op: c.Op, Args: c.Args}
	if c.Skip != "" {
		res.Status = CaseSkip
		res.Message = c.Skip
		return res
	}

	failf := func(format string, args ...any) CaseResult {
		res.Status = CaseFail
		res.Message = fmt.Sprintf(format, args...)
		return res
	}

	spec, _ := LookupOp(c.Op)
	args, err := n.ParseAll(c.Args)
	if err != nil {
		return failf("bad argument: %v", err)
	}
	got, evalErr := spec.Eval(e, args)

	if c.Error != "" {
		want, _ := coerce.ParseErrorCode(c.Error)
		res.Want = want.Name()
		switch code, ok := coerce.CodeOf(evalErr); {
		case evalErr == nil:
			res.Got = Format(got, names)
			return failf("expected %s error, got a value", want.Name())
		case !ok || code != want:
			res.Got = evalErr.Error()
			return failf("expected %s error", want.Name())
		default:
			res.Got = code.Name()
		}
		res.Status = CasePass
		return res
	}

	res.Want = c.Expect
	if evalErr != nil {
		res.Got = evalErr.Error()
		return failf("unexpected error")
	}
	res.Got = Format(got, names)
	want, err := n.Parse(c.Expect)
	if err != nil {
		return failf("bad expectation: %v", err)
	}
	if !coerce.SameValue(got, want) {
		return failf("%s(%s) mismatch", c.Op, strings.Join(c.Args, ", "))
	}
	res.Status = CasePass
	return res
}
