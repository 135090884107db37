package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"coerce/internal/conformance"
)

func TestProgressModelTracksEvents(t *testing.T) {
	files := []string{"a.toml", "b.yaml"}
	m := NewProgressModel("coerce run", files, nil).(*progressModel)

	steps := []conformance.Event{
		{File: "a.toml", Stage: conformance.StageLoad, Status: conformance.StatusWorking},
		{File: "a.toml", Stage: conformance.StageRun, Status: conformance.StatusWorking, Passed: 1, Total: 4},
		{File: "b.yaml", Stage: conformance.StageLoad, Status: conformance.StatusError},
		{File: "a.toml", Stage: conformance.StageRun, Status: conformance.StatusError, Passed: 3, Failed: 1, Total: 4},
		{File: "unknown", Stage: conformance.StageRun, Status: conformance.StatusDone},
	}
	for _, ev := range steps {
		m.applyEvent(ev)
	}

	if a := m.rows[0]; a.label() != "failed" || a.failed != 1 || a.total != 4 {
		t.Fatalf("a.toml row = %+v", a)
	}
	if b := m.rows[1]; b.label() != "error" {
		t.Fatalf("b.yaml row = %+v", b)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}

	view := m.View()
	for _, want := range []string{"coerce run", "a.toml", "4/4 ✗1", "b.yaml", "3 passed", "1 failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelPartialRun(t *testing.T) {
	m := NewProgressModel("run", []string{"a.toml"}, nil).(*progressModel)
	m.applyEvent(conformance.Event{File: "a.toml", Stage: conformance.StageRun, Status: conformance.StatusWorking, Passed: 5, Total: 10})
	got := m.percent()
	if got <= 0.5 || got >= 0.6 {
		t.Fatalf("percent = %v, want 0.55", got)
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	ch := make(chan conformance.Event)
	close(ch)
	m := NewProgressModel("run", []string{"a.toml"}, ch).(*progressModel)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("msg = %T, want doneMsg", msg)
	}
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !m.done || !strings.Contains(m.View(), "done: run") {
		t.Fatalf("model should be done:\n%s", m.View())
	}
}

func TestRowKeepsCountsAcrossBareEvents(t *testing.T) {
	m := NewProgressModel("run", []string{"a.toml"}, nil).(*progressModel)
	m.applyEvent(conformance.Event{File: "a.toml", Stage: conformance.StageRun, Status: conformance.StatusWorking, Passed: 2, Total: 3})
	m.applyEvent(conformance.Event{File: "a.toml", Stage: conformance.StageRun, Status: "bogus"})
	m.applyEvent(conformance.Event{File: "a.toml", Stage: conformance.StageRun, Status: conformance.StatusDone})
	if row := m.rows[0]; row.label() != "done" || row.counts() != "2/3" {
		t.Fatalf("row = %+v (%q)", row, row.counts())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abcdefgh", 6, "abc..."},
		{"abc", 6, "abc"},
		{"abcdef", 6, "abcdef"},
		{"abcdefgh", 3, "abc"},
		{"cases/to_number.toml", 12, "cases/to_..."},
		{"日本語のファイル.toml", 9, "日本語..."},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && runewidth.StringWidth(got) > tt.width {
			t.Errorf("truncate(%q, %d) is %d cells wide", tt.in, tt.width, runewidth.StringWidth(got))
		}
	}
}

func TestLongPathKeepsText(t *testing.T) {
	path := "internal/conformance/testdata/cases/" + strings.Repeat("x", 200) + ".toml"
	m := NewProgressModel("run", []string{path}, nil).(*progressModel)
	if !strings.Contains(m.View(), "internal/conformance") {
		t.Fatalf("file column lost the path:\n%s", m.View())
	}
}
