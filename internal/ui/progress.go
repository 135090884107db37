package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"coerce/internal/conformance"
)

const (
	labelWidth = 10
	countWidth = 12
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	labelStyles = map[string]lipgloss.Style{
		"done":     okStyle,
		"failed":   badStyle,
		"error":    badStyle,
		"loading":  activeStyle,
		"building": activeStyle,
		"running":  activeStyle,
	}
)

// fileRow is the latest known state of one case file. Counts survive
// events that do not carry them, such as a late build error.
type fileRow struct {
	path   string
	last   conformance.Event
	passed int
	failed int
	total  int
}

func (r *fileRow) apply(ev conformance.Event) {
	if ev.Label() == "" {
		return
	}
	r.last = ev
	if ev.Total > 0 {
		r.passed, r.failed, r.total = ev.Passed, ev.Failed, ev.Total
	}
}

func (r fileRow) label() string { return r.last.Label() }

func (r fileRow) counts() string {
	if r.total == 0 {
		return ""
	}
	s := fmt.Sprintf("%d/%d", r.passed+r.failed, r.total)
	if r.failed > 0 {
		s += fmt.Sprintf(" ✗%d", r.failed)
	}
	return s
}

type progressModel struct {
	title   string
	events  <-chan conformance.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]*fileRow
	width   int
	done    bool
}

type eventMsg conformance.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing one row per case file
// and an overall bar. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan conformance.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(activeStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]*fileRow, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.rows[i] = fileRow{path: file, last: conformance.Event{File: file, Status: conformance.StatusQueued}}
		m.byPath[file] = &m.rows[i]
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(conformance.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	header := m.spinner.View() + " " + m.title
	if m.done {
		header = "done: " + m.title
	}
	b.WriteString(titleStyle.Render(header) + "\n\n")

	nameWidth := max(m.width-labelWidth-countWidth-6, 20)
	passed, failed := 0, 0
	for _, row := range m.rows {
		label := row.label()
		style, ok := labelStyles[label]
		if !ok {
			style = mutedStyle
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			style.Render(fmt.Sprintf("%*s", labelWidth, label)),
			runewidth.FillRight(truncate(row.path, nameWidth), nameWidth),
			row.counts())
		passed += row.passed
		failed += row.failed
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	if passed+failed > 0 {
		tally := fmt.Sprintf("  %d passed", passed)
		if failed > 0 {
			tally += badStyle.Render(fmt.Sprintf(", %d failed", failed))
		}
		b.WriteString(tally + "\n")
	}
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev conformance.Event) tea.Cmd {
	row, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row.apply(ev)
	return m.bar.SetPercent(m.percent())
}

// percent is the mean completion over all files.
func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, row := range m.rows {
		sum += row.last.Fraction()
	}
	return sum / float64(len(m.rows))
}

// truncate shortens value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// the width passed to Truncate already includes the tail
	return runewidth.Truncate(value, width, "...")
}
