package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"coerce/internal/conformance"
	"coerce/internal/ui"
)

type runOutcome struct {
	summary *conformance.Summary
	err     error
}

// runWithUI runs files while a Bubble Tea progress view consumes the
// runner's events.
func runWithUI(ctx context.Context, title string, files []string, opts conformance.Options) (*conformance.Summary, error) {
	events := make(chan conformance.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = conformance.ChannelSink{Ch: events}
		sum, err := conformance.Run(ctx, files, optsCopy)
		outcomeCh <- runOutcome{summary: sum, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the view may quit early on ctrl+c; keep the runner from blocking
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.summary, uiErr
	}
	return outcome.summary, outcome.err
}
