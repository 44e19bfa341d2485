package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"interp/internal/pipeline"
	"interp/internal/ui"
)

type normalizeOutcome struct {
	result pipeline.NormalizeOutcome
	err    error
}

type catalogOutcome struct {
	result pipeline.CatalogOutcome
	err    error
}

func runNormalizeWithUI(ctx context.Context, title string, files []string, req pipeline.NormalizeRequest) (pipeline.NormalizeOutcome, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan normalizeOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.RunNormalize(ctx, reqCopy)
		outcomeCh <- normalizeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

func runCatalogWithUI(ctx context.Context, title string, ids []string, req pipeline.CatalogRequest) (pipeline.CatalogOutcome, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan catalogOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.RunCatalog(ctx, reqCopy)
		outcomeCh <- catalogOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, ids, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
