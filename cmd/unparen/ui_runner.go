package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"unparen/internal/driver"
	"unparen/internal/ui"
)

type analyzeOutcome struct {
	result *driver.Result
	err    error
}

// runAnalyzeWithUI analyzes files while a progress view follows the driver
// events. The driver runs in its own goroutine and closes the event stream
// when done, which ends the view.
func runAnalyzeWithUI(ctx context.Context, title, baseDir string, files []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink(events)
		res, err := driver.AnalyzeFiles(ctx, baseDir, files, optsCopy)
		outcomeCh <- analyzeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	var outcome analyzeOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		// окно закрылось раньше анализа (ctrl+c): останавливаем воркеры и
		// вычитываем события, чтобы они не заблокировались на канале
		cancel()
		go func() {
			for range events {
			}
		}()
		outcome = <-outcomeCh
	}
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
