package ui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"ember/internal/buildpipeline"
)

// RunProgress runs fn while rendering its events to out. The error of fn
// wins over a rendering error; a failed renderer never blocks fn.
func RunProgress(ctx context.Context, out io.Writer, title string, files []string, fn func(buildpipeline.ProgressSink) error) error {
	events := make(chan buildpipeline.Event, 128)
	errCh := make(chan error, 1)
	go func() {
		defer close(events)
		errCh <- fn(buildpipeline.ChannelSink{Ch: events})
	}()

	model := NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем, чтобы fn не застрял на полном канале
		for range events {
		}
	}
	if runErr := <-errCh; runErr != nil {
		return runErr
	}
	if errors.Is(uiErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return uiErr
}
