package main

import (
	"context"
	"fmt"

	"modeltron/cmd/modeltron/console"
	"modeltron/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// runConsole launches the interactive console.
func runConsole(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := console.Options{
		Config:   cfg,
		Debugger: rt.debugger,
		Chat:     rt.chat,
	}
	if rt.store != nil {
		opts.Store = rt.store
	}

	logging.Boot("starting console (backend=%s provider=%s)", cfg.Debugger.Backend, cfg.Generative.Provider)
	model := console.New(opts)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if m, ok := final.(console.Model); ok {
		m.Shutdown()
	}
	if err != nil {
		return fmt.Errorf("console exited: %w", err)
	}
	return nil
}
