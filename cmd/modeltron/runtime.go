package main

import (
	"context"
	"fmt"

	"modeltron/internal/config"
	"modeltron/internal/debugger"
	"modeltron/internal/genapi"
	"modeltron/internal/store"
	"modeltron/internal/types"

	"go.uber.org/zap"
)

// runtime holds the collaborators shared by the console and subcommands.
type runtime struct {
	cfg       *config.Config
	providers *genapi.Providers
	debugger  debugger.Debugger
	chat      genapi.ChatSession // nil without a text provider
	store     *store.TranscriptStore
}

// newRuntime wires providers, the debugger, the chat session and (when
// enabled) the transcript store from cfg.
func newRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	providers, err := genapi.NewFromConfig(ctx, cfg.Generative)
	if err != nil {
		return nil, fmt.Errorf("failed to build providers: %w", err)
	}

	dbg, err := debugger.New(cfg, providers)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, providers: providers, debugger: dbg}
	if providers.Text != nil {
		rt.chat = genapi.NewChat(providers.Text,
			debugger.SystemPromptFor(cfg.Console.Persona),
			genapi.TextOptionsFor(cfg.Generative, true))
	}

	if cfg.Store.Enabled {
		st, err := store.NewTranscriptStore(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		rt.store = st
	}

	logger.Debug("runtime ready",
		zap.String("backend", cfg.Debugger.Backend),
		zap.String("provider", cfg.Generative.Provider),
		zap.String("image_provider", cfg.Generative.ImageProvider),
		zap.Bool("store", rt.store != nil))
	return rt, nil
}

// Close releases the store.
func (r *runtime) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

// startSession opens a CLI transcript session; failures are logged, not fatal.
func (r *runtime) startSession(source string) string {
	if r.store == nil {
		return ""
	}
	id, err := r.store.StartSession(r.cfg.Console.ModelName, source)
	if err != nil {
		logger.Warn("failed to start transcript session", zap.Error(err))
		return ""
	}
	return id
}

// record appends msg to a CLI session when one is open.
func (r *runtime) record(sessionID string, msg types.Message) {
	if r.store == nil || sessionID == "" {
		return
	}
	if err := r.store.AppendMessage(sessionID, msg); err != nil {
		logger.Warn("failed to record message", zap.Error(err))
	}
}
