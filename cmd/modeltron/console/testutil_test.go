package console

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"modeltron/internal/config"
	"modeltron/internal/debugger"
	"modeltron/internal/genapi"
	"modeltron/internal/metrics"
	"modeltron/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// MOCKS
// =============================================================================

// MockDebugger records calls and returns canned replies.
type MockDebugger struct {
	mu         sync.Mutex
	reply      string
	visual     string
	err        error
	inputs     []string
	ctxErrs    []error
	visualized []debugger.VisualizeOptions
}

func NewMockDebugger() *MockDebugger {
	return &MockDebugger{reply: "ANALYSIS COMPLETE", visual: "https://img.test/chart.png"}
}

func (d *MockDebugger) AnalyzeModel(ctx context.Context, input string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inputs = append(d.inputs, input)
	d.ctxErrs = append(d.ctxErrs, ctx.Err())
	if d.err != nil {
		return "", d.err
	}
	return d.reply, nil
}

func (d *MockDebugger) VisualizeMetrics(_ context.Context, _ types.Metrics, opts ...debugger.VisualizeOption) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var o debugger.VisualizeOptions
	for _, opt := range opts {
		opt(&o)
	}
	d.visualized = append(d.visualized, o)
	if d.err != nil {
		return "", d.err
	}
	return d.visual, nil
}

func (d *MockDebugger) SetError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = errors.New(msg)
}

func (d *MockDebugger) Inputs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.inputs...)
}

// CtxErrs returns ctx.Err() as seen by each AnalyzeModel call.
func (d *MockDebugger) CtxErrs() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]error(nil), d.ctxErrs...)
}

func (d *MockDebugger) Visualized() []debugger.VisualizeOptions {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]debugger.VisualizeOptions(nil), d.visualized...)
}

// MockChat is a ChatSession that echoes prompts.
type MockChat struct {
	mu      sync.Mutex
	sent    []string
	err     error
	resets  int
	replies string
}

func (c *MockChat) Send(_ context.Context, content string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	c.sent = append(c.sent, content)
	if c.replies != "" {
		return c.replies, nil
	}
	return "ack: " + content, nil
}

func (c *MockChat) Messages() []genapi.Turn { return nil }

func (c *MockChat) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets++
	c.sent = nil
}

func (c *MockChat) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

// MockTranscript keeps sessions in memory.
type MockTranscript struct {
	mu       sync.Mutex
	sessions []string
	messages map[string][]types.Message
	metrics  map[string]types.Metrics
}

func NewMockTranscript() *MockTranscript {
	return &MockTranscript{
		messages: make(map[string][]types.Message),
		metrics:  make(map[string]types.Metrics),
	}
}

func (s *MockTranscript) StartSession(_, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := "session-" + string(rune('a'+len(s.sessions)))
	s.sessions = append(s.sessions, id)
	return id, nil
}

func (s *MockTranscript) AppendMessage(id string, msg types.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[id] = append(s.messages[id], msg)
	return nil
}

func (s *MockTranscript) UpdateMetrics(id string, m types.Metrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[id] = m
	return nil
}

// =============================================================================
// MODEL BUILDERS
// =============================================================================

type testModelConfig struct {
	opts      Options
	poweredOn bool
	width     int
	height    int
}

// TestModelOption configures NewTestModel.
type TestModelOption func(*testModelConfig)

func WithDebugger(d debugger.Debugger) TestModelOption {
	return func(c *testModelConfig) { c.opts.Debugger = d }
}

func WithChat(s genapi.ChatSession) TestModelOption {
	return func(c *testModelConfig) { c.opts.Chat = s }
}

func WithStore(s Transcript) TestModelOption {
	return func(c *testModelConfig) { c.opts.Store = s }
}

func WithConfig(mutate func(*config.Config)) TestModelOption {
	return func(c *testModelConfig) { mutate(c.opts.Config) }
}

func PoweredOff() TestModelOption {
	return func(c *testModelConfig) { c.poweredOn = false }
}

func WithSize(w, h int) TestModelOption {
	return func(c *testModelConfig) { c.width, c.height = w, h }
}

// NewTestModel returns a sized, powered-on console with fast timers and
// no boot splash.
func NewTestModel(t *testing.T, opts ...TestModelOption) Model {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Console.ErrorDismiss = "1ms"
	cfg.Console.GlobeInterval = "1ms"
	cfg.Console.BootSplash = false
	cfg.Generative.Timeout = "2s"

	tc := &testModelConfig{
		opts: Options{
			Config:   cfg,
			Debugger: NewMockDebugger(),
			Rand:     rand.New(rand.NewSource(7)),
			Metrics:  metrics.NewSimulatorWithSource(rand.NewSource(7)),
		},
		poweredOn: true,
		width:     120,
		height:    48,
	}
	for _, opt := range opts {
		opt(tc)
	}

	m := New(tc.opts)
	t.Cleanup(m.Shutdown)

	m = SimulateMessages(m, tea.WindowSizeMsg{Width: tc.width, Height: tc.height})
	if tc.poweredOn {
		m, _ = m.powerOn()
	}
	return m
}

// =============================================================================
// HELPERS
// =============================================================================

// MakeKeyMsg builds a key message from a short name.
func MakeKeyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "alt+enter":
		return tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	case "f2":
		return tea.KeyMsg{Type: tea.KeyF2}
	case "f3":
		return tea.KeyMsg{Type: tea.KeyF3}
	case "f4":
		return tea.KeyMsg{Type: tea.KeyF4}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// SimulateMessages feeds msgs through Update, discarding commands.
func SimulateMessages(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// press sends one key and returns the model and its command.
func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(MakeKeyMsg(k))
	return next.(Model), cmd
}

// typeText sets the input directly.
func typeText(m Model, text string) Model {
	m.textarea.SetValue(text)
	return m
}

// collect runs cmd and expands batches, failing if it blocks.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("command did not return")
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(t, c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// settle runs cmd and feeds back request results until none remain.
// Timer-driven messages are dropped.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(t, cmd) {
		switch msg.(type) {
		case interactionMsg, uploadMsg:
			next, follow := m.Update(msg)
			m = settle(t, next.(Model), follow)
		}
	}
	return m
}

// results runs cmd and returns only request results, leaving the model untouched.
func results(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	for _, msg := range collect(t, cmd) {
		switch msg.(type) {
		case interactionMsg, uploadMsg:
			out = append(out, msg)
		}
	}
	return out
}
