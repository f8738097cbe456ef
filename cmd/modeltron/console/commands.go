package console

import (
	"context"
	"fmt"

	"modeltron/internal/debugger"
	"modeltron/internal/logging"
	"modeltron/internal/metrics"
	"modeltron/internal/types"
	"modeltron/internal/upload"

	tea "github.com/charmbracelet/bubbletea"
)

// requestContext bounds a provider call by the power cycle and the
// configured timeout.
func (m Model) requestContext() (context.Context, context.CancelFunc) {
	parent := m.cycleCtx
	if parent == nil {
		parent = m.ctx
	}
	if m.apiTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, m.apiTimeout)
}

func (m Model) analyzeCmd(req request, input string) tea.Cmd {
	cycle := m.cycle
	dbg := m.debugger
	return func() tea.Msg {
		if dbg == nil {
			return interactionMsg{cycle: cycle, req: req, err: debugger.ErrAnalysisFailed}
		}
		ctx, cancel := m.requestContext()
		defer cancel()
		timer := logging.StartTimer(logging.CategoryAnalysis, "analyze")
		reply, err := dbg.AnalyzeModel(ctx, input)
		timer.Stop()
		return interactionMsg{cycle: cycle, req: req, reply: reply, err: err}
	}
}

// chatCmd sends prompt to the chat session, or to the debugger when no
// session is wired.
func (m Model) chatCmd(req request, prompt string) tea.Cmd {
	if m.chat == nil {
		return m.analyzeCmd(req, prompt)
	}
	cycle := m.cycle
	session := m.chat
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		timer := logging.StartTimer(logging.CategoryAPI, "chat")
		reply, err := session.Send(ctx, prompt)
		timer.Stop()
		return interactionMsg{cycle: cycle, req: req, reply: reply, err: err}
	}
}

func (m Model) visualizeCmd(req request, snapshot types.Metrics, prompt string) tea.Cmd {
	cycle := m.cycle
	dbg := m.debugger
	return func() tea.Msg {
		if dbg == nil {
			return interactionMsg{cycle: cycle, req: req, err: debugger.ErrVisualizeFailed}
		}
		ctx, cancel := m.requestContext()
		defer cancel()
		opts := []debugger.VisualizeOption{debugger.WithChart(req.kind)}
		if prompt != "" {
			opts = append(opts, debugger.WithPrompt(prompt))
		}
		result, err := dbg.VisualizeMetrics(ctx, snapshot, opts...)
		if err != nil {
			return interactionMsg{cycle: cycle, req: req, err: err}
		}
		return interactionMsg{cycle: cycle, req: req, reply: debugger.VisualizationMarkdown(result)}
	}
}

// uploadCmd reads path with the active policy and analyses it for mode.
func (m Model) uploadCmd(mode types.Mode, path string) tea.Cmd {
	cycle := m.cycle
	reader := m.reader
	dbg := m.debugger
	session := m.chat
	return func() tea.Msg {
		file, err := reader.Read(path)
		if err != nil {
			return uploadMsg{cycle: cycle, mode: mode, err: err}
		}
		logging.Upload("read %s (%d bytes)", file.Name, file.Size)

		ctx, cancel := m.requestContext()
		defer cancel()

		var reply string
		switch {
		case mode == types.ModeChat && session != nil:
			reply, err = session.Send(ctx, upload.ChatPrompt(file.Name, file.Content))
		case mode == types.ModeChat && dbg != nil:
			reply, err = dbg.AnalyzeModel(ctx, upload.ChatPrompt(file.Name, file.Content))
		case dbg != nil:
			reply, err = dbg.AnalyzeModel(ctx, upload.AnalysisPrompt(file.Name, file.Content))
		default:
			err = debugger.ErrAnalysisFailed
		}
		return uploadMsg{cycle: cycle, mode: mode, file: file, reply: reply, fail: err}
	}
}

// visualizeLabel is the user line recorded for a visualization request.
func visualizeLabel(kind metrics.ChartKind, prompt string) string {
	if kind == metrics.ChartCustom && prompt != "" {
		return fmt.Sprintf("Generate custom visualization: %s", prompt)
	}
	return fmt.Sprintf("Generate %s chart of current metrics", kind)
}
