package console

import (
	"context"
	"math/rand"
	"time"

	"modeltron/cmd/modeltron/ui"
	"modeltron/internal/config"
	"modeltron/internal/logging"
	"modeltron/internal/metrics"
	"modeltron/internal/types"
	"modeltron/internal/upload"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	sidebarWidth = 46
	inputHeight  = 3
)

// New builds a powered-off console.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	styles := ui.DefaultStyles()

	ta := textarea.New()
	ta.Placeholder = "Enter model code or configuration..."
	ta.ShowLineNumbers = false
	ta.Prompt = "> "
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.SetWidth(60)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	fp := filepicker.New()
	fp.AutoHeight = false
	fp.SetHeight(12)
	fp.AllowedTypes = upload.AllExtensions

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sim := opts.Metrics
	if sim == nil {
		sim = metrics.NewSimulator()
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(60),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		logging.UIDebug("glamour renderer unavailable: %v", err)
		renderer = nil
	}

	kind, err := metrics.ParseChartKind(cfg.Debugger.ChartKind)
	if err != nil {
		kind = metrics.ChartBar
	}

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		cfg:           cfg,
		styles:        styles,
		keys:          defaultKeyMap(),
		textarea:      ta,
		viewport:      viewport.New(60, 10),
		spinner:       sp,
		filepicker:    fp,
		help:          help.New(),
		renderer:      renderer,
		debugger:      opts.Debugger,
		chat:          opts.Chat,
		store:         opts.Store,
		simulator:     sim,
		rng:           rng,
		reader:        upload.NewReader(upload.TextPolicy(), cfg.Upload.MaxBytes),
		mode:          types.ModeText,
		state:         initialState(cfg),
		chartKind:     kind,
		rain:          ui.MatrixRain(rng),
		ctx:           ctx,
		cancel:        cancel,
		errorDismiss:  cfg.GetErrorDismiss(),
		globeInterval: cfg.GetGlobeInterval(),
		apiTimeout:    cfg.Generative.GetTimeout(),
	}
}

func initialState(cfg *config.Config) types.ModelState {
	st := types.InitialState()
	st.ModelName = cfg.Console.ModelName
	return st
}

// Init implements tea.Model. The console starts powered off.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Shutdown cancels in-flight requests. Call after the program exits.
func (m Model) Shutdown() {
	if m.cycleCancel != nil {
		m.cycleCancel()
	}
	if m.cancel != nil {
		m.cancel()
	}
}

// PoweredOn reports whether the console is running.
func (m Model) PoweredOn() bool { return m.poweredOn }

// Mode returns the active mode.
func (m Model) Mode() types.Mode { return m.mode }

// History returns a copy of the console history.
func (m Model) History() []types.Message {
	return append([]types.Message(nil), m.state.History...)
}

// Metrics returns the current simulated metrics.
func (m Model) Metrics() types.Metrics { return m.state.Metrics }

// InlineError returns the inline error, empty when none is shown.
func (m Model) InlineError() string { return m.inlineErr }

// Loading reports whether a request is in flight.
func (m Model) Loading() bool { return m.isLoading }

// Attached returns the file attached to the chat, if any.
func (m Model) Attached() *upload.File { return m.attached }

// ChartKind returns the chart kind used in image mode.
func (m Model) ChartKind() metrics.ChartKind { return m.chartKind }

// Input returns the current text input.
func (m Model) Input() string { return m.textarea.Value() }

// powerOn starts a new session and, if configured, the boot splash.
func (m Model) powerOn() (Model, tea.Cmd) {
	m.poweredOn = true
	m.cycle++
	if m.cycleCancel != nil {
		m.cycleCancel()
	}
	m.cycleCtx, m.cycleCancel = context.WithCancel(m.ctx)
	m.state = initialState(m.cfg)
	m.rain = ui.MatrixRain(m.rng)
	logging.Boot("power on (cycle %d)", m.cycle)

	if m.store != nil {
		id, err := m.store.StartSession(m.state.ModelName, "console")
		if err != nil {
			logging.StoreError("start session failed: %v", err)
		} else {
			m.sessionID = id
			logging.Session("session %s started", id)
		}
	}

	cmds := []tea.Cmd{m.globeTick(), textarea.Blink}
	if m.cfg.Console.BootSplash {
		m.booting = true
		m.splash = ui.NewSplash()
		cmds = append(cmds, m.splashTick())
	}
	m.syncPlaceholder()
	m.refreshViewport()
	return m, tea.Batch(cmds...)
}

// powerOff returns every piece of visible state to its initial value.
func (m Model) powerOff() Model {
	logging.Boot("power off (cycle %d)", m.cycle)
	m.poweredOn = false
	m.booting = false
	m.splash = nil
	m.cycle++
	if m.cycleCancel != nil {
		m.cycleCancel()
		m.cycleCtx, m.cycleCancel = nil, nil
	}
	m.state = initialState(m.cfg)
	m.mode = types.ModeText
	m.viewMode = ConsoleView
	m.isLoading = false
	m.attached = nil
	m.inlineErr = ""
	m.sessionID = ""
	if kind, err := metrics.ParseChartKind(m.cfg.Debugger.ChartKind); err == nil {
		m.chartKind = kind
	} else {
		m.chartKind = metrics.ChartBar
	}
	m.textarea.Reset()
	if m.chat != nil {
		m.chat.Reset()
	}
	m.syncPlaceholder()
	m.refreshViewport()
	return m
}

// setMode switches panels; history is kept and filtered at render time.
func (m Model) setMode(mode types.Mode) Model {
	if mode == m.mode {
		return m
	}
	logging.UIDebug("mode %s -> %s", m.mode, mode)
	m.mode = mode
	m.viewMode = ConsoleView
	m.syncPlaceholder()
	m.refreshViewport()
	return m
}

func (m *Model) syncPlaceholder() {
	switch m.mode {
	case types.ModeImage:
		m.textarea.Placeholder = "Describe a custom visualization (used when chart kind is custom)..."
	case types.ModeChat:
		if m.attached != nil {
			m.textarea.Placeholder = "Ask about " + m.attached.Name + "..."
		} else {
			m.textarea.Placeholder = "Upload a model file to begin analysis..."
		}
	default:
		m.textarea.Placeholder = "Enter model code or configuration..."
	}
}

// record appends msg to history and persists it when a store is wired.
func (m *Model) record(msg types.Message) {
	m.state.History = append(m.state.History, msg)
	m.state.LastUpdated = msg.Timestamp
	if m.store == nil || m.sessionID == "" {
		return
	}
	if err := m.store.AppendMessage(m.sessionID, msg); err != nil {
		logging.StoreError("append message failed: %v", err)
	}
}

// advanceMetrics steps the simulated metrics after a successful interaction.
func (m *Model) advanceMetrics() {
	m.state.Metrics = m.simulator.Step(m.state.Metrics)
	m.state.CurrentEpoch = m.state.Metrics.EpochsCompleted
	if m.store == nil || m.sessionID == "" {
		return
	}
	if err := m.store.UpdateMetrics(m.sessionID, m.state.Metrics); err != nil {
		logging.StoreError("update metrics failed: %v", err)
	}
}

// showError sets the inline error and schedules its dismissal.
func (m *Model) showError(text string) tea.Cmd {
	m.errSeq++
	m.inlineErr = text
	seq := m.errSeq
	return tea.Tick(m.errorDismiss, func(time.Time) tea.Msg {
		return dismissErrorMsg{seq: seq}
	})
}

func (m Model) globeTick() tea.Cmd {
	cycle := m.cycle
	return tea.Tick(m.globeInterval, func(time.Time) tea.Msg {
		return globeTickMsg{cycle: cycle}
	})
}

func (m Model) splashTick() tea.Cmd {
	cycle := m.cycle
	return tea.Tick(time.Second/ui.SplashFPS, func(time.Time) tea.Msg {
		return splashTickMsg{cycle: cycle}
	})
}
