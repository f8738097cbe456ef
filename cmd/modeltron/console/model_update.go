package console

import (
	"errors"
	"os"
	"strings"

	"modeltron/cmd/modeltron/ui"
	"modeltron/internal/logging"
	"modeltron/internal/types"
	"modeltron/internal/upload"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case globeTickMsg:
		if !m.poweredOn || msg.cycle != m.cycle {
			return m, nil
		}
		m.rain = ui.MatrixRain(m.rng)
		return m, m.globeTick()

	case splashTickMsg:
		if !m.booting || msg.cycle != m.cycle {
			return m, nil
		}
		m.splash.Step()
		if m.splash.Done() {
			m.booting = false
			m.splash = nil
			logging.Boot("boot splash finished")
			return m, nil
		}
		return m, m.splashTick()

	case dismissErrorMsg:
		if msg.seq == m.errSeq {
			m.inlineErr = ""
		}
		return m, nil

	case interactionMsg:
		if msg.cycle != m.cycle {
			logging.SessionDebug("dropping stale %s result", msg.req.mode)
			return m, nil
		}
		return m.handleInteraction(msg)

	case uploadMsg:
		if msg.cycle != m.cycle {
			return m, nil
		}
		return m.handleUpload(msg)

	case spinner.TickMsg:
		if !m.isLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.viewMode == FilePickerView {
		return m.updateFilePicker(msg)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Shutdown()
		return m, tea.Quit
	}

	if !m.poweredOn {
		if msg.Type == tea.KeyEnter || msg.String() == " " || key.Matches(msg, m.keys.Power) {
			return m.powerOn()
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Power) {
		return m.powerOff(), nil
	}

	if m.booting {
		// Any key skips the splash.
		m.booting = false
		m.splash = nil
		return m, nil
	}

	if m.viewMode == FilePickerView {
		if key.Matches(msg, m.keys.Back) {
			m.viewMode = ConsoleView
			return m, nil
		}
		return m.updateFilePicker(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NextMode):
		return m.setMode(m.mode.Next()), nil
	case key.Matches(msg, m.keys.PrevMode):
		return m.setMode(m.mode.Prev()), nil
	case key.Matches(msg, m.keys.ModeText):
		return m.setMode(types.ModeText), nil
	case key.Matches(msg, m.keys.ModeImage):
		return m.setMode(types.ModeImage), nil
	case key.Matches(msg, m.keys.ModeChat):
		return m.setMode(types.ModeChat), nil
	case key.Matches(msg, m.keys.ModeSet):
		return m.setMode(types.ModeSettings), nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfPageUp()
		return m, nil
	case key.Matches(msg, m.keys.ScrollDn):
		m.viewport.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.Upload):
		return m.openFilePicker()
	case key.Matches(msg, m.keys.Detach):
		if m.mode == types.ModeChat && m.attached != nil {
			logging.Upload("detached %s", m.attached.Name)
			m.attached = nil
			m.syncPlaceholder()
		}
		return m, nil
	case key.Matches(msg, m.keys.Chart):
		if m.mode == types.ModeImage {
			m.chartKind = m.chartKind.Next()
		}
		return m, nil
	case key.Matches(msg, m.keys.Generate):
		if m.mode == types.ModeImage && !m.isLoading {
			return m.submitVisualization(strings.TrimSpace(m.textarea.Value()))
		}
		return m, nil
	}

	if m.mode == types.ModeSettings {
		return m, nil
	}

	if msg.Type == tea.KeyEnter && !msg.Alt && !msg.Paste {
		if m.isLoading {
			return m, nil
		}
		return m.handleSubmit()
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// handleSubmit dispatches the typed input for the active mode.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}
	if m.mode == types.ModeImage {
		return m.submitVisualization(input)
	}

	req := request{mode: m.mode, input: input}
	m.textarea.Reset()
	m.isLoading = true
	logging.Session("submit mode=%s len=%d", m.mode, len(input))

	var work tea.Cmd
	if m.mode == types.ModeChat {
		name := ""
		if m.attached != nil {
			name = m.attached.Name
		}
		work = m.chatCmd(req, upload.RegardingPrompt(name, input))
	} else {
		work = m.analyzeCmd(req, input)
	}
	return m, tea.Batch(work, m.spinner.Tick)
}

func (m Model) submitVisualization(prompt string) (tea.Model, tea.Cmd) {
	req := request{mode: types.ModeImage, input: visualizeLabel(m.chartKind, prompt), kind: m.chartKind}
	m.textarea.Reset()
	m.isLoading = true
	logging.Analysis("visualize kind=%s", m.chartKind)
	return m, tea.Batch(m.visualizeCmd(req, m.state.Metrics, prompt), m.spinner.Tick)
}

func (m Model) handleInteraction(msg interactionMsg) (tea.Model, tea.Cmd) {
	m.isLoading = false
	mode := msg.req.mode

	if msg.err != nil {
		logging.SessionError("%s request failed: %v", mode, msg.err)
		if mode == types.ModeChat {
			m.record(types.NewMessage(types.RoleSystem, "ERROR: "+ErrChatSend, mode))
			m.refreshViewport()
			cmd := m.showError(ErrChatSend)
			return m, cmd
		}
		m.record(types.NewMessage(types.RoleSystem, ErrInteraction, mode))
		m.refreshViewport()
		return m, nil
	}

	m.record(types.NewMessage(types.RoleUser, msg.req.input, mode))
	m.record(types.NewMessage(types.RoleAssistant, msg.reply, mode))
	m.advanceMetrics()
	logging.Get(logging.CategorySession).Event(logging.LevelInfo, "interaction", logging.Fields{
		"mode":     string(mode),
		"reply":    len(msg.reply),
		"accuracy": m.state.Metrics.Accuracy,
		"history":  len(m.state.History),
	})
	m.refreshViewport()
	return m, nil
}

// openFilePicker shows the picker with the active mode's allow-list.
func (m Model) openFilePicker() (tea.Model, tea.Cmd) {
	var policy upload.Policy
	switch m.mode {
	case types.ModeText:
		policy = upload.TextPolicy()
	case types.ModeChat:
		policy = upload.ChatPolicy()
	default:
		return m, nil
	}
	if m.isLoading {
		return m, nil
	}
	m.reader = upload.NewReader(policy, m.cfg.Upload.MaxBytes)
	m.filepicker.AllowedTypes = policy.Allowed
	if m.filepicker.CurrentDirectory == "" || m.filepicker.CurrentDirectory == "." {
		if wd, err := os.Getwd(); err == nil {
			m.filepicker.CurrentDirectory = wd
		}
	}
	m.viewMode = FilePickerView
	return m, m.filepicker.Init()
}

func (m Model) updateFilePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if ok, path := m.filepicker.DidSelectFile(msg); ok {
		m.viewMode = ConsoleView
		m.isLoading = true
		logging.Upload("selected %s", path)
		return m, tea.Batch(m.uploadCmd(m.mode, path), m.spinner.Tick)
	}
	if ok, path := m.filepicker.DidSelectDisabledFile(msg); ok {
		m.viewMode = ConsoleView
		err := m.reader.Policy().Validate(path)
		logging.UploadWarn("rejected %s: %v", path, err)
		cmd = m.showError(upload.UserMessage(err))
		return m, cmd
	}
	return m, cmd
}

func (m Model) handleUpload(msg uploadMsg) (tea.Model, tea.Cmd) {
	m.isLoading = false

	if msg.err != nil {
		logging.UploadWarn("upload failed: %v", msg.err)
		text := upload.UserMessage(msg.err)
		var fe *upload.FormatError
		if !errors.As(msg.err, &fe) && msg.mode == types.ModeChat {
			text = ErrChatFile
		}
		cmd := m.showError(text)
		return m, cmd
	}

	file := msg.file
	switch msg.mode {
	case types.ModeChat:
		if msg.fail != nil {
			logging.SessionError("chat file analysis failed: %v", msg.fail)
			m.record(types.NewMessage(types.RoleSystem, "ERROR: "+ErrChatFile, msg.mode))
			m.refreshViewport()
			cmd := m.showError(ErrChatFile)
			return m, cmd
		}
		m.attached = file
		m.syncPlaceholder()
		m.record(types.NewMessage(types.RoleSystem, "File uploaded: "+file.Name, msg.mode))
		m.record(types.NewMessage(types.RoleAssistant, msg.reply, msg.mode))
	default:
		if msg.fail != nil {
			logging.SessionError("file analysis failed: %v", msg.fail)
			m.record(types.NewMessage(types.RoleSystem, ErrFileText, msg.mode))
			m.refreshViewport()
			return m, nil
		}
		m.textarea.SetValue(file.Content)
		m.record(types.NewMessage(types.RoleSystem, "Uploaded file: "+file.Name, msg.mode))
		m.record(types.NewMessage(types.RoleAssistant, msg.reply, msg.mode))
	}
	m.advanceMetrics()
	m.refreshViewport()
	return m, nil
}
