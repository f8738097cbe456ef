package console

import (
	"fmt"
	"strings"

	"modeltron/cmd/modeltron/ui"
	"modeltron/internal/debugger"
	"modeltron/internal/metrics"
	"modeltron/internal/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// resize lays out components for the current window.
func (m *Model) resize() {
	left := m.leftWidth()
	m.textarea.SetWidth(max(left-4, 10))

	// header(2) + title(1) + input box + inline error(1) + help(1)
	chrome := 2 + 1 + inputHeight + 2 + 1 + 1
	m.viewport.Width = left
	m.viewport.Height = max(m.height-chrome, 3)
	m.filepicker.SetHeight(max(m.height-4, 5))

	if r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(left-4, 20)),
		glamour.WithPreservedNewLines(),
	); err == nil {
		m.renderer = r
	}
	m.refreshViewport()
}

func (m Model) leftWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width-sidebarWidth-2, 30)
}

// refreshViewport re-renders the terminal for the active mode.
func (m *Model) refreshViewport() {
	if m.mode == types.ModeSettings {
		m.viewport.SetContent(m.renderSettings())
		m.viewport.GotoTop()
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

// renderHistory renders the messages tagged with the active mode.
func (m Model) renderHistory() string {
	msgs := types.FilterByMode(m.state.History, m.mode)
	if len(msgs) == 0 {
		return m.styles.Muted.Render(emptyPrompt(m.mode))
	}

	width := max(m.leftWidth()-2, 10)
	var sb strings.Builder
	for _, msg := range msgs {
		stamp := ""
		if !msg.Timestamp.IsZero() {
			stamp = m.styles.Stamp.Render(msg.Timestamp.Format("15:04:05")) + " "
		}
		sb.WriteString(stamp + m.styles.Role.Render(roleLabel(msg.Role)) + "\n")

		switch msg.Role {
		case types.RoleAssistant:
			if m.preformatted(msg.Content) {
				sb.WriteString(m.styles.Body.Width(width).Render(msg.Content))
			} else {
				sb.WriteString(strings.TrimRight(m.safeRenderMarkdown(msg.Content), "\n"))
			}
		case types.RoleSystem:
			style := m.styles.Muted
			if strings.HasPrefix(msg.Content, "ERROR") {
				style = m.styles.Error
			}
			sb.WriteString(style.Width(width).Render(msg.Content))
		default:
			sb.WriteString(m.styles.Bright.Width(width).Render(msg.Content))
		}
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// preformatted reports whether an assistant reply bypasses markdown.
// Analysis reports and ASCII charts are laid out already.
func (m Model) preformatted(content string) bool {
	switch m.mode {
	case types.ModeText:
		return true
	case types.ModeImage:
		return !debugger.HasImageLink(content)
	}
	return false
}

// safeRenderMarkdown renders markdown with panic recovery.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func roleLabel(r types.Role) string {
	switch r {
	case types.RoleUser:
		return "USER>"
	case types.RoleAssistant:
		return "MODELTRON>"
	default:
		return "SYSTEM>"
	}
}

func emptyPrompt(mode types.Mode) string {
	switch mode {
	case types.ModeImage:
		return "READY. Press ctrl+g to visualize the current metrics."
	case types.ModeChat:
		return "READY. Attach a model file with ctrl+o or ask a question."
	default:
		return "READY. Enter model code or upload a file with ctrl+o."
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if !m.poweredOn {
		return ui.PowerScreen(m.styles, m.width, m.height)
	}
	if m.booting && m.splash != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.splash.View(m.styles, m.width))
	}
	if m.viewMode == FilePickerView {
		title := m.styles.Header.Render(" SELECT FILE  " + strings.Join(m.filepicker.AllowedTypes, " "))
		return lipgloss.JoinVertical(lipgloss.Left, title, m.filepicker.View(), m.styles.Muted.Render("esc to cancel"))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderMain(), "  ", m.renderSidebar())
	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body))
}

func (m Model) renderHeader() string {
	status := m.styles.Bright.Render("● ONLINE")
	if m.isLoading {
		status = m.spinner.View() + m.styles.Warning.Render(" PROCESSING")
	}
	name := m.state.ModelName
	if m.attached != nil {
		name = m.attached.Name
	}
	parts := []string{m.styles.Title.Render(m.cfg.Name), status}
	if name != "" {
		parts = append(parts, m.styles.Muted.Render("Active Model: "+name))
	}
	line := strings.Join(parts, "  ")
	return m.styles.Header.Render(line) + "\n" + m.styles.RenderDivider(m.width)
}

func (m Model) renderMain() string {
	width := m.leftWidth()
	title := m.mode.Title()
	if m.mode == types.ModeImage {
		title += fmt.Sprintf("  [%s]", strings.ToUpper(string(m.chartKind)))
	}

	sections := []string{m.styles.Title.Render(title), m.viewport.View()}
	if m.mode != types.ModeSettings {
		sections = append(sections, m.styles.Panel.Width(width-2).Render(m.textarea.View()))
	}
	errLine := ""
	if m.inlineErr != "" {
		errLine = m.styles.Error.Render("! " + m.inlineErr)
	}
	sections = append(sections, errLine, m.styles.Footer.Render(m.help.ShortHelpView(m.modeHelp())))
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderSidebar() string {
	inner := sidebarWidth - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Panel.Width(inner).Render(m.renderModeSelector()),
		m.styles.Panel.Width(inner).Render(m.renderMetrics()),
		m.styles.Panel.Width(inner).Render(m.styles.Title.Render(ui.GlobeTitle)+"\n"+ui.RenderGlobe(m.styles, m.rain)),
	)
}

func (m Model) renderModeSelector() string {
	lines := []string{m.styles.Title.Render("GENERATION MODE")}
	for i, mode := range types.Modes {
		label := fmt.Sprintf("F%d %s", i+1, mode.Label())
		if mode == m.mode {
			lines = append(lines, m.styles.ModeActive.Render("▶ "+label))
		} else {
			lines = append(lines, m.styles.ModeInactive.Render("  "+label))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMetrics() string {
	met := m.state.Metrics
	lines := []string{m.styles.Title.Render("MODEL METRICS")}
	for _, row := range metrics.Rows(met) {
		lines = append(lines, fmt.Sprintf("%-10s %s", row.Label+":", m.styles.Bright.Render(row.Value)))
	}
	lines = append(lines,
		"",
		m.styles.Body.Render("ACC  "+metrics.Bar(met.Accuracy)),
		m.styles.Body.Render("LOSS "+metrics.LossBar(met.Loss)),
		m.styles.Muted.Render(fmt.Sprintf("epochs %d  batch %d  lr %g", met.EpochsCompleted, met.BatchSize, met.LearningRate)),
	)
	return strings.Join(lines, "\n")
}

var _ help.KeyMap = keyMap{}
