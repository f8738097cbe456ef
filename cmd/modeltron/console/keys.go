package console

import (
	"modeltron/internal/types"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit      key.Binding
	Power     key.Binding
	Submit    key.Binding
	NextMode  key.Binding
	PrevMode  key.Binding
	ModeText  key.Binding
	ModeImage key.Binding
	ModeChat  key.Binding
	ModeSet   key.Binding
	Upload    key.Binding
	Detach    key.Binding
	Chart     key.Binding
	Generate  key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	Back      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Power:     key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "power")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		NextMode:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next mode")),
		PrevMode:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev mode")),
		ModeText:  key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "text")),
		ModeImage: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "visualize")),
		ModeChat:  key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "chat")),
		ModeSet:   key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "settings")),
		Upload:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "upload")),
		Detach:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "detach file")),
		Chart:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "chart kind")),
		Generate:  key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate")),
		ScrollUp:  key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDn:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextMode, k.Upload, k.Power, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.NextMode, k.PrevMode},
		{k.ModeText, k.ModeImage, k.ModeChat, k.ModeSet},
		{k.Upload, k.Detach, k.Chart, k.Generate},
		{k.ScrollUp, k.ScrollDn, k.Power, k.Quit},
	}
}

// modeHelp returns the bindings relevant to the active mode.
func (m Model) modeHelp() []key.Binding {
	switch m.mode {
	case types.ModeImage:
		return []key.Binding{m.keys.Generate, m.keys.Chart, m.keys.NextMode, m.keys.Power, m.keys.Quit}
	case types.ModeChat:
		return []key.Binding{m.keys.Submit, m.keys.Upload, m.keys.Detach, m.keys.NextMode, m.keys.Power}
	case types.ModeSettings:
		return []key.Binding{m.keys.NextMode, m.keys.Power, m.keys.Quit}
	default:
		return m.keys.ShortHelp()
	}
}
