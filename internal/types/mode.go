package types

import (
	"fmt"
	"strings"
)

// Mode selects which console panel is active.
type Mode string

const (
	ModeText     Mode = "text"
	ModeImage    Mode = "image"
	ModeChat     Mode = "chat"
	ModeSettings Mode = "settings"
)

// Modes lists every mode in selector order.
var Modes = []Mode{ModeText, ModeImage, ModeChat, ModeSettings}

// ParseMode converts a user-supplied name into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q (want text, image, chat or settings)", s)
	}
	return m, nil
}

// Valid reports whether m is one of the four known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeText, ModeImage, ModeChat, ModeSettings:
		return true
	}
	return false
}

func (m Mode) String() string { return string(m) }

// Title is the heading shown above the panel for this mode.
func (m Mode) Title() string {
	switch m {
	case ModeText:
		return "MODEL CODE ANALYSIS"
	case ModeImage:
		return "MODEL VISUALIZATION"
	case ModeChat:
		return "MODEL DEBUGGING CHAT"
	case ModeSettings:
		return "SYSTEM SETTINGS"
	default:
		return ""
	}
}

// Label is the text used in the mode selector.
func (m Mode) Label() string {
	switch m {
	case ModeText:
		return "TEXT ANALYSIS"
	case ModeImage:
		return "VISUALIZATIONS"
	case ModeChat:
		return "MODEL CHAT"
	case ModeSettings:
		return "SETTINGS"
	default:
		return ""
	}
}

func (m Mode) index() int {
	for i, mode := range Modes {
		if mode == m {
			return i
		}
	}
	return 0
}

// Next returns the following mode, wrapping around.
func (m Mode) Next() Mode {
	return Modes[(m.index()+1)%len(Modes)]
}

// Prev returns the preceding mode, wrapping around.
func (m Mode) Prev() Mode {
	return Modes[(m.index()+len(Modes)-1)%len(Modes)]
}
