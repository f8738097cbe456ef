package console

import (
	"fmt"
	"strings"

	"modeltron/internal/logging"
)

// renderSettings shows the active configuration. Secrets are masked.
func (m Model) renderSettings() string {
	cfg := m.cfg
	gen := cfg.Generative

	rows := [][2]string{
		{"Version", cfg.Version},
		{"Debugger backend", cfg.Debugger.Backend},
		{"Default chart", cfg.Debugger.ChartKind},
		{"Text provider", gen.Provider},
		{"Image provider", gen.ImageProvider},
		{"Text model", gen.TextModel},
		{"Chat model", gen.ChatModel},
		{"Image model", gen.ImageModel},
		{"Gemini model", gen.GeminiModel},
		{"API key", maskKey(gen.APIKey)},
		{"Seed", fmt.Sprint(gen.Seed)},
		{"Temperature", fmt.Sprint(gen.Temperature)},
		{"Image size", fmt.Sprintf("%dx%d", gen.ImageWidth, gen.ImageHeight)},
		{"Request timeout", gen.GetTimeout().String()},
		{"Chat persona", cfg.Console.Persona},
		{"Error dismiss", m.errorDismiss.String()},
		{"Upload limit", fmt.Sprintf("%d bytes", cfg.Upload.MaxBytes)},
		{"Transcript store", storeLabel(cfg.Store.Enabled, cfg.Store.Path)},
		{"Debug logging", loggingLabel()},
	}

	var sb strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s %s\n", m.styles.Muted.Render(fmt.Sprintf("%-18s", r[0])), m.styles.Bright.Render(r[1]))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("Edit .modeltron/config.yaml to change settings."))
	return sb.String()
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 4:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}

func storeLabel(enabled bool, path string) string {
	if !enabled {
		return "disabled"
	}
	return path
}

// loggingLabel reports the active logging state.
func loggingLabel() string {
	if !logging.Enabled() {
		return "off"
	}
	var off []string
	for _, c := range logging.AllCategories() {
		if !logging.IsCategoryEnabled(c) {
			off = append(off, string(c))
		}
	}
	label := "on, " + logging.Dir()
	if len(off) > 0 {
		label += " (muted: " + strings.Join(off, ", ") + ")"
	}
	return label
}
