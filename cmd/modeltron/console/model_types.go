// Package console implements the MODELTRON-8000 interactive terminal.
package console

import (
	"context"
	"math/rand"
	"time"

	"modeltron/cmd/modeltron/ui"
	"modeltron/internal/config"
	"modeltron/internal/debugger"
	"modeltron/internal/genapi"
	"modeltron/internal/metrics"
	"modeltron/internal/types"
	"modeltron/internal/upload"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// Messages shown to the user on failure.
const (
	ErrInteraction = "ERROR: Analysis failed. Please try again."
	ErrFileText    = "ERROR: File analysis failed. Please try again."
	ErrChatSend    = "Failed to process your request. Please try again."
	ErrChatFile    = "File analysis failed. Please try again."
)

// Transcript persists console sessions. *store.TranscriptStore satisfies it.
type Transcript interface {
	StartSession(modelName, source string) (string, error)
	AppendMessage(sessionID string, msg types.Message) error
	UpdateMetrics(sessionID string, m types.Metrics) error
}

// Options wires the console's collaborators.
type Options struct {
	Config   *config.Config
	Debugger debugger.Debugger
	Chat     genapi.ChatSession // nil answers chat with the debugger
	Store    Transcript         // optional
	Rand     *rand.Rand         // globe rain; time-seeded when nil
	Metrics  *metrics.Simulator // time-seeded when nil
}

// ViewMode determines which component is focused.
type ViewMode int

const (
	ConsoleView ViewMode = iota
	FilePickerView
)

// request is one submitted interaction.
type request struct {
	mode  types.Mode
	input string // what the user typed, shown in history
	kind  metrics.ChartKind
}

// =============================================================================
// TEA MESSAGES
// =============================================================================

// interactionMsg carries the result of a text, image or chat request.
type interactionMsg struct {
	cycle int
	req   request
	reply string
	err   error
}

// uploadMsg carries the result of reading and analysing a file.
type uploadMsg struct {
	cycle int
	mode  types.Mode
	file  *upload.File
	reply string
	err   error // read/validation error
	fail  error // analysis error after a successful read
}

// globeTickMsg repaints the matrix rain.
type globeTickMsg struct{ cycle int }

// splashTickMsg advances the boot splash.
type splashTickMsg struct{ cycle int }

// dismissErrorMsg clears the inline error if it is still the same one.
type dismissErrorMsg struct{ seq int }

// Model is the root bubbletea model of the console.
type Model struct {
	cfg    *config.Config
	styles ui.Styles
	keys   keyMap

	// Components
	textarea   textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model
	filepicker filepicker.Model
	help       help.Model
	renderer   *glamour.TermRenderer

	// Collaborators
	debugger  debugger.Debugger
	chat      genapi.ChatSession
	store     Transcript
	sessionID string
	simulator *metrics.Simulator
	rng       *rand.Rand
	reader    *upload.Reader // per-mode policy set when the picker opens

	// Power and boot
	poweredOn bool
	booting   bool
	splash    *ui.Splash
	cycle     int // bumped on every power toggle; stale async results are dropped

	// Visible state
	mode      types.Mode
	state     types.ModelState
	viewMode  ViewMode
	isLoading bool
	chartKind metrics.ChartKind
	attached  *upload.File
	inlineErr string
	errSeq    int
	rain      []string

	// Layout
	width  int
	height int
	ready  bool

	ctx    context.Context
	cancel context.CancelFunc

	// cancelled on power off so requests from a finished cycle stop early
	cycleCtx    context.Context
	cycleCancel context.CancelFunc

	errorDismiss  time.Duration
	globeInterval time.Duration
	apiTimeout    time.Duration
}
