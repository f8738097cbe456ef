package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"
)

// SplashFPS is the boot animation frame rate.
const SplashFPS = 30

// Splash animates the power-on progress bar with a damped spring.
type Splash struct {
	spring   harmonica.Spring
	progress float64
	velocity float64
	frames   int
}

// NewSplash returns a splash at 0%.
func NewSplash() *Splash {
	return &Splash{spring: harmonica.NewSpring(harmonica.FPS(SplashFPS), 8.0, 0.72)}
}

// Step advances one frame toward 100%.
func (s *Splash) Step() {
	s.progress, s.velocity = s.spring.Update(s.progress, s.velocity, 1.0)
	s.frames++
}

// Progress returns the clamped progress in [0,1].
func (s *Splash) Progress() float64 {
	switch {
	case s.progress < 0:
		return 0
	case s.progress > 1:
		return 1
	}
	return s.progress
}

// Done reports whether the bar has settled (or a hard frame cap was hit).
func (s *Splash) Done() bool {
	return (s.progress > 0.995 && abs(s.velocity) < 0.01) || s.frames >= 3*SplashFPS
}

// View renders the splash.
func (s *Splash) View(st Styles, width int) string {
	const barWidth = 40
	filled := int(s.Progress()*barWidth + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	lines := []string{
		Logo(st),
		st.Body.Render("INITIALIZING NEURAL DIAGNOSTIC SUBSYSTEMS..."),
		st.Bright.Render(fmt.Sprintf("[%s] %3.0f%%", bar, s.Progress()*100)),
	}
	return lipglossCenter(width, strings.Join(lines, "\n"))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
