package ui

import "github.com/charmbracelet/lipgloss"

func lipglossCenter(width int, s string) string {
	if width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// PowerScreen is shown while the console is off.
func PowerScreen(s Styles, width, height int) string {
	button := s.Panel.Render(s.Bright.Render(" ⏻  POWER ") + "\n" + s.Muted.Render("press enter"))
	if width <= 0 || height <= 0 {
		return button
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, button)
}
