package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonroom/internal/ui/theme"
)

// ContentWidth returns the inner width used for cards on a screen.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 90 {
		w = 90
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded card of the given content width. A
// focused panel gets the primary border color.
func Panel(content string, cw int, focused bool) string {
	style := theme.Card
	if focused {
		style = theme.FocusedCard
	}
	return style.
		Width(cw - 2).
		Render(content)
}

// Centered places content in the middle of a width x height box.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
