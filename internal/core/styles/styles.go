// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/noticeboard/internal/core/notice"
)

var (
	colorInfo    = lipgloss.Color("#7aa2f7")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorWarning = lipgloss.Color("#e0af68")
	colorError   = lipgloss.Color("#f7768e")
	colorMuted   = lipgloss.Color("#565f89")
)

// Muted renders secondary text such as ids and metadata.
var Muted = lipgloss.NewStyle().Foreground(colorMuted)

// styleColor maps a notice's style to its accent color.
func styleColor(s notice.Style) lipgloss.Color {
	switch s {
	case notice.StyleSuccess:
		return colorSuccess
	case notice.StyleWarning:
		return colorWarning
	case notice.StyleError:
		return colorError
	default:
		return colorInfo
	}
}

// NoticeBox renders notice content in a bordered box with the style's
// accent color on the left edge, mimicking the dashboard presentation.
func NoticeBox(s notice.Style, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(styleColor(s)).
		PaddingLeft(1).
		Width(width)
}

// Badge renders the style name in its accent color.
func Badge(s notice.Style) string {
	return lipgloss.NewStyle().
		Foreground(styleColor(s)).
		Bold(true).
		Render(string(s))
}
