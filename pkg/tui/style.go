package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"

	tickDuration = time.Duration(time.Second / 20)

	marqueeGap = "    "
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	textRedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))

	todayStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorBlue))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))

	takeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorGreen))
	takenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim))
	notTakenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim))
	eventStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// Function to colorize text based on its status
// 0 (default) - unknown, 1 - green, 2 - red
func TextStatusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

// Generates pointer symbol when line in focus
func generateLinePointer(isPoint bool, length int) string {
	if isPoint {
		return ">" + strings.Repeat(" ", length-1)
	}
	return strings.Repeat(" ", length)
}

// Create a padded version marquee text for scrolling
func (m model) marqueeText(text string, availableWidth int) string {
	if availableWidth <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= availableWidth {
		return text
	}
	padded := append(append(runes, []rune(marqueeGap)...), runes...)
	offset := m.marqueeOffset % (len(runes) + len(marqueeGap))
	return string(padded[offset : offset+availableWidth])
}

// truncate shortens text to width runes, ending with "..".
func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width <= 3 {
		return string(runes[:max(width, 0)])
	}
	return string(runes[:width-2]) + ".."
}
