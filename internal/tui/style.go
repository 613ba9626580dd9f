// ABOUTME: Styles and small text helpers for the browse view.
// ABOUTME: Palette follows a dark terminal theme.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorGray   = "#353b52"
	colorWhite  = "#ffffff"
	colorGreen  = "#acfab4"
	colorRed    = "#e61f44"
	colorPurple = "#b9a3eb"
	colorBlue   = "#89ddff"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(colorPurple))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))
)

// truncate shortens s to width runes, marking the cut with "..".
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 2 {
		return string(r[:width])
	}
	return fmt.Sprintf("%s..", string(r[:width-2]))
}
