package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("#E8A33D")
	mutedColor  = lipgloss.Color("#888888")
	textColor   = lipgloss.Color("#FFFFFF")
	okColor     = lipgloss.Color("#3FB950")
	hotColor    = lipgloss.Color("#D1242F")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(hotColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	onStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(okColor)

	offStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	meterStyle = lipgloss.NewStyle().
			Foreground(okColor)

	meterHotStyle = lipgloss.NewStyle().
			Foreground(hotColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Error:"), message)
}

func keyValue(key, value string) string {
	return keyStyle.Render(key+":") + " " + valueStyle.Render(value)
}

func toggle(on bool) string {
	if on {
		return onStyle.Render("on")
	}
	return offStyle.Render("off")
}
