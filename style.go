package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

var (
	keyword = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}).
		Render

	passMark = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}).
			Render("✓")

	failMark = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#ED567A", Dark: "#ED567A"}).
			Render("✗")

	skipMark = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#979797", Dark: "#6C6C6C"}).
			Render("○")
)

// wrapWidth follows the terminal, capped so help text stays readable on
// wide screens.
func wrapWidth() int {
	width := 80
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	if width > 100 {
		width = 100
	}
	return width
}

func paragraph(s string) string {
	return lipgloss.NewStyle().
		Padding(0, 0, 0, 2).
		Render(wordwrap.String(s, wrapWidth()-4))
}
