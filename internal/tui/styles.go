package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/hanabi/internal/deck"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	GameLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	CurrentPlayerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFD700")).
				Bold(true)

	PlayerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	UnknownCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#626262"))
)

var cardStyles = map[deck.Color]lipgloss.Style{
	deck.Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	deck.Blue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5DADE2")).Bold(true),
	deck.Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("#58D68D")).Bold(true),
	deck.Yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")).Bold(true),
	deck.White:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
}

// CardStyle returns the style for cards of colour c
func CardStyle(c deck.Color) lipgloss.Style {
	if s, ok := cardStyles[c]; ok {
		return s
	}
	return UnknownCardStyle
}
