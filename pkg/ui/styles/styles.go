// Package styles contains the colors and styles shared by the terminal UI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/storysort/pkg/sidebar"
)

// Colors.
var (
	Gray        = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	BrightGray  = lipgloss.AdaptiveColor{Light: "#847A85", Dark: "#979797"}
	Cream       = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	YellowGreen = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}
	Fuchsia     = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	DimFuchsia  = lipgloss.AdaptiveColor{Light: "#F1A8FF", Dark: "#99519E"}
	Green       = lipgloss.Color("#04B575")
	Red         = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}

	StatusBarBg = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
	StatusBarFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
)

// Styles.
var (
	GrayFg    = lipgloss.NewStyle().Foreground(Gray).Render
	FuchsiaFg = lipgloss.NewStyle().Foreground(Fuchsia).Render
	RedFg     = lipgloss.NewStyle().Foreground(Red).Render

	LogoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ECFD65")).
			Background(Fuchsia).
			Bold(true).
			Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Fuchsia).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(StatusBarFg).
			Background(StatusBarBg)

	MessageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89F0CB")).
			Background(lipgloss.Color("#1C8760"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Cream).
			Background(Red)

	HelpStyle = lipgloss.NewStyle().
			Foreground(BrightGray).
			Padding(1, 0)
)

// Sidebar returns the sidebar styles used by the UI.
func Sidebar() sidebar.Styles {
	return sidebar.Styles{
		Root:  lipgloss.NewStyle().Bold(true).Foreground(BrightGray),
		Group: lipgloss.NewStyle().Bold(true),
		Story: lipgloss.NewStyle(),
		Docs:  lipgloss.NewStyle().Foreground(YellowGreen),
	}
}
