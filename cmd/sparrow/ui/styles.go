// Package ui provides the visual styling for the sparrownet console.
// The default look is green phosphor on a dark tube; a light "printout"
// theme exists for pale terminals.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Phosphor (dark) colors, the default
	PhosphorBackground = lipgloss.Color("#081008")
	PhosphorForeground = lipgloss.Color("#9fe88d")
	PhosphorPrimary    = lipgloss.Color("#33cc66") // bright phosphor green
	PhosphorAccent     = lipgloss.Color("#ffb347") // amber, the second CRT color
	PhosphorSecondary  = lipgloss.Color("#12301a")
	PhosphorMuted      = lipgloss.Color("#4a7a55")
	PhosphorBorder     = lipgloss.Color("#1e4a2a")
	PhosphorCard       = lipgloss.Color("#0d1f12")

	// Printout (light) colors
	PrintoutBackground = lipgloss.Color("#f2f0e9") // fanfold paper
	PrintoutForeground = lipgloss.Color("#1a241c")
	PrintoutPrimary    = lipgloss.Color("#1f6f3d") // ribbon green
	PrintoutAccent     = lipgloss.Color("#b3541e")
	PrintoutSecondary  = lipgloss.Color("#e3e0d3")
	PrintoutMuted      = lipgloss.Color("#8a9288")
	PrintoutBorder     = lipgloss.Color("#cfcab8")
	PrintoutCard       = lipgloss.Color("#ffffff")

	// Semantic colors (same in both themes)
	Destructive = lipgloss.Color("#e5484d")
	Success     = lipgloss.Color("#33cc66")
	Warning     = lipgloss.Color("#ffb347")
	Info        = lipgloss.Color("#4aa8d8")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// DarkTheme returns the phosphor theme
func DarkTheme() Theme {
	return Theme{
		Background: PhosphorBackground,
		Foreground: PhosphorForeground,
		Primary:    PhosphorPrimary,
		Accent:     PhosphorAccent,
		Secondary:  PhosphorSecondary,
		Muted:      PhosphorMuted,
		Border:     PhosphorBorder,
		Card:       PhosphorCard,
		IsDark:     true,
	}
}

// LightTheme returns the printout theme
func LightTheme() Theme {
	return Theme{
		Background: PrintoutBackground,
		Foreground: PrintoutForeground,
		Primary:    PrintoutPrimary,
		Accent:     PrintoutAccent,
		Secondary:  PrintoutSecondary,
		Muted:      PrintoutMuted,
		Border:     PrintoutBorder,
		Card:       PrintoutCard,
		IsDark:     false,
	}
}

// DetectTheme picks a theme from the environment. A night-shift console
// defaults to phosphor; only a clearly light terminal gets the printout.
// TODO: query the terminal background via OSC 11 instead of COLORFGBG.
func DetectTheme() Theme {
	switch os.Getenv("SPARROWNET_THEME") {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}

	colorTerm := os.Getenv("COLORFGBG")
	if colorTerm != "" {
		// Format is usually "foreground;background".
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			// ANSI index 7 and the bright colors 9-15 are light backgrounds;
			// 0-6 and 8 (dark grey) are dark.
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if bgIdx == 7 || bgIdx >= 9 {
					return LightTheme()
				}
			}
		}
	}

	return DarkTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Interactive
	Prompt    lipgloss.Style
	UserInput lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Overlay lipgloss.Style
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		// Layout styles
		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Background).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		// Text styles
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		// Interactive styles
		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		// Status styles
		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		// Component styles
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 2),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(theme.Background).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles with the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
