package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the dashboard color scheme.
type Theme struct {
	Name    string
	Dial    lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeCockpit = Theme{
		Name:    "cockpit",
		Dial:    lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Border:  lipgloss.Color("#444466"),
		Warning: lipgloss.Color("#ff4444"),
	}

	ThemeAmber = Theme{
		Name:    "amber",
		Dial:    lipgloss.Color("#ffb000"),
		Accent:  lipgloss.Color("#ffd866"),
		Text:    lipgloss.Color("#ffe8b0"),
		Muted:   lipgloss.Color("#886622"),
		Border:  lipgloss.Color("#553300"),
		Warning: lipgloss.Color("#ff5500"),
	}

	ThemeNight = Theme{
		Name:    "night",
		Dial:    lipgloss.Color("#88aaff"),
		Accent:  lipgloss.Color("#00ff88"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Border:  lipgloss.Color("#223355"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	Themes = []Theme{ThemeCockpit, ThemeAmber, ThemeNight}
)

// GetTheme returns a theme by name, falling back to the first.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(current string) Theme {
	for i, t := range Themes {
		if t.Name == current {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
