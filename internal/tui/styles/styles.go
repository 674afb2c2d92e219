package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Fixed colors shared by every theme
var (
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Blue      = lipgloss.Color("#3B82F6")
	Amber     = lipgloss.Color("#F59E0B")
)

// Palette is the four-color scheme of one theme
type Palette struct {
	Background  lipgloss.Color
	Text        lipgloss.Color
	Accent      lipgloss.Color
	AccentLight lipgloss.Color
}

var palettes = map[string]Palette{
	"default":   {"#0f0f1a", "#f8f9fa", "#6a11cb", "#2575fc"},
	"day":       {"#fcfcfd", "#1a1a2e", "#0070f3", "#3291ff"},
	"neon":      {"#050505", "#f0f8ff", "#39ff14", "#00ffff"},
	"amoled":    {"#000000", "#ffffff", "#ff0033", "#ff4d4d"},
	"glass":     {"#070712", "#ffffff", "#00aaff", "#0066ff"},
	"vhs":       {"#1e003c", "#e0e0e0", "#ff00cc", "#00ffff"},
	"forest":    {"#0d1a0d", "#f1f8e9", "#4caf50", "#8bc34a"},
	"superhero": {"#1a237e", "#ffeb3b", "#f44336", "#ff9800"},
	"anime":     {"#fff0f5", "#ff4081", "#ff69b4", "#f06292"},
}

// PaletteFor returns the palette of theme, or the default palette
func PaletteFor(theme string) Palette {
	if p, ok := palettes[strings.ToLower(theme)]; ok {
		return p
	}
	return palettes["default"]
}

// Theme is the full style set derived from one palette
type Theme struct {
	Name    string
	Palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Dim      lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Info     lipgloss.Style

	SelectedItem lipgloss.Style
	NormalItem   lipgloss.Style
	Match        lipgloss.Style
	MatchOnSel   lipgloss.Style

	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Panel       lipgloss.Style
	Banner      lipgloss.Style
	Modal       lipgloss.Style
	Badge       lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	ProgressFull  lipgloss.Style
	ProgressEmpty lipgloss.Style
}

// ForTheme builds the style set for the named theme
func ForTheme(name string) Theme {
	p := PaletteFor(name)

	return Theme{
		Name:    strings.ToLower(name),
		Palette: p,

		Title: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(LightGray),
		Dim: lipgloss.NewStyle().
			Foreground(DimGray),
		Accent: lipgloss.NewStyle().
			Foreground(p.AccentLight),
		Error: lipgloss.NewStyle().
			Foreground(Red),
		Success: lipgloss.NewStyle().
			Foreground(Green),
		Info: lipgloss.NewStyle().
			Foreground(Blue),

		SelectedItem: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Accent).
			Padding(0, 1),
		NormalItem: lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1),
		Match: lipgloss.NewStyle().
			Foreground(p.AccentLight).
			Bold(true),
		MatchOnSel: lipgloss.NewStyle().
			Foreground(p.AccentLight).
			Background(p.Accent).
			Bold(true),

		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Accent).
			Bold(true).
			Padding(0, 1),
		InactiveTab: lipgloss.NewStyle().
			Foreground(DimGray).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Banner: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.AccentLight).
			Bold(true).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.AccentLight).
			Padding(1, 2),
		Badge: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Accent).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(p.AccentLight),
		HelpDesc: lipgloss.NewStyle().
			Foreground(DimGray),

		ProgressFull: lipgloss.NewStyle().
			Foreground(p.AccentLight),
		ProgressEmpty: lipgloss.NewStyle().
			Foreground(DimGray),
	}
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// RenderProgressBar renders a progress bar
func (t Theme) RenderProgressBar(percent int, width int) string {
	if width < 3 {
		return ""
	}

	filled := width * percent / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return t.ProgressFull.Render(strings.Repeat("█", filled)) +
		t.ProgressEmpty.Render(strings.Repeat("░", width-filled))
}
