package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cinepedia/cinepedia/internal/tui/styles"
)

const modalWidth = 44

// SuggestFunc returns completions for the current input
type SuggestFunc func(input string) []string

// InputModal is a single-line prompt with optional suggestions.
// Tab accepts the highlighted suggestion.
type InputModal struct {
	visible  bool
	title    string
	input    textinput.Model
	suggest  SuggestFunc
	options  []string
	selected int
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = modalWidth - 2
	ti.Prompt = "> "

	return InputModal{input: ti}
}

// Show displays the modal with a title and placeholder. suggest may be nil.
func (m *InputModal) Show(title, placeholder string, suggest SuggestFunc) {
	m.visible = true
	m.title = title
	m.suggest = suggest
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	m.refreshOptions()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.options = nil
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Title returns the title the modal was opened with
func (m InputModal) Title() string {
	return m.title
}

// Value returns the trimmed input value
func (m InputModal) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// SetValue replaces the input text
func (m *InputModal) SetValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
	m.refreshOptions()
}

// Suggestions returns the options currently offered
func (m InputModal) Suggestions() []string {
	return m.options
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		case "tab":
			if len(m.options) > 0 {
				m.SetValue(m.options[m.selected])
			}
			return m, nil, false
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil, false
		case "down", "ctrl+n":
			if m.selected < len(m.options)-1 {
				m.selected++
			}
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refreshOptions()
	}
	return m, cmd, false
}

func (m *InputModal) refreshOptions() {
	m.selected = 0
	if m.suggest == nil {
		m.options = nil
		return
	}
	m.options = m.suggest(m.input.Value())
}

// View renders the input modal
func (m InputModal) View(theme styles.Theme) string {
	if !m.visible {
		return ""
	}

	lines := []string{
		theme.Title.Width(modalWidth).Render(m.title),
		"",
		m.input.View(),
	}

	if len(m.options) > 0 {
		lines = append(lines, "", theme.Dim.Render("recent"))
		for i, opt := range m.options {
			opt = styles.Truncate(opt, modalWidth-2)
			if i == m.selected {
				lines = append(lines, theme.Accent.Render("› "+opt))
			} else {
				lines = append(lines, theme.Subtitle.Render("  "+opt))
			}
		}
	}

	return theme.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
