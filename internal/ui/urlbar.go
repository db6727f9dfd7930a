package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/cellsurf/internal/theme"
)

// URLBar shows the current location and, when focused, takes a location or
// a gene name.
type URLBar struct {
	input    textinput.Model
	active   bool
	width    int
	location string
}

// NewURLBar creates a new URL bar.
func NewURLBar() URLBar {
	ti := textinput.New()
	ti.Placeholder = "/target/CID000828 or a gene name"
	ti.CharLimit = 512
	ti.Width = 60
	ti.Prompt = ""

	return URLBar{
		input: ti,
	}
}

// SetWidth updates the URL bar width.
func (u *URLBar) SetWidth(w int) {
	u.width = w
	u.input.Width = w - 8 // account for prompt and padding
}

// Focus activates the URL bar for input, prefilled with the location.
func (u *URLBar) Focus() tea.Cmd {
	u.active = true
	u.input.SetValue(u.location)
	u.input.CursorEnd()
	return u.input.Focus()
}

// Blur deactivates the URL bar.
func (u *URLBar) Blur() {
	u.active = false
	u.input.Blur()
}

// IsActive reports whether the URL bar is focused.
func (u *URLBar) IsActive() bool {
	return u.active
}

// Value returns the current input text.
func (u *URLBar) Value() string {
	return strings.TrimSpace(u.input.Value())
}

// SetLocation sets the location shown while the bar is not focused.
func (u *URLBar) SetLocation(loc string) {
	u.location = loc
	if !u.active {
		u.input.SetValue(loc)
	}
}

// Location returns the displayed location.
func (u *URLBar) Location() string {
	return u.location
}

// Reset clears the input.
func (u *URLBar) Reset() {
	u.input.Reset()
}

// Update handles messages for the URL bar.
func (u *URLBar) Update(msg tea.Msg) (*URLBar, tea.Cmd) {
	if !u.active {
		return u, nil
	}
	var cmd tea.Cmd
	u.input, cmd = u.input.Update(msg)
	return u, cmd
}

// View renders the URL bar.
func (u *URLBar) View() string {
	t := theme.Current

	border := t.Border
	fg := t.TextDim
	if u.active {
		border = t.BorderFocus
		fg = t.Text
	}
	barStyle := lipgloss.NewStyle().
		Foreground(fg).
		Background(t.Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(u.width - 2)

	promptStyle := lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	content := promptStyle.Render("◉") + " " + u.input.View()

	return barStyle.Render(content)
}
