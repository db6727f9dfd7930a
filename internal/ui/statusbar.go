package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/theme"
)

// StatusBar shows the input mode, page title, the selected cell line and the
// audience mode at the bottom of the screen.
type StatusBar struct {
	title      string
	cellLine   string
	audience   mode.Mode
	loading    bool
	scrollInfo string
	canBack    bool
	canForward bool
	mode       string
	linkCount  int
	width      int
	message    string // temporary status message
	isError    bool
}

// NewStatusBar creates a new status bar.
func NewStatusBar(audience mode.Mode) StatusBar {
	return StatusBar{
		mode:     "NORMAL",
		audience: audience,
	}
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// SetTitle updates the page title.
func (s *StatusBar) SetTitle(title string) {
	s.title = title
}

// SetCellLine shows the selected cell line id. Empty hides it.
func (s *StatusBar) SetCellLine(id string) {
	s.cellLine = id
}

// SetLoading sets the loading indicator state.
func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

// SetScrollInfo sets the scroll position string (e.g. "42%", "TOP", "BOT").
func (s *StatusBar) SetScrollInfo(info string) {
	s.scrollInfo = info
}

// SetHistory shows which of back and forward are available.
func (s *StatusBar) SetHistory(back, forward bool) {
	s.canBack = back
	s.canForward = forward
}

// SetMode sets the current mode indicator (NORMAL, INSERT, COMMAND, etc).
func (s *StatusBar) SetMode(mode string) {
	s.mode = mode
}

// Mode returns the mode indicator.
func (s *StatusBar) Mode() string {
	return s.mode
}

// SetLinkCount sets the total link count displayed.
func (s *StatusBar) SetLinkCount(n int) {
	s.linkCount = n
}

// SetMessage sets a temporary status message.
func (s *StatusBar) SetMessage(msg string) {
	s.message = msg
	s.isError = false
}

// SetError sets a temporary error message.
func (s *StatusBar) SetError(msg string) {
	s.message = msg
	s.isError = true
}

// Message returns the temporary message.
func (s *StatusBar) Message() string {
	return s.message
}

func (s *StatusBar) modeColor() lipgloss.Color {
	t := theme.Current
	switch s.mode {
	case "NORMAL", "LEADER":
		return t.Primary
	case "INSERT":
		return t.Success
	case "COMMAND":
		return t.Accent
	case "FOLLOW":
		return t.Link
	case "GENE":
		return t.Warning
	default:
		return t.Secondary
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := theme.Current

	modeStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(t.Background).
		Background(s.modeColor())
	modeBadge := modeStyle.Render(s.mode)

	audienceColor := t.ModePublic
	if s.audience.IsPrivate() {
		audienceColor = t.ModePrivate
	}
	audienceBadge := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(t.Background).
		Background(audienceColor).
		Render(s.audience.String())

	barStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface)

	var left string
	switch {
	case s.loading:
		left = lipgloss.NewStyle().
			Foreground(t.Warning).
			Background(t.Surface).
			Bold(true).
			Padding(0, 1).
			Render("Loading...")
	case s.message != "":
		fg := t.Link
		if s.isError {
			fg = t.Error
		}
		left = lipgloss.NewStyle().
			Foreground(fg).
			Background(t.Surface).
			Padding(0, 1).
			Render(s.message)
	case s.title != "":
		left = lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Surface).
			Padding(0, 1).
			Render(s.title)
	}

	rightStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface).
		Padding(0, 1)

	var right string
	if s.cellLine != "" {
		right += lipgloss.NewStyle().
			Foreground(t.Target).
			Background(t.Surface).
			Bold(true).
			Padding(0, 1).
			Render(s.cellLine)
	}
	if s.linkCount > 0 {
		right += rightStyle.Render(fmt.Sprintf("%d links", s.linkCount))
	}
	if s.canBack || s.canForward {
		arrow := func(glyph string, on bool) string {
			fg := t.TextDim
			if on {
				fg = t.Secondary
			}
			return lipgloss.NewStyle().Foreground(fg).Background(t.Surface).Render(glyph)
		}
		right += arrow("‹", s.canBack) + arrow("›", s.canForward)
	}
	right += lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		Background(t.Surface).
		Padding(0, 1).
		Render(s.scrollInfo)
	right += audienceBadge

	spacerWidth := s.width - lipgloss.Width(modeBadge) - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := lipgloss.NewStyle().
		Background(t.Surface).
		Render(fmt.Sprintf("%*s", spacerWidth, ""))

	return barStyle.Render(modeBadge + left + spacer + right)
}
