package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/vidyasagar/cellsurf/internal/theme"
)

// PageViewport scrolls a rendered page. It shows a welcome screen until the
// first page arrives and can find text in the page, marking matching lines
// in a gutter.
type PageViewport struct {
	viewport viewport.Model
	ready    bool
	content  string
	lines    []string // content without styling, for find
	hasPage  bool

	query   string
	matches []int // line numbers
	current int
}

// NewPageViewport creates a new viewport (dimensions set on first WindowSizeMsg).
func NewPageViewport() PageViewport {
	return PageViewport{}
}

// SetSize updates the viewport dimensions.
func (pv *PageViewport) SetSize(width, height int) {
	if !pv.ready {
		pv.viewport = viewport.New(width, height)
		pv.viewport.MouseWheelEnabled = true
		pv.viewport.MouseWheelDelta = 3
		pv.ready = true
		if pv.hasPage {
			pv.render()
		}
		return
	}
	pv.viewport.Width = width
	pv.viewport.Height = height
}

// SetContent replaces the page and clears any find.
func (pv *PageViewport) SetContent(content string) {
	pv.content = content
	pv.lines = strings.Split(ansi.Strip(content), "\n")
	pv.hasPage = true
	pv.ClearFind()
	pv.GotoTop()
}

// Find marks the lines containing query, ignoring case, and scrolls to the
// first one. It returns the number of matching lines.
func (pv *PageViewport) Find(query string) int {
	pv.query = strings.TrimSpace(query)
	pv.matches = pv.matches[:0]
	pv.current = 0
	if pv.query == "" {
		pv.render()
		return 0
	}
	q := strings.ToLower(pv.query)
	for i, line := range pv.lines {
		if strings.Contains(strings.ToLower(line), q) {
			pv.matches = append(pv.matches, i)
		}
	}
	pv.render()
	pv.scrollToMatch()
	return len(pv.matches)
}

// NextMatch moves to the next match, wrapping at the end. It reports
// whether there is any match.
func (pv *PageViewport) NextMatch() bool {
	return pv.step(1)
}

// PrevMatch moves to the previous match, wrapping at the start.
func (pv *PageViewport) PrevMatch() bool {
	return pv.step(-1)
}

func (pv *PageViewport) step(d int) bool {
	n := len(pv.matches)
	if n == 0 {
		return false
	}
	pv.current = (pv.current + d + n) % n
	pv.render()
	pv.scrollToMatch()
	return true
}

// ClearFind drops the find and its marks.
func (pv *PageViewport) ClearFind() {
	pv.query = ""
	pv.matches = nil
	pv.current = 0
	pv.render()
}

// MatchInfo describes the find position, e.g. "MAP4 2/5". It is empty
// when nothing is being found.
func (pv *PageViewport) MatchInfo() string {
	switch {
	case pv.query == "":
		return ""
	case len(pv.matches) == 0:
		return pv.query + " 0/0"
	}
	return fmt.Sprintf("%s %d/%d", pv.query, pv.current+1, len(pv.matches))
}

// CurrentMatchLine returns the line of the current match, or -1.
func (pv *PageViewport) CurrentMatchLine() int {
	if len(pv.matches) == 0 {
		return -1
	}
	return pv.matches[pv.current]
}

func (pv *PageViewport) scrollToMatch() {
	if !pv.ready || len(pv.matches) == 0 {
		return
	}
	line := pv.matches[pv.current]
	off := pv.viewport.YOffset
	if line < off || line >= off+pv.viewport.Height {
		pv.viewport.SetYOffset(line - pv.viewport.Height/3)
	}
}

// render pushes the page into the viewport, with a two column gutter
// marking matches while a find is active.
func (pv *PageViewport) render() {
	if !pv.ready || !pv.hasPage {
		return
	}
	if pv.query == "" {
		pv.viewport.SetContent(pv.content)
		return
	}

	t := theme.Current
	mark := lipgloss.NewStyle().Foreground(t.Accent).Render("▌ ")
	cur := lipgloss.NewStyle().Foreground(t.Warning).Bold(true).Render("▶ ")

	hit := make(map[int]bool, len(pv.matches))
	for _, i := range pv.matches {
		hit[i] = true
	}
	current := pv.CurrentMatchLine()

	lines := strings.Split(pv.content, "\n")
	var sb strings.Builder
	for i, line := range lines {
		switch {
		case i == current:
			sb.WriteString(cur)
		case hit[i]:
			sb.WriteString(mark)
		default:
			sb.WriteString("  ")
		}
		sb.WriteString(line)
		if i < len(lines)-1 {
			sb.WriteByte('\n')
		}
	}
	pv.viewport.SetContent(sb.String())
}

// Update forwards messages to the viewport.
func (pv *PageViewport) Update(msg tea.Msg) (*PageViewport, tea.Cmd) {
	if !pv.ready {
		return pv, nil
	}
	var cmd tea.Cmd
	pv.viewport, cmd = pv.viewport.Update(msg)
	return pv, cmd
}

// View renders the viewport.
func (pv *PageViewport) View() string {
	if !pv.ready {
		return "\n  Initializing..."
	}
	if !pv.hasPage {
		return pv.renderWelcome()
	}
	return pv.viewport.View()
}

// ScrollInfo returns "TOP", "BOT" or the scroll percentage.
func (pv *PageViewport) ScrollInfo() string {
	if !pv.ready {
		return "TOP"
	}
	pct := pv.viewport.ScrollPercent()
	switch {
	case pct <= 0:
		return "TOP"
	case pct >= 1:
		return "BOT"
	default:
		return fmt.Sprintf("%d%%", int(pct*100))
	}
}

// HalfPageDown scrolls down half a page.
func (pv *PageViewport) HalfPageDown() {
	if pv.ready {
		pv.viewport.HalfViewDown()
	}
}

// HalfPageUp scrolls up half a page.
func (pv *PageViewport) HalfPageUp() {
	if pv.ready {
		pv.viewport.HalfViewUp()
	}
}

// LineDown scrolls down n lines.
func (pv *PageViewport) LineDown(n int) {
	if pv.ready {
		pv.viewport.LineDown(n)
	}
}

// LineUp scrolls up n lines.
func (pv *PageViewport) LineUp(n int) {
	if pv.ready {
		pv.viewport.LineUp(n)
	}
}

// GotoTop scrolls to the top.
func (pv *PageViewport) GotoTop() {
	if pv.ready {
		pv.viewport.GotoTop()
	}
}

// GotoBottom scrolls to the bottom.
func (pv *PageViewport) GotoBottom() {
	if pv.ready {
		pv.viewport.GotoBottom()
	}
}

// YOffset is the first visible line.
func (pv *PageViewport) YOffset() int {
	if !pv.ready {
		return 0
	}
	return pv.viewport.YOffset
}

func (pv *PageViewport) renderWelcome() string {
	t := theme.Current
	title := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Secondary)
	desc := lipgloss.NewStyle().Foreground(t.Text)

	logo := `
              _ _                  __
     ___ ___ | | |___ _   _ _ __ / _|
    / __/ _ \| | / __| | | | '__| |_
   | (_|  __/| | \__ \ |_| | |  |  _|
    \___\___||_|_|___/\__,_|_|  |_|
`

	var sb strings.Builder
	sb.WriteString(title.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(dim.Render("  The OpenCell proteome atlas in your terminal"))
	sb.WriteString("\n\n")
	sb.WriteString(accent.Render("  Quick Start"))
	sb.WriteString("\n\n")

	for _, s := range [][2]string{
		{"/", "Look up a gene name"},
		{":target <id>", "Select a cell line"},
		{":targets", "All tagged proteins"},
		{":find <text>", "Find in page, then n / N"},
		{"f", "Follow link by number"},
		{"H / L", "Go back / forward"},
		{"Space", "Shortcut palette"},
		{"?", "Show all keybindings"},
		{"q", "Quit"},
	} {
		sb.WriteString(keyStyle.Render(fmt.Sprintf("    %-14s", s[0])))
		sb.WriteString(desc.Render(s[1]))
		sb.WriteString("\n")
	}
	return sb.String()
}
