package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/search"
	"github.com/vidyasagar/cellsurf/internal/theme"
	"github.com/vidyasagar/cellsurf/internal/ui"
	"github.com/vidyasagar/cellsurf/internal/views"
)

const lookupTimeout = 15 * time.Second

// open handles free-form input: a location starting with "/" is pushed as
// typed, anything else is looked up as a gene name.
func (m *Model) open(input string) tea.Cmd {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "/") {
		return m.goTo(input, browser.ActionPush)
	}
	return m.lookupGene(input)
}

// goTo navigates the active tab and loads wherever it settles.
func (m *Model) goTo(location string, action browser.Action) tea.Cmd {
	s := m.activeSession()
	if s == nil {
		return nil
	}
	s.navigate(location, action)
	return m.load(s)
}

// goInternal navigates to an app path, carrying the current query string
// (and with it ?mode) when the path has none of its own.
func (m *Model) goInternal(path string) tea.Cmd {
	s := m.activeSession()
	if s == nil {
		return nil
	}
	return m.goTo(withQuery(path, s.history.Current().Query), browser.ActionPush)
}

func withQuery(href, query string) string {
	if query == "" || strings.Contains(href, "?") {
		return href
	}
	return href + query
}

func (m *Model) back() tea.Cmd {
	s := m.activeSession()
	if s == nil {
		return nil
	}
	if _, ok := s.back(); !ok {
		m.statusBar.SetMessage("Already at the oldest page")
		return nil
	}
	return m.load(s)
}

func (m *Model) forward() tea.Cmd {
	s := m.activeSession()
	if s == nil {
		return nil
	}
	if _, ok := s.forward(); !ok {
		m.statusBar.SetMessage("Already at the newest page")
		return nil
	}
	return m.load(s)
}

// reload drops cached API responses and loads the current location again.
func (m *Model) reload() tea.Cmd {
	s := m.activeSession()
	if s == nil || s.history.Len() == 0 {
		return nil
	}
	if m.client != nil {
		m.client.Purge()
	}
	return m.load(s)
}

// load starts rendering the session's current location. A newer load for
// the same session supersedes it.
func (m *Model) load(s *session) tea.Cmd {
	st := s.history.Current()
	loc := st.Location()

	s.stop()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.seq++
	s.loading = true

	m.tabBar.SetLocation(s.tabID, loc)
	m.tabBar.SetTitle(s.tabID, "Loading...")
	if m.isActive(s) {
		m.urlBar.SetLocation(loc)
		m.statusBar.SetLoading(true)
		m.statusBar.SetMessage("")
		m.syncStatusBar()
	}

	ld := m.loader
	tabID, seq := s.tabID, s.seq
	selected := s.cellLine
	width := m.width

	return func() tea.Msg {
		page, err := ld.render(ctx, st, selected, width)
		return pageLoadedMsg{tabID: tabID, seq: seq, location: loc, page: page, err: err}
	}
}

// handlePageLoaded shows a finished load unless a newer one replaced it.
func (m Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	s, ok := m.sessions[msg.tabID]
	if !ok || msg.seq != s.seq {
		return m, nil
	}
	s.stop()
	s.loading = false
	active := m.isActive(s)
	if active {
		m.statusBar.SetLoading(false)
	}

	if msg.err != nil {
		m.logger.Warn("page load failed", "location", msg.location, "error", msg.err)
		s.page = nil
		s.viewport.SetContent(errorContent(msg.location, msg.err))
		m.tabBar.SetTitle(s.tabID, "Error")
		if active {
			m.statusBar.SetError(fmt.Sprintf("Error: %s", msg.err))
			m.syncStatusBar()
		}
		return m, nil
	}

	s.page = msg.page
	s.viewport.SetContent(msg.page.Content)
	m.tabBar.SetTitle(s.tabID, msg.page.Title)
	if active {
		m.syncStatusBar()
	}

	if m.visits != nil {
		if err := m.visits.Add(msg.location, msg.page.Title); err != nil {
			m.logger.Warn("recording visit", "location", msg.location, "error", err)
		}
	}
	return m, nil
}

func errorContent(location string, err error) string {
	errStyle := lipgloss.NewStyle().
		Foreground(theme.Current.Error).
		Bold(true).
		Padding(2, 4)
	detailStyle := lipgloss.NewStyle().
		Foreground(theme.Current.TextDim).
		Padding(0, 4)

	return errStyle.Render("Failed to load page") + "\n\n" +
		detailStyle.Render(fmt.Sprintf("Location: %s\nError: %s", location, err))
}

// lookupGene resolves a gene name off the UI loop. The result is applied
// in handleGeneResolved.
func (m *Model) lookupGene(query string) tea.Cmd {
	s := m.activeSession()
	if s == nil {
		return nil
	}
	q := search.Sanitize(query)
	if q == "" {
		return nil
	}

	m.statusBar.SetLoading(true)
	m.statusBar.SetMessage(fmt.Sprintf("Looking up %s...", q))

	r := s.resolver
	tabID := s.tabID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		out, err := r.Resolve(ctx, query)
		return geneResolvedMsg{tabID: tabID, outcome: out, err: err}
	}
}

// handleGeneResolved applies a lookup to the tab that started it.
func (m Model) handleGeneResolved(msg geneResolvedMsg) (tea.Model, tea.Cmd) {
	s, ok := m.sessions[msg.tabID]
	if !ok {
		return m, nil
	}
	active := m.isActive(s)
	if active {
		m.statusBar.SetLoading(false)
	}

	if msg.err != nil {
		m.logger.Warn("gene lookup failed", "query", msg.outcome.Query, "error", msg.err)
		if active {
			m.statusBar.SetError(fmt.Sprintf("Lookup failed: %s", msg.err))
		}
		return m, nil
	}

	s.resolver.Apply(msg.outcome)

	switch msg.outcome.Kind {
	case search.KindNone:
		return m, nil
	case search.KindNotFound:
		md, links := views.NoSearchResults(msg.outcome.Query)
		m.showPage(s, browser.RenderMarkdown("No results", md, links, m.width))
		if active {
			m.statusBar.SetMessage(fmt.Sprintf("No target or gene named %s", msg.outcome.Query))
		}
		return m, nil
	}

	s.settle()
	return m, m.load(s)
}

// showPage puts a page on screen without a history entry. Reload or
// back restores the page at the current location.
func (m *Model) showPage(s *session, page *browser.Page) {
	s.stop()
	s.seq++
	s.loading = false
	s.page = page
	s.viewport.SetContent(page.Content)
	m.tabBar.SetTitle(s.tabID, page.Title)
	if m.isActive(s) {
		m.statusBar.SetLoading(false)
		m.syncStatusBar()
	}
}

// followLink opens the page link with the given number. External links are
// shown, not fetched; gene links are looked up by name.
func (m *Model) followLink(input string) tea.Cmd {
	s := m.activeSession()
	if s == nil || s.page == nil {
		m.statusBar.SetMessage("No page loaded")
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		m.statusBar.SetMessage(fmt.Sprintf("Invalid link number: %s", input))
		return nil
	}
	link, ok := s.link(n)
	if !ok {
		m.statusBar.SetMessage(fmt.Sprintf("Link [%d] not found", n))
		return nil
	}
	if link.Gene != "" {
		return m.lookupGene(link.Gene)
	}
	if !link.Internal() {
		m.statusBar.SetMessage(fmt.Sprintf("External: %s", link.Href))
		return nil
	}
	return m.goInternal(link.Href)
}

// selectCellLine hands a raw id to the controller, as a click on a target
// would.
func (m *Model) selectCellLine(raw string) tea.Cmd {
	s := m.activeSession()
	if s == nil {
		return nil
	}
	if identity.Decode(raw).IsNone() {
		m.statusBar.SetError(fmt.Sprintf("Not a cell line id: %s", raw))
		return nil
	}
	eff := s.controller.SetCellLineID(raw, browser.ActionPush)
	if !eff.Navigates() {
		m.statusBar.SetMessage(fmt.Sprintf("Already showing %s", identity.Encode(s.cellLine)))
		return nil
	}
	s.settle()
	return m.load(s)
}

// openGenePrompt opens the / prompt. The target names it completes are
// fetched the first time it opens.
func (m *Model) openGenePrompt() tea.Cmd {
	m.setMode(ModeGene)
	return tea.Batch(m.commandBar.Open(ui.CommandGene), m.loadTargetNames())
}

// loadTargetNames fetches the completion candidates once per model. It
// returns nil when they are loaded or on their way.
func (m *Model) loadTargetNames() tea.Cmd {
	if m.namesRequested || m.client == nil {
		return nil
	}
	m.namesRequested = true
	client, pubOnly := m.client, m.audience.PublicationReadyOnly()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		names, err := client.TargetNames(ctx, pubOnly)
		if err != nil {
			return targetNamesMsg{err: err}
		}
		out := make([]string, 0, len(names))
		for _, n := range names {
			if n.TargetName != "" {
				out = append(out, n.TargetName)
			}
		}
		return targetNamesMsg{names: out}
	}
}
