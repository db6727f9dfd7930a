package app

import (
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/pages"
	"github.com/vidyasagar/cellsurf/internal/route"
	"github.com/vidyasagar/cellsurf/internal/storage"
	"github.com/vidyasagar/cellsurf/internal/theme"
)

// commandNames are offered by tab completion in command mode.
var commandNames = []string{
	"quit", "open", "home", "targets", "target", "gene", "search", "gallery",
	"fovs", "annotations", "dashboard", "umap", "find",
	"about", "help", "download", "privacy", "contact", "jobs",
	"bookmarks", "bookmark", "history", "clearhistory",
	"theme", "tabnew", "tabclose", "reload", "keys",
}

// commandViews maps the commands that open a view to that view. A command
// whose view the route table lacks is rejected.
var commandViews = map[string]route.View{
	"targets": route.ViewTargets, "search": route.ViewSearch, "gallery": route.ViewGallery,
	"fovs": route.ViewFOVs, "annotations": route.ViewAnnotations,
	"dashboard": route.ViewDashboard, "umap": route.ViewUMAP,
	"about": route.ViewAbout, "help": route.ViewHelp, "download": route.ViewDownload,
	"privacy": route.ViewPrivacy, "contact": route.ViewContact, "jobs": route.ViewJobs,
}

// executeCommand handles :commands.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return m, nil
	}
	name, arg := parts[0], strings.Join(parts[1:], " ")

	if v, ok := commandViews[name]; ok && !m.table.Allows(v) {
		m.statusBar.SetError(fmt.Sprintf("%s is only available in private mode", name))
		return m, nil
	}

	switch name {
	case "q", "quit":
		return m, tea.Quit

	case "o", "open":
		if arg == "" {
			m.statusBar.SetMessage("Usage: :open <location or gene>")
			return m, nil
		}
		return m, m.open(arg)

	case "home":
		return m, m.goInternal("/")

	case "targets":
		return m, m.goInternal("/targets")

	case "target":
		if arg == "" {
			m.statusBar.SetMessage("Usage: :target <CID000828 | OPCT000828 | 828>")
			return m, nil
		}
		return m, m.selectCellLine(arg)

	case "gene":
		if arg == "" {
			m.statusBar.SetMessage("Usage: :gene <name>")
			return m, nil
		}
		return m, m.lookupGene(arg)

	case "search":
		if arg == "" {
			return m, m.goInternal("/search")
		}
		return m, m.goInternal("/search/" + url.PathEscape(arg))

	case "gallery":
		return m, m.goTo(m.galleryLocation(arg), browser.ActionPush)

	case "fovs", "annotations", "dashboard", "umap":
		return m, m.goInternal("/" + name)

	case "about", "help", "download", "privacy", "contact", "jobs":
		return m, m.goInternal("/" + name)

	case "bookmarks", "bm":
		m.showBookmarks(arg)

	case "bookmark":
		m.toggleBookmark()

	case "history":
		m.showHistory(arg)

	case "clearhistory":
		if m.visits == nil {
			m.statusBar.SetMessage("History not available")
			return m, nil
		}
		if err := m.visits.Clear(); err != nil {
			m.statusBar.SetError(fmt.Sprintf("Clearing history: %v", err))
			return m, nil
		}
		m.statusBar.SetMessage("History cleared")

	case "theme":
		if arg == "" {
			m.statusBar.SetMessage(fmt.Sprintf("Current: %s | Available: %s", theme.Current.Name, strings.Join(theme.List(), ", ")))
			return m, nil
		}
		return m, m.setTheme(arg)

	case "tab", "tabnew":
		if arg == "" {
			arg = "/"
		}
		return m, m.newTab(arg)

	case "tabclose", "tc":
		if !m.closeTab() {
			m.statusBar.SetMessage("Cannot close the last tab")
		}

	case "reload":
		return m, m.reload()

	case "find":
		m.find(arg)

	case "keys":
		m.showHelp()

	default:
		m.statusBar.SetError(fmt.Sprintf("Unknown command: %s", name))
	}
	return m, nil
}

// galleryLocation builds the gallery location for a localization filter,
// keeping the current query parameters.
func (m *Model) galleryLocation(localization string) string {
	s := m.activeSession()
	vals := url.Values{}
	if s != nil {
		vals, _ = url.ParseQuery(strings.TrimPrefix(s.history.Current().Query, "?"))
	}
	if localization != "" {
		vals.Set("localization", localization)
	} else {
		vals.Del("localization")
	}
	if len(vals) == 0 {
		return "/gallery"
	}
	return "/gallery?" + vals.Encode()
}

// find marks lines of the active page containing text. An empty text clears
// the marks.
func (m *Model) find(text string) {
	s := m.activeSession()
	if s == nil {
		return
	}
	if text == "" {
		s.viewport.ClearFind()
		m.statusBar.SetMessage("")
		return
	}
	if s.viewport.Find(text) == 0 {
		m.statusBar.SetError(fmt.Sprintf("Not found in page: %s", text))
	} else {
		m.statusBar.SetMessage(s.viewport.MatchInfo())
	}
	m.statusBar.SetScrollInfo(s.viewport.ScrollInfo())
}

// showBookmarks lists the saved bookmarks in the active tab, filtered by
// query when it is not empty.
func (m *Model) showBookmarks(query string) {
	s := m.activeSession()
	if m.bookmarks == nil || s == nil {
		m.statusBar.SetMessage("Bookmarks not available")
		return
	}
	var (
		list []storage.Bookmark
		err  error
	)
	if query == "" {
		list, err = m.bookmarks.List()
	} else {
		list, err = m.bookmarks.Search(query)
	}
	if err != nil {
		m.statusBar.SetError(fmt.Sprintf("Reading bookmarks: %v", err))
		return
	}
	md, links := storage.RenderBookmarks(list, m.now())
	m.showPage(s, browser.RenderMarkdown("Bookmarks", md, links, m.width))
}

// showHelp displays the keybinding reference in the viewport.
func (m *Model) showHelp() {
	s := m.activeSession()
	if s == nil {
		return
	}

	t := theme.Current
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		MarginTop(1)
	keyStyle := lipgloss.NewStyle().
		Foreground(t.Secondary).
		Width(20)
	descStyle := lipgloss.NewStyle().
		Foreground(t.Text)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("cellsurf Keybindings"))
	sb.WriteString("\n\n")

	type binding struct{ k, d string }
	sections := []struct {
		name string
		keys []binding
	}{
		{"Navigation", []binding{
			{"j / Down", "Scroll down"},
			{"k / Up", "Scroll up"},
			{"Ctrl+d", "Half page down"},
			{"Ctrl+u", "Half page up"},
			{"gg", "Go to top"},
			{"G", "Go to bottom"},
			{"n / N", "Next / previous find match"},
		}},
		{"Browsing", []binding{
			{"o", "Open location or gene name"},
			{"/", "Look up a gene name"},
			{"f", "Follow link by number"},
			{"H", "Go back in history"},
			{"L", "Go forward in history"},
			{"r", "Reload page"},
			{"B", "Toggle bookmark"},
			{"Ctrl+h", "Toggle history panel"},
		}},
		{"Tabs", []binding{
			{"Ctrl+t", "New tab"},
			{"Ctrl+w", "Close tab"},
			{"gt / Tab", "Next tab"},
			{"gT / S-Tab", "Previous tab"},
		}},
		{"Modes", []binding{
			{":", "Command mode"},
			{"Space", "Leader key (shortcut palette)"},
			{"?", "Show this help"},
		}},
		{"Commands", []binding{
			{":targets", "Target table"},
			{":target <id>", "Select a cell line"},
			{":gene <name>", "Look up a gene name"},
			{":search <text>", "Full-text search"},
			{":find <text>", "Find in page (n / N for next / previous)"},
			{":gallery [loc]", "Gallery, optionally by localization"},
			{":bookmarks [text]", "List bookmarks"},
			{":history [text]", "Visit history"},
			{":clearhistory", "Clear visit history"},
			{":theme <name>", "Change theme"},
			{":tabnew [loc]", "New tab"},
			{":tabclose", "Close tab"},
			{":" + strings.Join(pages.Names, "|"), "Information pages"},
			{":quit", "Quit cellsurf"},
		}},
	}
	if m.audience.IsPrivate() {
		sections = append(sections, struct {
			name string
			keys []binding
		}{"Internal", []binding{
			{":fovs", "FOVs of the selected cell line"},
			{":annotations", "Annotations of the selected cell line"},
			{":dashboard", "Pipeline dashboard"},
			{":umap", "Localization embedding"},
		}})
	}

	for _, section := range sections {
		sb.WriteString(sectionStyle.Render(section.name))
		sb.WriteString("\n\n")
		for _, b := range section.keys {
			sb.WriteString(keyStyle.Render(b.k))
			sb.WriteString(descStyle.Render(b.d))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	m.showPage(s, &browser.Page{Title: "Help - Keybindings", Content: sb.String()})
}
