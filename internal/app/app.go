package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/pages"
	"github.com/vidyasagar/cellsurf/internal/route"
	"github.com/vidyasagar/cellsurf/internal/search"
	"github.com/vidyasagar/cellsurf/internal/storage"
	"github.com/vidyasagar/cellsurf/internal/theme"
	"github.com/vidyasagar/cellsurf/internal/ui"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeInsert       // URL bar focused
	ModeCommand      // command bar active
	ModeFollow       // link follow mode
	ModeGene         // gene name lookup
	ModeHistory      // history panel active
	ModeLeader       // leader key palette active
)

// Options wires the model to its collaborators. Visits, Bookmarks and
// Config may be nil; the features that need them report themselves
// unavailable.
type Options struct {
	Mode      mode.Mode
	Client    *api.Client
	Pages     *pages.Source
	Visits    *storage.VisitStore
	Bookmarks *storage.BookmarkStore
	Config    *storage.Config
	Logger    *slog.Logger

	// Start is the first location ("/target/CID000828?mode=private") or a
	// gene name. Empty opens the landing page.
	Start string
}

// Model is the top-level bubbletea model for cellsurf.
type Model struct {
	// UI components
	tabBar     ui.TabBar
	urlBar     ui.URLBar
	statusBar  ui.StatusBar
	commandBar ui.CommandBar

	// One session per tab.
	sessions map[int]*session

	// Shared state
	audience mode.Mode
	table    *route.Table
	client   *api.Client
	loader   *loader
	keys     KeyMap
	mode     Mode
	width    int
	height   int
	lastGKey bool // for "gg" detection
	ready    bool
	start    string
	logger   *slog.Logger
	now      func() time.Time

	// Storage
	visits    *storage.VisitStore
	bookmarks *storage.BookmarkStore
	config    *storage.Config

	historyPanel ui.HistoryPanel
	leaderPanel  ui.LeaderPanel

	namesRequested bool // target names for / completion
}

// pageLoadedMsg is sent when a page finishes loading.
type pageLoadedMsg struct {
	tabID    int
	seq      int
	location string
	page     *browser.Page
	err      error
}

// geneResolvedMsg is sent when a gene name lookup completes.
type geneResolvedMsg struct {
	tabID   int
	outcome search.Outcome
	err     error
}

// targetNamesMsg carries the names offered by gene lookup completion.
type targetNamesMsg struct {
	names []string
	err   error
}

// leaderTimeoutMsg is sent when the leader key palette times out.
type leaderTimeoutMsg struct{}

// New creates a new cellsurf Model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "app")
	srcs := opts.Pages
	if srcs == nil {
		srcs = pages.NewSource("", nil, logger)
	}

	tb := ui.NewTabBar()
	table := route.NewTable(opts.Mode)

	m := Model{
		tabBar:     tb,
		urlBar:     ui.NewURLBar(),
		statusBar:  ui.NewStatusBar(opts.Mode),
		commandBar: ui.NewCommandBar(commandNames...),
		sessions:   make(map[int]*session),
		audience:   opts.Mode,
		table:      table,
		client:     opts.Client,
		loader: &loader{
			client: opts.Client,
			pages:  srcs,
			mode:   opts.Mode,
			logger: logger,
		},
		keys:         DefaultKeyMap(),
		mode:         ModeNormal,
		start:        opts.Start,
		logger:       logger,
		now:          time.Now,
		visits:       opts.Visits,
		bookmarks:    opts.Bookmarks,
		config:       opts.Config,
		historyPanel: ui.NewHistoryPanel(),
		leaderPanel:  ui.NewLeaderPanel(opts.Mode.IsPrivate()),
	}

	initial := tb.ActiveTab()
	m.sessions[initial.ID] = m.newSession(initial.ID)
	return m
}

func (m *Model) newSession(tabID int) *session {
	return newSession(tabID, m.table, m.client, m.audience, m.logger)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	start := m.start
	if start == "" {
		start = "/"
	}
	return m.open(start)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		if s := m.activeSession(); s != nil && s.page != nil {
			s.viewport.SetContent(s.page.Content)
		}
		return m, nil

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case geneResolvedMsg:
		return m.handleGeneResolved(msg)

	case targetNamesMsg:
		if msg.err != nil {
			m.logger.Warn("loading target names", "error", msg.err)
			m.namesRequested = false
			return m, nil
		}
		m.commandBar.SetGeneNames(msg.names)
		return m, nil

	case leaderTimeoutMsg:
		if m.mode == ModeLeader {
			m.leaderPanel.Hide()
			m.setMode(ModeNormal)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Forward to the viewport for mouse scrolling.
	if s := m.activeSession(); s != nil {
		vp, cmd := s.viewport.Update(msg)
		s.viewport = *vp
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading cellsurf..."
	}

	// Layout:
	// [tab bar]
	// [url bar]
	// [history panel | viewport]
	// [status bar]
	// [command bar] (if active)
	var sections []string
	sections = append(sections, m.tabBar.View())
	sections = append(sections, m.urlBar.View())

	s := m.activeSession()
	switch {
	case s == nil:
		sections = append(sections, "")
	case m.historyPanel.IsVisible():
		dividerStyle := lipgloss.NewStyle().
			Foreground(theme.Current.Border).
			Background(theme.Current.Background)
		lines := make([]string, m.viewportHeight())
		for i := range lines {
			lines[i] = "│"
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			m.historyPanel.View(),
			dividerStyle.Render(strings.Join(lines, "\n")),
			s.viewport.View(),
		))
	default:
		sections = append(sections, s.viewport.View())
	}

	sections = append(sections, m.statusBar.View())
	if m.commandBar.IsActive() {
		sections = append(sections, m.commandBar.View())
	}

	result := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.leaderPanel.IsVisible() {
		result = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.leaderPanel.View(),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(theme.Current.Background),
		)
	}
	return result
}

func (m *Model) viewportHeight() int {
	const tabBarHeight, urlBarHeight, statusBarHeight = 1, 3, 1
	h := m.height - tabBarHeight - urlBarHeight - statusBarHeight
	if m.commandBar.IsActive() {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// layout recalculates dimensions for all components.
func (m *Model) layout() {
	m.tabBar.SetWidth(m.width)
	m.urlBar.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.commandBar.SetWidth(m.width)

	height := m.viewportHeight()
	width := m.width
	if m.historyPanel.IsVisible() {
		panelWidth := m.width * 30 / 100
		if panelWidth < 20 {
			panelWidth = 20
		}
		m.historyPanel.SetSize(panelWidth, height)
		width = m.width - panelWidth - 1
	}

	for _, s := range m.sessions {
		s.viewport.SetSize(width, height)
	}
}

func (m *Model) setMode(md Mode) {
	m.mode = md
	m.statusBar.SetMode(md.String())
}

func (md Mode) String() string {
	switch md {
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "COMMAND"
	case ModeFollow:
		return "FOLLOW"
	case ModeGene:
		return "GENE"
	case ModeHistory:
		return "HISTORY"
	case ModeLeader:
		return "LEADER"
	}
	return "NORMAL"
}

// handleKeyMsg processes key events based on current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeInsert:
		return m.handleInsertMode(msg)
	case ModeCommand, ModeGene, ModeFollow:
		return m.handleCommandMode(msg)
	case ModeHistory:
		return m.handleHistoryMode(msg)
	case ModeLeader:
		return m.handleLeaderMode(msg)
	default:
		return m.handleNormalMode(msg)
	}
}

// handleNormalMode processes keys in normal (browsing) mode.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.activeSession()
	gPressed := m.lastGKey
	m.lastGKey = false

	switch {
	case msg.String() == "q":
		return m, tea.Quit

	// Leader key (Space) opens the shortcut palette.
	case msg.String() == " ":
		m.leaderPanel.SetSize(m.width, m.height)
		m.leaderPanel.Show()
		m.setMode(ModeLeader)
		return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
			return leaderTimeoutMsg{}
		})

	case msg.String() == "g":
		if gPressed {
			if s != nil {
				s.viewport.GotoTop()
				m.syncStatusBar()
			}
			return m, nil
		}
		m.lastGKey = true
		return m, nil

	case msg.String() == "t" && gPressed:
		m.tabBar.NextTab()
		m.syncTabUI()
		return m, nil

	case msg.String() == "T" && gPressed:
		m.tabBar.PrevTab()
		m.syncTabUI()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		if s != nil {
			s.viewport.LineDown(1)
			m.syncStatusBar()
		}
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		if s != nil {
			s.viewport.LineUp(1)
			m.syncStatusBar()
		}
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		if s != nil {
			s.viewport.HalfPageDown()
			m.syncStatusBar()
		}
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		if s != nil {
			s.viewport.HalfPageUp()
			m.syncStatusBar()
		}
		return m, nil

	case key.Matches(msg, m.keys.GotoBottom):
		if s != nil {
			s.viewport.GotoBottom()
			m.syncStatusBar()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextMatch), key.Matches(msg, m.keys.PrevMatch):
		if s == nil {
			return m, nil
		}
		var moved bool
		if key.Matches(msg, m.keys.NextMatch) {
			moved = s.viewport.NextMatch()
		} else {
			moved = s.viewport.PrevMatch()
		}
		m.syncStatusBar()
		if moved {
			m.statusBar.SetMessage(s.viewport.MatchInfo())
		} else {
			m.statusBar.SetMessage("Nothing to find (:find <text>)")
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenLocation):
		m.setMode(ModeInsert)
		return m, m.urlBar.Focus()

	case key.Matches(msg, m.keys.Back):
		return m, m.back()

	case key.Matches(msg, m.keys.Forward):
		return m, m.forward()

	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()

	case key.Matches(msg, m.keys.FollowLink):
		m.setMode(ModeFollow)
		return m, m.commandBar.Open(ui.CommandFollow)

	case key.Matches(msg, m.keys.NewTab):
		return m, m.newTab("/")

	case key.Matches(msg, m.keys.CloseTab):
		if !m.closeTab() {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.tabBar.NextTab()
		m.syncTabUI()
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.tabBar.PrevTab()
		m.syncTabUI()
		return m, nil

	case key.Matches(msg, m.keys.CommandMode):
		m.setMode(ModeCommand)
		return m, m.commandBar.Open(ui.CommandEx)

	case key.Matches(msg, m.keys.GeneLookup):
		return m, m.openGenePrompt()

	case key.Matches(msg, m.keys.Help):
		m.showHelp()
		return m, nil

	case key.Matches(msg, m.keys.Bookmark):
		m.toggleBookmark()
		return m, nil

	case key.Matches(msg, m.keys.HistoryToggle):
		if m.historyPanel.IsVisible() {
			m.hideHistory()
		} else {
			m.showHistory("")
		}
		return m, nil
	}

	if s != nil {
		vp, cmd := s.viewport.Update(msg)
		s.viewport = *vp
		m.syncStatusBar()
		return m, cmd
	}
	return m, nil
}

// handleHistoryMode processes keys when the history panel is active.
func (m Model) handleHistoryMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "g" {
		m.historyPanel.ResetGKey()
	}

	switch msg.String() {
	case "j", "down":
		m.historyPanel.CursorDown()
	case "k", "up":
		m.historyPanel.CursorUp()
	case "g":
		m.historyPanel.HandleGKey()
	case "G":
		m.historyPanel.GotoBottom()
	case "ctrl+d":
		m.historyPanel.HalfPageDown()
	case "ctrl+u":
		m.historyPanel.HalfPageUp()

	case "d":
		entry := m.historyPanel.SelectedEntry()
		if entry == nil || m.visits == nil {
			return m, nil
		}
		if _, err := m.visits.Remove(entry.ID); err != nil {
			m.statusBar.SetError(fmt.Sprintf("Removing visit: %v", err))
			return m, nil
		}
		m.historyPanel.RemoveSelected()

	case "enter":
		entry := m.historyPanel.SelectedEntry()
		if entry == nil {
			return m, nil
		}
		m.hideHistory()
		return m, m.newTab(entry.Path)

	case "esc", "ctrl+h":
		m.hideHistory()
	}
	return m, nil
}

// handleLeaderMode runs the action bound to the key pressed after the
// leader, then returns to normal mode.
func (m Model) handleLeaderMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.leaderPanel.Hide()
	m.setMode(ModeNormal)

	if !m.leaderPanel.Binds(msg.String()) {
		if msg.Type == tea.KeyRunes {
			m.statusBar.SetMessage(fmt.Sprintf("No shortcut for %s", msg.String()))
		}
		return m, nil
	}

	switch msg.String() {
	// Navigate
	case "o":
		m.setMode(ModeInsert)
		return m, m.urlBar.Focus()
	case "b":
		return m, m.back()
	case "f":
		return m, m.forward()
	case "l":
		m.setMode(ModeFollow)
		return m, m.commandBar.Open(ui.CommandFollow)
	case "r":
		return m, m.reload()

	// Explore
	case "/":
		return m, m.openGenePrompt()
	case "s":
		m.setMode(ModeCommand)
		cmd := m.commandBar.Open(ui.CommandEx)
		m.commandBar.SetValue("search ")
		return m, cmd
	case "t":
		return m.executeCommand("targets")
	case "g":
		return m.executeCommand("gallery")
	case "h":
		return m.executeCommand("home")

	// Internal
	case "v":
		return m.executeCommand("fovs")
	case "a":
		return m.executeCommand("annotations")
	case "d":
		return m.executeCommand("dashboard")
	case "u":
		return m.executeCommand("umap")

	// Tools
	case "B":
		return m.executeCommand("bookmarks")
	case "m":
		m.toggleBookmark()
	case "H":
		m.showHistory("")
	case "T":
		return m.cycleTheme()
	case "?":
		m.showHelp()
	}
	return m, nil
}

// handleInsertMode processes keys when the URL bar is focused.
func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.urlBar.Blur()
		m.setMode(ModeNormal)
		return m, nil

	case tea.KeyEnter:
		input := m.urlBar.Value()
		m.urlBar.Blur()
		m.setMode(ModeNormal)
		if input == "" {
			return m, nil
		}
		return m, m.open(input)
	}

	ub, cmd := m.urlBar.Update(msg)
	m.urlBar = *ub
	return m, cmd
}

// handleCommandMode processes keys in command, gene and follow mode.
func (m Model) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commandBar.Close()
		m.setMode(ModeNormal)
		m.layout()
		return m, nil

	case tea.KeyEnter:
		result := m.commandBar.Submit()
		m.setMode(ModeNormal)
		m.layout()
		return m.handleCommandResult(result)
	}

	cb, cmd := m.commandBar.Update(msg)
	m.commandBar = *cb
	return m, cmd
}

// handleCommandResult processes a submitted command bar value.
func (m Model) handleCommandResult(result ui.CommandResult) (tea.Model, tea.Cmd) {
	switch result.Type {
	case ui.CommandEx:
		return m.executeCommand(result.Value)
	case ui.CommandGene:
		return m, m.lookupGene(result.Value)
	case ui.CommandFollow:
		return m, m.followLink(result.Value)
	}
	return m, nil
}

// cycleTheme switches to the next available theme and saves the choice.
func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	themes := theme.List()
	if len(themes) == 0 {
		return m, nil
	}
	next := themes[0]
	for i, name := range themes {
		if name == theme.Current.Name {
			next = themes[(i+1)%len(themes)]
			break
		}
	}
	return m, m.setTheme(next)
}

// setTheme applies a theme, persists it and re-renders the current page.
func (m *Model) setTheme(name string) tea.Cmd {
	if !theme.Set(name) {
		m.statusBar.SetError(fmt.Sprintf("Unknown theme: %s (available: %s)", name, strings.Join(theme.List(), ", ")))
		return nil
	}
	if m.config != nil {
		if err := m.config.SetTheme(name); err != nil {
			m.logger.Warn("saving theme", "theme", name, "error", err)
		}
	}
	cmd := m.reload()
	m.statusBar.SetMessage(fmt.Sprintf("Theme: %s", name))
	return cmd
}

func (m *Model) showHistory(query string) {
	if m.visits == nil {
		m.statusBar.SetMessage("History not available")
		return
	}
	var (
		entries []storage.Visit
		err     error
	)
	if query == "" {
		entries, err = m.visits.List(0)
	} else {
		entries, err = m.visits.Search(query)
	}
	if err != nil {
		m.statusBar.SetError(fmt.Sprintf("Reading history: %v", err))
		return
	}
	m.historyPanel.SetEntries(entries, m.visits.Session())
	m.historyPanel.Show()
	m.setMode(ModeHistory)
	m.layout()
}

func (m *Model) hideHistory() {
	m.historyPanel.Hide()
	m.setMode(ModeNormal)
	m.layout()
}

func (m *Model) toggleBookmark() {
	s := m.activeSession()
	if m.bookmarks == nil || s == nil {
		m.statusBar.SetMessage("Bookmarks not available")
		return
	}
	loc := s.history.Location()
	if loc == "" {
		m.statusBar.SetMessage("No page to bookmark")
		return
	}
	title := loc
	if s.page != nil && s.page.Title != "" {
		title = s.page.Title
	}
	added, err := m.bookmarks.Toggle(loc, title)
	switch {
	case err != nil:
		m.statusBar.SetError(fmt.Sprintf("Bookmark: %v", err))
	case added:
		m.statusBar.SetMessage(fmt.Sprintf("Bookmarked: %s", title))
	default:
		m.statusBar.SetMessage(fmt.Sprintf("Removed bookmark: %s", title))
	}
}

// newTab opens a tab with its own session and loads location in it.
func (m *Model) newTab(location string) tea.Cmd {
	m.tabBar.NewTab()
	tab := m.tabBar.ActiveTab()
	m.sessions[tab.ID] = m.newSession(tab.ID)
	m.layout()
	m.syncTabUI()
	return m.open(location)
}

// closeTab closes the active tab. It reports false for the last tab.
func (m *Model) closeTab() bool {
	tab := m.tabBar.ActiveTab()
	if tab == nil || !m.tabBar.CloseCurrentTab() {
		return false
	}
	if s, ok := m.sessions[tab.ID]; ok {
		s.close()
		delete(m.sessions, tab.ID)
	}
	m.syncTabUI()
	return true
}

// activeSession returns the session of the active tab.
func (m *Model) activeSession() *session {
	tab := m.tabBar.ActiveTab()
	if tab == nil {
		return nil
	}
	return m.sessions[tab.ID]
}

func (m *Model) isActive(s *session) bool {
	tab := m.tabBar.ActiveTab()
	return tab != nil && tab.ID == s.tabID
}

// syncTabUI points the URL bar and status bar at the active tab.
func (m *Model) syncTabUI() {
	s := m.activeSession()
	if s == nil {
		return
	}
	m.urlBar.SetLocation(s.history.Location())
	m.statusBar.SetLoading(s.loading)
	m.statusBar.SetMessage("")
	m.syncStatusBar()
}

// syncStatusBar updates the status bar with the active tab's state.
func (m *Model) syncStatusBar() {
	s := m.activeSession()
	if s == nil {
		return
	}
	m.statusBar.SetScrollInfo(s.viewport.ScrollInfo())
	m.statusBar.SetHistory(s.history.CanGoBack(), s.history.CanGoForward())
	m.statusBar.SetCellLine(identity.Encode(s.cellLine))
	m.tabBar.SetCellLine(s.tabID, identity.Encode(s.cellLine))
	if s.page != nil {
		m.statusBar.SetTitle(s.page.Title)
		m.statusBar.SetLinkCount(len(s.page.Links))
	} else {
		m.statusBar.SetTitle("")
		m.statusBar.SetLinkCount(0)
	}
}
