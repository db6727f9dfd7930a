package app

import (
	"context"
	"log/slog"

	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/nav"
	"github.com/vidyasagar/cellsurf/internal/route"
	"github.com/vidyasagar/cellsurf/internal/search"
	"github.com/vidyasagar/cellsurf/internal/ui"
)

// maxSettle bounds the report-back rounds after one navigation at 4. A
// canonicalizing replace followed by its suppressed echo uses 2.
const maxSettle = 4

// session is the state of one tab: its history, the cell line it has
// selected and what is on screen.
type session struct {
	tabID      int
	history    *browser.History
	controller *nav.Controller
	resolver   *search.Resolver
	viewport   ui.PageViewport
	page       *browser.Page
	loading    bool
	cancel     context.CancelFunc
	seq        int // identifies the newest load

	moved    bool
	cellLine identity.CellLineID
	release  []func()
}

func newSession(tabID int, table *route.Table, client *api.Client, m mode.Mode, logger *slog.Logger) *session {
	h := browser.NewHistory(table)
	c := nav.NewController(h, logger.With("tab", tabID))
	s := &session{
		tabID:      tabID,
		history:    h,
		controller: c,
		viewport:   ui.NewPageViewport(),
	}
	s.resolver = search.NewResolver(client, c, h, m, logger)
	s.release = append(s.release,
		h.OnPop(c.HandlePop),
		h.Listen(func(route.State, browser.Action) { s.moved = true }),
		c.Subscribe(func(id identity.CellLineID) { s.cellLine = id }),
	)
	return s
}

// navigate updates the history and settles the selected cell line.
func (s *session) navigate(location string, action browser.Action) route.State {
	s.history.Navigate(location, action)
	return s.settle()
}

// settle lets a cell line page report its id to the controller, as a mounted
// page would, until the location stops moving.
func (s *session) settle() route.State {
	for i := 0; i < maxSettle && s.moved; i++ {
		s.moved = false
		st := s.history.Current()
		if st.ShowsCellLine() {
			s.controller.SetCellLineID(st.RawID, browser.ActionReplace)
		}
	}
	s.moved = false
	return s.history.Current()
}

func (s *session) back() (route.State, bool) {
	if _, ok := s.history.Back(); !ok {
		return route.State{}, false
	}
	return s.settle(), true
}

func (s *session) forward() (route.State, bool) {
	if _, ok := s.history.Forward(); !ok {
		return route.State{}, false
	}
	return s.settle(), true
}

// link returns the page link with the given index.
func (s *session) link(n int) (browser.Link, bool) {
	if s.page == nil {
		return browser.Link{}, false
	}
	for _, l := range s.page.Links {
		if l.Index == n {
			return l, true
		}
	}
	return browser.Link{}, false
}

func (s *session) stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *session) close() {
	s.stop()
	for _, fn := range s.release {
		fn()
	}
	s.release = nil
}
