package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/pages"
	"github.com/vidyasagar/cellsurf/internal/route"
	"github.com/vidyasagar/cellsurf/internal/views"
)

// loader turns a route into a rendered page. It holds no per-tab state and
// is safe to call from tea.Cmd goroutines.
type loader struct {
	client *api.Client
	pages  *pages.Source
	mode   mode.Mode
	logger *slog.Logger
}

// load renders the page for st. selected is the tab's current cell line,
// used to highlight it in the targets table.
func (l *loader) load(ctx context.Context, st route.State, selected identity.CellLineID, width int) (*browser.Page, error) {
	title, md, links, err := l.markdown(ctx, st, selected)
	if err != nil {
		return nil, err
	}
	page := browser.RenderMarkdown(title, md, links, width)
	page.Location = st.Location()
	return page, nil
}

// markdown returns the title, markdown source and links for st.
func (l *loader) markdown(ctx context.Context, st route.State, selected identity.CellLineID) (string, string, []browser.Link, error) {
	pubOnly := l.mode.PublicationReadyOnly()

	switch st.View {
	case route.ViewLanding:
		md, links := views.Landing(l.mode)
		return "OpenCell", md, links, nil

	case route.ViewTargets:
		lines, err := l.client.CellLines(ctx, pubOnly)
		if err != nil {
			return "", "", nil, err
		}
		n, _ := selected.Int()
		md, links := views.Targets(lines, n, l.mode)
		return "Targets", md, links, nil

	case route.ViewTarget, route.ViewFOVs, route.ViewAnnotations:
		n, ok := st.ID.Int()
		if !ok {
			md, links := noSelection(st.Kind)
			return "No cell line selected", md, links, nil
		}
		p, err := l.client.LoadProfile(ctx, n, api.ProfileOptions{
			PublicationReadyOnly: pubOnly,
			IncludeFOVs:          st.Kind == route.KindFOVs,
			IncludeAnnotation:    st.Kind == route.KindAnnotations,
		})
		if err != nil {
			return "", "", nil, err
		}
		md, links := views.Target(p, st.Kind, l.mode)
		return p.Line.Metadata.TargetName + " " + st.ID.String(), md, links, nil

	case route.ViewInteractor:
		ensg := st.Param(route.ParamEnsgID)
		it, err := l.client.Interactor(ctx, ensg)
		if err != nil {
			return "", "", nil, err
		}
		var network []api.Partner
		if it.Metadata.HasInteractors {
			if network, err = l.client.InteractorNetwork(ctx, ensg); err != nil {
				l.logger.Debug("no interactor network", "ensg_id", ensg, "error", err)
			}
		}
		md, links := views.Interactor(it, network)
		return it.Metadata.TargetName, md, links, nil

	case route.ViewSearch:
		q, err := url.PathUnescape(st.Param(route.ParamQuery))
		if err != nil {
			q = st.Param(route.ParamQuery)
		}
		if strings.TrimSpace(q) == "" {
			md, links := views.SearchPrompt()
			return "Search", md, links, nil
		}
		res, err := l.client.FullTextSearch(ctx, q)
		if err != nil {
			return "", "", nil, err
		}
		md, links := views.SearchResults(q, res)
		return "Search: " + q, md, links, nil

	case route.ViewGallery:
		lines, err := l.client.CellLines(ctx, pubOnly)
		if err != nil {
			return "", "", nil, err
		}
		loc := queryValue(st.Query, "localization")
		md, links := views.Gallery(lines, loc)
		return "Gallery", md, links, nil

	case route.ViewDashboard:
		lines, err := l.client.CellLines(ctx, false)
		if err != nil {
			return "", "", nil, err
		}
		md, links := views.Dashboard(lines)
		return "Dashboard", md, links, nil

	case route.ViewUMAP:
		md, links := views.UMAP()
		return "UMAP", md, links, nil

	case route.ViewNotFound:
		md, links := views.NotFound(st.Location())
		return "Not found", md, links, nil
	}

	return "", "", nil, fmt.Errorf("no renderer for view %q", st.View)
}

// loadStatic renders one of the informational pages.
func (l *loader) loadStatic(ctx context.Context, st route.State, width int) (*browser.Page, error) {
	doc, err := l.pages.Load(ctx, string(st.View))
	if err != nil {
		return nil, err
	}
	page := browser.RenderHTML(doc, width)
	page.Location = st.Location()
	return page, nil
}

// render dispatches to the markdown views or the static pages.
func (l *loader) render(ctx context.Context, st route.State, selected identity.CellLineID, width int) (*browser.Page, error) {
	if pages.Has(string(st.View)) {
		return l.loadStatic(ctx, st, width)
	}
	page, err := l.load(ctx, st, selected, width)
	if errors.Is(err, api.ErrNotFound) {
		l.logger.Info("not found", "location", st.Location(), "error", err)
		md, links := views.NotFound(st.Location())
		page, err = browser.RenderMarkdown("Not found", md, links, width), nil
		page.Location = st.Location()
	}
	return page, err
}

func noSelection(kind route.PageKind) (string, []browser.Link) {
	md := fmt.Sprintf("# No cell line selected\n\nThe %s page shows one cell line. Pick one from the targets table **[1]** or look up a gene with `/`.\n", kind)
	return md, []browser.Link{{Index: 1, Text: "targets table", Href: "/targets"}}
}

func queryValue(query, key string) string {
	vals, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return ""
	}
	return vals.Get(key)
}
