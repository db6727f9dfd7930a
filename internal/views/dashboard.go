package views

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
)

type count struct {
	name string
	n    int
}

// tally returns counts sorted by descending count, then name.
func tally(m map[string]int) []count {
	out := make([]count, 0, len(m))
	for k, v := range m {
		out = append(out, count{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].name < out[j].name
	})
	return out
}

// Dashboard renders pipeline statistics over all cell lines.
func Dashboard(lines []api.CellLine) (string, []browser.Link) {
	d := &doc{}
	d.h1("Dashboard")

	plates := map[string]int{}
	families := map[string]int{}
	categories := map[string]int{}
	var withPulldown, withFOVs, withAnnotatedFOVs int

	for _, l := range lines {
		plates[orNA(l.Metadata.PlateID)]++
		families[orNA(l.Metadata.TargetFamily)]++
		for _, c := range l.Annotation.Categories {
			categories[c]++
		}
		if l.BestPulldown.ID != nil {
			withPulldown++
		}
		if l.FOVCounts != nil {
			if l.FOVCounts.NumFOVs > 0 {
				withFOVs++
			}
			if l.FOVCounts.NumAnnotatedFOVs > 0 {
				withAnnotatedFOVs++
			}
		}
	}

	d.kv([][2]string{
		{"Cell lines", strconv.Itoa(len(lines))},
		{"With pulldown", strconv.Itoa(withPulldown)},
		{"With FOVs", strconv.Itoa(withFOVs)},
		{"With annotated FOVs", strconv.Itoa(withAnnotatedFOVs)},
	})

	d.h2("Annotation categories")
	writeCounts(d, "Category", tally(categories), func(name string) string {
		return d.link(Category(name), "/gallery?localization="+name)
	})

	d.h2("Target families")
	fams := tally(families)
	if len(fams) > 20 {
		fams = fams[:20]
	}
	writeCounts(d, "Family", fams, nil)

	d.h2("Plates")
	plateCounts := tally(plates)
	sort.Slice(plateCounts, func(i, j int) bool { return plateCounts[i].name < plateCounts[j].name })
	writeCounts(d, "Plate", plateCounts, nil)

	return d.result()
}

func writeCounts(d *doc, label string, counts []count, linkFn func(string) string) {
	if len(counts) == 0 {
		d.para("None.")
		return
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		name := cell(c.name)
		if linkFn != nil {
			name = linkFn(c.name)
		}
		rows = append(rows, []string{name, strconv.Itoa(c.n)})
	}
	d.table([]string{label, "Lines"}, rows)
}

// UMAP renders the placeholder for the embedding view, which needs an
// image-capable frontend.
func UMAP() (string, []browser.Link) {
	d := &doc{}
	d.h1("UMAP")
	d.para("The localization embedding is an interactive image and cannot be shown in a terminal.")
	d.para("Browse the " + d.link("gallery", "/gallery") + " or the " + d.link("target table", "/targets") + " instead.")
	return d.result()
}

// NotFound renders an unmatched location.
func NotFound(location string) (string, []browser.Link) {
	d := &doc{}
	d.h1("Page not found")
	d.para(fmt.Sprintf("Nothing lives at `%s`.", location))
	d.para("Go " + d.link("home", "/") + " or search with `/`.")
	return d.result()
}

// NoSearchResults renders a gene-name search that matched nothing.
func NoSearchResults(query string) (string, []browser.Link) {
	d := &doc{}
	d.h1("No results")
	d.para(fmt.Sprintf("No target or gene is named %q.", query))
	d.para("Try a " + d.link("full-text search", "/search/"+url.PathEscape(query)) + ".")
	return d.result()
}
