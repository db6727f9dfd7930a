package views

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vidyasagar/cellsurf/internal/api"
	"github.com/vidyasagar/cellsurf/internal/browser"
)

// copiesPerNM converts a concentration in nM to copies per cell.
const copiesPerNM = 602

// SearchPrompt renders /search without a query.
func SearchPrompt() (string, []browser.Link) {
	d := &doc{}
	d.h1("Search for a protein")
	d.para("Type `:search <text>` to search gene and protein names, or `/` for an exact gene name.")
	writeExamples(d)
	return d.result()
}

// SearchResults renders the full-text results for query. Targets link to
// their profile, other genes to the gene page.
func SearchResults(query string, res api.FullTextResult) (string, []browser.Link) {
	d := &doc{}
	d.h1("Search for a protein")

	if len(res.Hits) == 0 {
		d.para(fmt.Sprintf("No results found for the search term %q.", query))
		writeExamples(d)
		return d.result()
	}

	d.para(fmt.Sprintf("%d proteins found for the search term %q.", len(res.Hits), query))
	if res.IsLegacyGeneName && res.ApprovedGeneName != "" {
		d.para(fmt.Sprintf("%q is a previous name of %s.", query, res.ApprovedGeneName))
	}

	rows := make([][]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		href := "/gene/" + h.ENSGID
		if h.PublishedCellLineID != nil {
			href = targetPath(*h.PublishedCellLineID)
		}

		var copies *float64
		if conc := h.Concentration(); conc != nil {
			v := *conc * copiesPerNM
			copies = &v
		}

		rows = append(rows, []string{
			d.link(cell(orNA(h.GeneName)), href),
			cell(truncate(orNA(h.ProteinName), 50)),
			CopyNumber(copies),
			Concentration(h.Concentration()),
			strings.TrimSpace(h.Status),
		})
	}
	d.table([]string{"Gene name", "Protein name", "Copies/cell", "Conc. (nM)", "Status"}, rows)
	return d.result()
}

func writeExamples(d *doc) {
	examples := []string{"MAP4", "POLR2", "chromatin", "mediator complex"}
	parts := make([]string, len(examples))
	for i, e := range examples {
		parts[i] = d.link(e, "/search/"+url.PathEscape(strings.ToLower(e)))
	}
	d.para("For example: " + strings.Join(parts, ", "))
}
