package views

import (
	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/mode"
)

// Landing renders the root page.
func Landing(m mode.Mode) (string, []browser.Link) {
	d := &doc{}
	d.h1("OpenCell")
	d.para("Proteome-scale measurements of human protein localization and interactions.")

	d.para(d.link("Targets", "/targets") + " · " +
		d.link("Gallery", "/gallery") + " · " +
		d.link("Data", "/download") + " · " +
		d.link("Help", "/help") + " · " +
		d.link("About", "/about"))

	d.h2("Search")
	d.para("Press `/` and type a gene name to open its profile, or `:search <text>` for a full-text search.")
	d.para("For example: " +
		d.link("MAP4", "/target/CID000828") + ", " +
		d.link("POLR2F", "/target/CID000701") + ", " +
		d.link("chromatin", "/search/chromatin") + ", " +
		d.link("mediator complex", "/search/mediator%20complex"))

	d.h2("Explore by localization")
	for _, loc := range []struct{ label, query string }{
		{"ER", "er"},
		{"Golgi", "golgi"},
		{"Mitochondria", "mitochondria"},
		{"Centrosome", "centrosome"},
		{"Nucleolus", "nucleolus_gc"},
		{"Chromatin", "chromatin"},
	} {
		d.printf("- %s\n", d.link(loc.label, "/gallery?localization="+loc.query))
	}
	d.sb.WriteString("\n")

	if m.IsPrivate() {
		d.h2("Internal")
		d.para(d.link("FOVs", "/fovs") + " · " +
			d.link("Annotations", "/annotations") + " · " +
			d.link("Dashboard", "/dashboard") + " · " +
			d.link("UMAP", "/umap"))
	}

	d.para("We are hiring! See the " + d.link("open positions", "/jobs") + ".")
	return d.result()
}
