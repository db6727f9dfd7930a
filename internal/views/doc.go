package views

import (
	"fmt"
	"strings"

	"github.com/vidyasagar/cellsurf/internal/browser"
	"github.com/vidyasagar/cellsurf/internal/identity"
)

// doc accumulates markdown and the links it references.
type doc struct {
	sb    strings.Builder
	links []browser.Link
}

// link registers href and returns its inline form, "text **[n]**".
func (d *doc) link(text, href string) string {
	idx := len(d.links) + 1
	d.links = append(d.links, browser.Link{Index: idx, Text: text, Href: href})
	return fmt.Sprintf("%s **[%d]**", text, idx)
}

// lookup registers a link that resolves gene by name when followed, for
// targets known only by name. href is where the name search lands.
func (d *doc) lookup(text, gene string) string {
	idx := len(d.links) + 1
	d.links = append(d.links, browser.Link{Index: idx, Text: text, Href: "/search/" + gene, Gene: gene})
	return fmt.Sprintf("%s **[%d]**", text, idx)
}

func (d *doc) h1(s string) { d.printf("# %s\n\n", s) }
func (d *doc) h2(s string) { d.printf("## %s\n\n", s) }
func (d *doc) h3(s string) { d.printf("### %s\n\n", s) }

func (d *doc) para(s string) {
	if s = strings.TrimSpace(s); s != "" {
		d.sb.WriteString(s + "\n\n")
	}
}

func (d *doc) printf(format string, args ...any) {
	fmt.Fprintf(&d.sb, format, args...)
}

// kv writes a two-column table with no header text.
func (d *doc) kv(rows [][2]string) {
	d.sb.WriteString("| | |\n| --- | --- |\n")
	for _, r := range rows {
		d.printf("| %s | %s |\n", cell(r[0]), cell(r[1]))
	}
	d.sb.WriteString("\n")
}

// table writes a markdown table. Cells are written as given so they may
// contain link markup.
func (d *doc) table(header []string, rows [][]string) {
	d.sb.WriteString("| " + strings.Join(header, " | ") + " |\n")
	d.sb.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, r := range rows {
		d.sb.WriteString("| " + strings.Join(r, " | ") + " |\n")
	}
	d.sb.WriteString("\n")
}

func (d *doc) result() (string, []browser.Link) {
	return d.sb.String(), d.links
}

// targetPath is the profile location for a cell line id.
func targetPath(id int) string {
	return "/target/" + identity.Encode(identity.New(id))
}
