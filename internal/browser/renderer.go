package browser

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"
	"github.com/vidyasagar/cellsurf/internal/theme"
)

// Cached glamour renderer; building one parses a full style sheet.
var (
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
	cachedRendererStyle string
	rendererMu          sync.Mutex
)

// Page is the terminal-ready output for one location.
type Page struct {
	Location string
	Title    string
	Content  string // styled terminal text
	Links    []Link
}

// Link is a numbered reference on a page. Href is an application path
// ("/target/CID000828") or, for off-site links, an absolute URL.
type Link struct {
	Index int
	Text  string
	Href  string
	Gene  string // when set, following the link looks the gene up instead
}

// Internal reports whether the link points inside the application.
func (l Link) Internal() bool {
	return strings.HasPrefix(l.Href, "/")
}

// ContentWidth is the wrap width used for a viewport of the given width.
func ContentWidth(width int) int {
	if width <= 0 {
		width = 80
	}
	w := width - 4
	if w > 100 {
		w = 100
	}
	return w
}

// RenderMarkdown styles markdown produced by a page view. links are passed
// through unchanged.
func RenderMarkdown(title, md string, links []Link, width int) *Page {
	out, err := renderWithGlamour(md, ContentWidth(width))
	if err != nil {
		out = md
	}
	return &Page{Title: title, Content: out, Links: links}
}

// RenderHTML converts an HTML document into styled terminal text, numbering
// its links. Links under doc.BaseURL are rewritten to application paths.
func RenderHTML(doc *Document, width int) *Page {
	sel, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return &Page{Title: doc.Title, Content: doc.Text}
	}

	w := &mdWriter{base: parseBase(doc.BaseURL)}

	if doc.Title != "" {
		w.sb.WriteString("# " + doc.Title + "\n\n")
	}
	if doc.Byline != "" {
		w.sb.WriteString("*" + doc.Byline + "*\n\n")
	}

	body := sel.Find("body")
	if body.Length() == 0 {
		body = sel.Selection
	}
	body.Children().Each(func(_ int, s *goquery.Selection) {
		w.block(s, 0)
	})

	return RenderMarkdown(doc.Title, w.sb.String(), w.links, width)
}

func renderWithGlamour(md string, width int) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	style := theme.Current.Glamour
	if cachedRenderer == nil || cachedRendererWidth != width || cachedRendererStyle != style {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		cachedRenderer, cachedRendererWidth, cachedRendererStyle = r, width, style
	}

	return cachedRenderer.Render(md)
}

func parseBase(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}

// mdWriter turns an HTML tree into markdown, collecting links as it goes.
type mdWriter struct {
	sb    strings.Builder
	base  *url.URL
	links []Link
}

var headingLevel = map[string]int{"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6}

func (w *mdWriter) block(s *goquery.Selection, depth int) {
	tag := goquery.NodeName(s)
	if lvl, ok := headingLevel[tag]; ok {
		if text := collapse(s.Text()); text != "" {
			w.sb.WriteString(strings.Repeat("#", lvl) + " " + text + "\n\n")
		}
		return
	}

	switch tag {
	case "script", "style", "nav", "noscript", "svg":
	case "p", "figcaption":
		if text := strings.TrimSpace(w.inline(s)); text != "" {
			if tag == "figcaption" {
				text = "*" + text + "*"
			}
			w.sb.WriteString(text + "\n\n")
		}
	case "ul", "ol":
		w.list(s, tag == "ol", depth)
		w.sb.WriteString("\n")
	case "blockquote":
		inner := &mdWriter{base: w.base, links: w.links}
		s.Children().Each(func(_ int, c *goquery.Selection) { inner.block(c, 0) })
		w.links = inner.links
		for _, line := range strings.Split(strings.TrimRight(inner.sb.String(), "\n"), "\n") {
			w.sb.WriteString("> " + line + "\n")
		}
		w.sb.WriteString("\n")
	case "pre":
		w.sb.WriteString("```\n" + strings.TrimRight(s.Text(), "\n") + "\n```\n\n")
	case "hr":
		w.sb.WriteString("---\n\n")
	case "table":
		w.table(s)
	case "img":
		if alt, _ := s.Attr("alt"); alt != "" {
			w.sb.WriteString("*[image: " + alt + "]*\n\n")
		}
	case "div", "article", "section", "main", "header", "footer", "figure", "body":
		s.Children().Each(func(_ int, c *goquery.Selection) { w.block(c, depth) })
	default:
		if text := strings.TrimSpace(w.inline(s)); text != "" {
			w.sb.WriteString(text + "\n\n")
		}
	}
}

func (w *mdWriter) inline(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			sb.WriteString(c.Text())
		case "a":
			sb.WriteString(w.link(c))
		case "strong", "b":
			sb.WriteString("**" + strings.TrimSpace(w.inline(c)) + "**")
		case "em", "i":
			sb.WriteString("*" + strings.TrimSpace(w.inline(c)) + "*")
		case "code":
			sb.WriteString("`" + c.Text() + "`")
		case "br":
			sb.WriteString("  \n")
		case "ul", "ol", "script", "style":
			// nested lists are written by list()
		default:
			sb.WriteString(w.inline(c))
		}
	})
	return sb.String()
}

func (w *mdWriter) link(s *goquery.Selection) string {
	text := collapse(s.Text())
	href, _ := s.Attr("href")
	href = w.resolve(href)
	if text == "" {
		text = href
	}
	if href == "" {
		return text
	}

	idx := len(w.links) + 1
	w.links = append(w.links, Link{Index: idx, Text: text, Href: href})
	return fmt.Sprintf("%s **[%d]**", text, idx)
}

// resolve maps an href to an application path when it points at the site
// the page came from, and to an absolute URL otherwise. Fragments and
// mailto links are dropped.
func (w *mdWriter) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "":
	case "http", "https":
		if w.base == nil || !strings.EqualFold(u.Host, w.base.Host) {
			return u.String()
		}
	default:
		return ""
	}

	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}

func (w *mdWriter) list(s *goquery.Selection, ordered bool, depth int) {
	indent := strings.Repeat("  ", depth)
	s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", i+1)
		}
		w.sb.WriteString(indent + marker + strings.TrimSpace(w.inline(li)) + "\n")
		li.ChildrenFiltered("ul, ol").Each(func(_ int, sub *goquery.Selection) {
			w.list(sub, goquery.NodeName(sub) == "ol", depth+1)
		})
	})
}

func (w *mdWriter) table(s *goquery.Selection) {
	var rows [][]string
	s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.ReplaceAll(strings.TrimSpace(w.inline(cell)), "|", `\|`))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	if len(rows) == 0 {
		return
	}

	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	writeRow := func(r []string) {
		for len(r) < cols {
			r = append(r, "")
		}
		w.sb.WriteString("| " + strings.Join(r, " | ") + " |\n")
	}

	writeRow(rows[0])
	w.sb.WriteString("|" + strings.Repeat(" --- |", cols) + "\n")
	for _, r := range rows[1:] {
		writeRow(r)
	}
	w.sb.WriteString("\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
