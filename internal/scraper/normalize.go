package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RelatedContentMarker starts the recommendation block on event pages.
// Nothing after it describes the event being parsed.
const RelatedContentMarker = "These might interest you"

var spaceRun = regexp.MustCompile(`[ \t\r\n\f]+`)

// Elements rendered on their own line
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true,
	atom.Table: true, atom.Tr: true, atom.Ul: true,
}

// Elements whose content is never rendered
var hiddenElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true,
	atom.Template: true, atom.Head: true,
}

// BodyText renders the text of the document body the way a browser lays it out:
// block elements sit on their own lines while adjacent inline elements run
// together without a separator.
func BodyText(doc *goquery.Document) string {
	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		renderText(&b, n)
	}

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func renderText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(spaceRun.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
		if hiddenElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// Normalize returns the body text up to the first occurrence of marker.
// An empty marker keeps the whole text.
func Normalize(doc *goquery.Document, marker string) string {
	text := BodyText(doc)
	if marker == "" {
		return text
	}
	if i := strings.Index(text, marker); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return text
}
