package scraper

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/add2cal/internal/event"
)

// Parser turns event page HTML into an event.Event
type Parser struct {
	Resolver *event.Resolver
	Marker   string
	Now      func() time.Time
}

// NewParser creates a Parser that resolves UTC page clocks into +05:30 instants
func NewParser() *Parser {
	return &Parser{
		Resolver: event.DefaultResolver(),
		Marker:   RelatedContentMarker,
		Now:      time.Now,
	}
}

// Parse reads a page and builds its event record. The only error is a failure
// to read the HTML; missing fields fall back to defaults.
func (p *Parser) Parse(r io.Reader, sourceURL string) (*event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return p.ParseDocument(doc, sourceURL), nil
}

// ParseHTML is Parse for an in-memory page
func (p *Parser) ParseHTML(page, sourceURL string) (*event.Event, error) {
	return p.Parse(strings.NewReader(page), sourceURL)
}

// ParseDocument builds the event record for an already parsed document.
func (p *Parser) ParseDocument(doc *goquery.Document, sourceURL string) *event.Event {
	text := Normalize(doc, p.Marker)
	candidates := Extract(doc, text)
	times := p.Resolver.Resolve(candidates.Tokens, p.Now())
	return event.NewEvent(candidates, times, sourceURL)
}
