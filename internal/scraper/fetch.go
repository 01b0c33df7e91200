package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/sling"

	"github.com/pfrederiksen/add2cal/internal/event"
	"github.com/pfrederiksen/add2cal/internal/logger"
)

const (
	UserAgent = "add2cal/1.0 (github.com/pfrederiksen/add2cal)"
	Accept    = "text/html,application/xhtml+xml"
	Timeout   = 30 * time.Second

	// maxPageBytes caps how much of a page is read
	maxPageBytes = 5 << 20
)

// StatusError reports a non-2xx response from the relay or the event page.
type StatusError struct {
	StatusCode int
	Detail     string // relay {"error": ...} message, if any
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Failed to fetch event page (%d)", e.StatusCode)
}

// relayQuery is the relay's only parameter
type relayQuery struct {
	URL string `url:"url"`
}

// Fetcher downloads event pages, optionally through the page relay, and parses them.
type Fetcher struct {
	client   *http.Client
	relayURL string
	parser   *Parser
}

// NewFetcher creates a Fetcher. With an empty relayURL pages are requested directly.
func NewFetcher(relayURL string, parser *Parser, timeout time.Duration) *Fetcher {
	if parser == nil {
		parser = NewParser()
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		relayURL: relayURL,
		parser:   parser,
	}
}

func (f *Fetcher) request(ctx context.Context, pageURL string) (*http.Request, error) {
	s := sling.New().
		Set("User-Agent", UserAgent).
		Set("Accept", Accept)

	if f.relayURL != "" {
		s = s.Get(f.relayURL).QueryStruct(&relayQuery{URL: pageURL})
	} else {
		s = s.Get(pageURL)
	}

	req, err := s.Request()
	if err != nil {
		return nil, err
	}
	return req.WithContext(ctx), nil
}

// FetchPage returns the raw HTML of an event page
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := f.request(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	logger.Debug("fetching event page", logger.Fields{
		"url":       pageURL,
		"via_relay": f.relayURL != "",
	})

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body) == nil {
			statusErr.Detail = body.Error
		}
		logger.Warn("event page fetch rejected", logger.Fields{
			"url":    pageURL,
			"status": resp.StatusCode,
			"detail": statusErr.Detail,
		})
		return nil, statusErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	return data, nil
}

// FetchEvent fetches an event page and parses it into a record.
func (f *Fetcher) FetchEvent(ctx context.Context, pageURL string) (*event.Event, error) {
	page, err := f.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	evt, err := f.parser.ParseHTML(string(page), pageURL)
	if err != nil {
		return nil, err
	}

	logger.Info("event page parsed", logger.Fields{
		"url":       pageURL,
		"title":     evt.Title,
		"type":      evt.Type,
		"has_dates": evt.HasDates(),
	})
	return evt, nil
}
