// Package session keeps the current event record. Every load is tagged with
// a sequence number so a slow, older load can never replace a newer one.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/pfrederiksen/add2cal/internal/event"
	"github.com/pfrederiksen/add2cal/internal/logger"
	"github.com/pfrederiksen/add2cal/internal/metrics"
)

var (
	// ErrNoSource is returned by Retry before any URL has been attempted.
	ErrNoSource = errors.New("no event URL to retry")
	// ErrStale is returned when a newer load started before this one finished.
	ErrStale = errors.New("superseded by a newer load")
)

// Loader fetches and parses one event page.
type Loader interface {
	FetchEvent(ctx context.Context, pageURL string) (*event.Event, error)
}

// State is a snapshot of the current slot.
type State struct {
	Seq       uint64       `json:"seq"`
	SourceURL string       `json:"source_url,omitempty"`
	Event     *event.Event `json:"event,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Session is the single current-record slot
type Session struct {
	loader  Loader
	Metrics *metrics.Metrics

	mu     sync.Mutex
	latest uint64
	state  State
}

// New creates an empty session
func New(loader Loader) *Session {
	return &Session{loader: loader}
}

// Load runs the pipeline for pageURL. On success the record becomes current;
// on failure only the URL and message are kept so Retry can start over.
func (s *Session) Load(ctx context.Context, pageURL string) (*event.Event, error) {
	s.mu.Lock()
	s.latest++
	seq := s.latest
	s.mu.Unlock()

	evt, err := s.loader.FetchEvent(ctx, pageURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.latest {
		logger.Info("discarding stale event load", logger.Fields{
			"url":    pageURL,
			"seq":    seq,
			"latest": s.latest,
		})
		s.Metrics.ObserveParse(metrics.OutcomeStale)
		return nil, ErrStale
	}

	if err != nil {
		s.state = State{Seq: seq, SourceURL: pageURL, Error: err.Error()}
		s.Metrics.ObserveParse(metrics.OutcomeFetchFailed)
		return nil, err
	}

	s.state = State{Seq: seq, SourceURL: pageURL, Event: evt}
	if evt.HasDates() {
		s.Metrics.ObserveParse(metrics.OutcomeOK)
	} else {
		s.Metrics.ObserveParse(metrics.OutcomeNoDates)
	}
	return evt, nil
}

// Retry reloads the last attempted URL from scratch
func (s *Session) Retry(ctx context.Context) (*event.Event, error) {
	s.mu.Lock()
	src := s.state.SourceURL
	s.mu.Unlock()

	if src == "" {
		return nil, ErrNoSource
	}
	return s.Load(ctx, src)
}

// Current returns the current slot
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
