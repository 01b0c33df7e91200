package event

import (
	"strings"
	"time"
)

const (
	// DefaultTitle is used when no title source yields text.
	DefaultTitle = "TinkerHub Event"

	// DefaultType is used when neither badges nor keywords name a category.
	DefaultType = "Event"
)

// Types is the fixed category vocabulary recognised on badge elements.
var Types = []string{"Workshop", "Hackathon", "Meetup", "Talk", "Webinar", "Conference", "Bootcamp"}

// IsType reports whether s names a category from Types, ignoring case and surrounding space.
func IsType(s string) bool {
	s = strings.TrimSpace(s)
	for _, t := range Types {
		if strings.EqualFold(s, t) {
			return true
		}
	}
	return false
}

// Event is the normalized record for one event page
type Event struct {
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	Description  string     `json:"description"`
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	RawStartDate string     `json:"raw_start_date,omitempty"`
	RawEndDate   string     `json:"raw_end_date,omitempty"`
	RawStartTime string     `json:"raw_start_time,omitempty"`
	RawEndTime   string     `json:"raw_end_time,omitempty"`
	Location     string     `json:"location"`
	SourceURL    string     `json:"source_url"`
}

// Candidates holds what the extraction passes found on a page, before any
// defaults are applied. Empty strings mean the field was not found.
type Candidates struct {
	Title       string
	Type        string
	Description string
	Location    string
	Tokens      []TimeToken
}

// NewEvent assembles an Event from extraction candidates and resolved times.
// Every field except SourceURL degrades to its documented default.
func NewEvent(c Candidates, times Times, sourceURL string) *Event {
	evt := &Event{
		Title:       c.Title,
		Type:        c.Type,
		Description: c.Description,
		Location:    c.Location,
		SourceURL:   sourceURL,
	}
	if evt.Title == "" {
		evt.Title = DefaultTitle
	}
	if evt.Type == "" {
		evt.Type = DefaultType
	}

	if times.Start.IsZero() {
		return evt
	}

	start, end := times.Start, times.End
	evt.Start = &start
	evt.End = &end
	evt.RawStartDate = times.RawStartDate
	evt.RawStartTime = times.RawStartTime
	evt.RawEndDate = times.RawEndDate
	evt.RawEndTime = times.RawEndTime

	return evt
}

// HasDates reports whether both instants were resolved
func (e *Event) HasDates() bool {
	return e.Start != nil && e.End != nil
}
