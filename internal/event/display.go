package event

import (
	"fmt"
	"unicode/utf8"
)

const shortDescriptionLimit = 150

// DisplayDate renders the date line shown for an event, e.g. "Jan 15 - Jan 16, 2027".
// Returns "" when the start is unknown.
func (e *Event) DisplayDate() string {
	if e.Start == nil {
		return ""
	}

	if e.RawStartDate != "" {
		s := e.RawStartDate
		if e.RawEndDate != "" && e.RawEndDate != e.RawStartDate {
			s += " - " + e.RawEndDate
		}
		return fmt.Sprintf("%s, %d", s, e.Start.Year())
	}

	if e.End != nil && e.End.Day() != e.Start.Day() {
		return fmt.Sprintf("%s - %s", e.Start.Format("January 2"), e.End.Format("January 2, 2006"))
	}
	return e.Start.Format("January 2, 2006")
}

// DisplayTime renders the time line shown for an event, e.g. "3:30 AM - 5:30 AM".
func (e *Event) DisplayTime() string {
	if e.Start == nil {
		return ""
	}

	if e.RawStartTime != "" {
		if e.RawEndTime != "" {
			return e.RawStartTime + " - " + e.RawEndTime
		}
		return e.RawStartTime
	}

	s := e.Start.Format("3:04 PM")
	if e.End != nil {
		s += " - " + e.End.Format("3:04 PM")
	}
	return s
}

// DisplayLocation returns the location or a placeholder
func (e *Event) DisplayLocation() string {
	if e.Location == "" {
		return "Location TBA"
	}
	return e.Location
}

// ShortDescription truncates the description to 150 characters for list views.
func (e *Event) ShortDescription() string {
	if e.Description == "" {
		return "No description available."
	}
	if utf8.RuneCountInString(e.Description) <= shortDescriptionLimit {
		return e.Description
	}
	runes := []rune(e.Description)
	return string(runes[:shortDescriptionLimit]) + "..."
}
