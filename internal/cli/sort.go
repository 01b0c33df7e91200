package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/add2cal/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
)

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Title != events[j].Title {
				return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
			}
			// If titles are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by their start
// Returns true if event i should come before event j
func compareByDate(i, j *event.Event) bool {
	// If both dates are valid, compare them
	if i.Start != nil && j.Start != nil {
		if !i.Start.Equal(*j.Start) {
			return i.Start.Before(*j.Start)
		}
		return strings.ToLower(i.Title) < strings.ToLower(j.Title)
	}

	// If only one date is valid, put the valid one first
	if i.Start != nil {
		return true
	}
	if j.Start != nil {
		return false
	}

	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
