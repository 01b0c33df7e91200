package cli

import (
	"testing"
	"time"

	"github.com/pfrederiksen/add2cal/internal/event"
)

func at(title string, month time.Month, day int) *event.Event {
	t := time.Date(2027, month, day, 10, 0, 0, 0, ist)
	return &event.Event{Title: title, Start: &t}
}

func titles(events []*event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func TestSortEvents(t *testing.T) {
	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"by date", SortByDate, []string{"b meetup", "Alpha", "c hack", "No date"}},
		{"by title", SortByTitle, []string{"Alpha", "b meetup", "c hack", "No date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []*event.Event{
				at("c hack", time.March, 3),
				{Title: "No date"},
				at("Alpha", time.February, 1),
				at("b meetup", time.January, 20),
			}
			sortEvents(events, tt.order)

			got := titles(events)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSortEvents_UnknownOrderKeepsInput(t *testing.T) {
	events := []*event.Event{at("z", time.March, 1), at("a", time.January, 1)}
	sortEvents(events, SortOrder("random"))
	if events[0].Title != "z" {
		t.Error("unknown sort order should leave events untouched")
	}
}
