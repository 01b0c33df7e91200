package event

import (
	"strings"
	"testing"
	"time"
)

func TestDisplayDate(t *testing.T) {
	start := time.Date(2027, time.January, 15, 9, 0, 0, 0, ist)
	end := time.Date(2027, time.January, 16, 18, 0, 0, 0, ist)

	tests := []struct {
		name string
		evt  Event
		want string
	}{
		{
			name: "no start",
			evt:  Event{},
			want: "",
		},
		{
			name: "raw start only",
			evt:  Event{Start: &start, End: &end, RawStartDate: "Jan 15"},
			want: "Jan 15, 2027",
		},
		{
			name: "raw range",
			evt:  Event{Start: &start, End: &end, RawStartDate: "Jan 15", RawEndDate: "Jan 16"},
			want: "Jan 15 - Jan 16, 2027",
		},
		{
			name: "raw same day",
			evt:  Event{Start: &start, End: &end, RawStartDate: "Jan 15", RawEndDate: "Jan 15"},
			want: "Jan 15, 2027",
		},
		{
			name: "formatted from instants",
			evt:  Event{Start: &start, End: &end},
			want: "January 15 - January 16, 2027",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.evt.DisplayDate(); got != tt.want {
				t.Errorf("DisplayDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayTime(t *testing.T) {
	start := time.Date(2027, time.January, 15, 9, 0, 0, 0, ist)
	end := start.Add(2 * time.Hour)

	tests := []struct {
		name string
		evt  Event
		want string
	}{
		{"raw start", Event{Start: &start, End: &end, RawStartTime: "9:00 AM"}, "9:00 AM"},
		{"raw range", Event{Start: &start, End: &end, RawStartTime: "9:00 AM", RawEndTime: "11:00 AM"}, "9:00 AM - 11:00 AM"},
		{"formatted", Event{Start: &start, End: &end}, "9:00 AM - 11:00 AM"},
		{"unknown", Event{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.evt.DisplayTime(); got != tt.want {
				t.Errorf("DisplayTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayLocation(t *testing.T) {
	if got := (&Event{}).DisplayLocation(); got != "Location TBA" {
		t.Errorf("DisplayLocation() = %q", got)
	}
	if got := (&Event{Location: "Online"}).DisplayLocation(); got != "Online" {
		t.Errorf("DisplayLocation() = %q", got)
	}
}

func TestShortDescription(t *testing.T) {
	if got := (&Event{}).ShortDescription(); got != "No description available." {
		t.Errorf("empty description = %q", got)
	}

	short := "Bring a laptop."
	if got := (&Event{Description: short}).ShortDescription(); got != short {
		t.Errorf("short description = %q", got)
	}

	long := strings.Repeat("a", 200)
	got := (&Event{Description: long}).ShortDescription()
	if len(got) != 153 || !strings.HasSuffix(got, "...") {
		t.Errorf("long description truncated to %d chars: %q", len(got), got)
	}
}
