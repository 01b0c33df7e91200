package event

import (
	"testing"
	"time"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

// june1 is the fixed "now" used across resolver tests.
var june1 = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestNormalizeHour(t *testing.T) {
	tests := []struct {
		hour     int
		meridiem string
		want     int
	}{
		{12, "AM", 0},
		{12, "PM", 12},
		{1, "PM", 13},
		{11, "AM", 11},
		{11, "PM", 23},
		{3, "pm", 15},
		{7, "am", 7},
	}

	for _, tt := range tests {
		if got := NormalizeHour(tt.hour, tt.meridiem); got != tt.want {
			t.Errorf("NormalizeHour(%d, %q) = %d, want %d", tt.hour, tt.meridiem, got, tt.want)
		}
	}
}

func TestMonthIndex(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Jan", 0},
		{"january", 0},
		{"FEB", 1},
		{"May", 4},
		{"September", 8},
		{"sep", 8},
		{"Dec", 11},
		{"Sept", 0}, // not a recognised spelling
		{"Smarch", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthIndex(tt.name); got != tt.want {
				t.Errorf("MonthIndex(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseToken(t *testing.T) {
	tok, ok := ParseToken("Mar", "5", "12", "05", "AM")
	if !ok {
		t.Fatal("ParseToken() returned false for valid input")
	}
	want := TimeToken{Month: 2, Day: 5, Hour: 0, Minute: 5}
	if tok != want {
		t.Errorf("ParseToken() = %+v, want %+v", tok, want)
	}

	if _, ok := ParseToken("Mar", "x", "1", "00", "PM"); ok {
		t.Error("ParseToken() should reject a non-numeric day")
	}
}

func TestOffsetAdjust(t *testing.T) {
	plus530 := Offset(5*time.Hour + 30*time.Minute)

	tests := []struct {
		name       string
		offset     Offset
		hour, min  int
		wantHour   int
		wantMinute int
	}{
		{"wraps past midnight", plus530, 22, 45, 4, 15},
		{"midnight", plus530, 0, 0, 5, 30},
		{"minute carry lands on midnight", plus530, 18, 30, 0, 0},
		{"plain", plus530, 3, 30, 9, 0},
		{"zero offset", 0, 14, 10, 14, 10},
		{"negative offset wraps backwards", Offset(-5*time.Hour - 30*time.Minute), 2, 0, 20, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := tt.offset.Adjust(tt.hour, tt.min)
			if h != tt.wantHour || m != tt.wantMinute {
				t.Errorf("Adjust(%d, %d) = (%d, %d), want (%d, %d)", tt.hour, tt.min, h, m, tt.wantHour, tt.wantMinute)
			}
		})
	}
}

func TestClockLabel(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{0, 5, "12:05 AM"},
		{9, 0, "9:00 AM"},
		{12, 0, "12:00 PM"},
		{13, 0, "1:00 PM"},
		{23, 59, "11:59 PM"},
	}

	for _, tt := range tests {
		if got := ClockLabel(tt.hour, tt.minute); got != tt.want {
			t.Errorf("ClockLabel(%d, %d) = %q, want %q", tt.hour, tt.minute, got, tt.want)
		}
	}
}

func TestDateLabel(t *testing.T) {
	if got := DateLabel(TimeToken{Month: 8, Day: 3}); got != "Sep 3" {
		t.Errorf("DateLabel() = %q, want %q", got, "Sep 3")
	}
}

func TestResolve_NoTokens(t *testing.T) {
	times := DefaultResolver().Resolve(nil, june1)
	if !times.Start.IsZero() || !times.End.IsZero() {
		t.Errorf("expected zero times, got start=%v end=%v", times.Start, times.End)
	}
	if times.RawStartDate != "" || times.RawStartTime != "" {
		t.Error("raw strings should be empty without tokens")
	}
}

func TestResolve_SingleTokenDefaultDuration(t *testing.T) {
	// Aug 20 10:00 AM UTC is 3:30 PM IST, still ahead of June 1.
	tokens := []TimeToken{{Month: 7, Day: 20, Hour: 10, Minute: 0}}

	times := DefaultResolver().Resolve(tokens, june1)

	wantStart := time.Date(2026, time.August, 20, 15, 30, 0, 0, ist)
	if !times.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", times.Start, wantStart)
	}
	if got := times.End.Sub(times.Start); got != 2*time.Hour {
		t.Errorf("end - start = %v, want 2h", got)
	}
	if times.RawStartDate != "Aug 20" {
		t.Errorf("RawStartDate = %q, want %q", times.RawStartDate, "Aug 20")
	}
	if times.RawStartTime != "3:30 PM" {
		t.Errorf("RawStartTime = %q, want %q", times.RawStartTime, "3:30 PM")
	}
	if times.RawEndTime != "" || times.RawEndDate != "" {
		t.Errorf("raw end strings should be empty, got %q / %q", times.RawEndDate, times.RawEndTime)
	}
	if _, offset := times.Start.Zone(); offset != 5*3600+30*60 {
		t.Errorf("start offset = %d, want +05:30", offset)
	}
}

func TestResolve_PastStartMovesToNextYear(t *testing.T) {
	tokens := []TimeToken{{Month: 0, Day: 15, Hour: 3, Minute: 30}}

	times := DefaultResolver().Resolve(tokens, june1)

	want := time.Date(2027, time.January, 15, 9, 0, 0, 0, ist)
	if !times.Start.Equal(want) {
		t.Errorf("start = %v, want %v", times.Start, want)
	}
	if times.Start.Before(june1) {
		t.Error("adjusted start must not be before now")
	}
}

func TestResolve_EndBeforeStartMovesEndYear(t *testing.T) {
	// Dec 30 -> Jan 2 spans New Year.
	tokens := []TimeToken{
		{Month: 11, Day: 30, Hour: 4, Minute: 0},
		{Month: 0, Day: 2, Hour: 6, Minute: 0},
	}

	times := DefaultResolver().Resolve(tokens, june1)

	if times.Start.Year() != 2026 {
		t.Errorf("start year = %d, want 2026", times.Start.Year())
	}
	if times.End.Year() != times.Start.Year()+1 {
		t.Errorf("end year = %d, want %d", times.End.Year(), times.Start.Year()+1)
	}
	if !times.End.After(times.Start) {
		t.Errorf("end %v should be after start %v", times.End, times.Start)
	}
	if times.RawEndDate != "Jan 2" || times.RawEndTime != "11:30 AM" {
		t.Errorf("raw end = %q %q, want %q %q", times.RawEndDate, times.RawEndTime, "Jan 2", "11:30 AM")
	}
}

func TestResolve_EndUsesAdvancedStartYear(t *testing.T) {
	// Both tokens already passed this year, so both land in 2027.
	tokens := []TimeToken{
		{Month: 1, Day: 10, Hour: 4, Minute: 0},
		{Month: 1, Day: 11, Hour: 4, Minute: 0},
	}

	times := DefaultResolver().Resolve(tokens, june1)

	if times.Start.Year() != 2027 || times.End.Year() != 2027 {
		t.Errorf("years = %d/%d, want 2027/2027", times.Start.Year(), times.End.Year())
	}
	if got := times.End.Sub(times.Start); got != 24*time.Hour {
		t.Errorf("end - start = %v, want 24h", got)
	}
}

func TestResolve_HourWrapKeepsCalendarDay(t *testing.T) {
	// 10:45 PM UTC on Aug 20 is 4:15 AM IST on Aug 21; the day is not carried.
	tokens := []TimeToken{{Month: 7, Day: 20, Hour: 22, Minute: 45}}

	times := DefaultResolver().Resolve(tokens, june1)

	want := time.Date(2026, time.August, 20, 4, 15, 0, 0, ist)
	if !times.Start.Equal(want) {
		t.Errorf("start = %v, want %v", times.Start, want)
	}
	if times.RawStartDate != "Aug 20" || times.RawStartTime != "4:15 AM" {
		t.Errorf("raw start = %q %q", times.RawStartDate, times.RawStartTime)
	}
}

func TestResolve_LocalSourceDoesNotShift(t *testing.T) {
	offset := 5*time.Hour + 30*time.Minute
	r := NewResolver("IST", offset, offset, 2*time.Hour)
	tokens := []TimeToken{{Month: 7, Day: 20, Hour: 10, Minute: 0}}

	times := r.Resolve(tokens, june1)

	want := time.Date(2026, time.August, 20, 10, 0, 0, 0, ist)
	if !times.Start.Equal(want) {
		t.Errorf("start = %v, want %v", times.Start, want)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	tokens := []TimeToken{
		{Month: 9, Day: 3, Hour: 8, Minute: 15},
		{Month: 9, Day: 3, Hour: 11, Minute: 0},
	}
	r := DefaultResolver()

	a := r.Resolve(tokens, june1)
	b := r.Resolve(tokens, june1)

	if a != b {
		t.Errorf("Resolve() not deterministic: %+v vs %+v", a, b)
	}
}
