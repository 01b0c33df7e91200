package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeToken is a wall-clock moment without a year: month is 0-11, hour 0-23.
type TimeToken struct {
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

var monthIndex = map[string]int{
	"jan": 0, "january": 0,
	"feb": 1, "february": 1,
	"mar": 2, "march": 2,
	"apr": 3, "april": 3,
	"may": 4,
	"jun": 5, "june": 5,
	"jul": 6, "july": 6,
	"aug": 7, "august": 7,
	"sep": 8, "september": 8,
	"oct": 9, "october": 9,
	"nov": 10, "november": 10,
	"dec": 11, "december": 11,
}

// MonthIndex maps a full or three-letter English month name to 0-11.
// Unknown names map to 0 (January).
func MonthIndex(name string) int {
	return monthIndex[strings.ToLower(strings.TrimSpace(name))]
}

// NormalizeHour converts a 1-12 hour and an AM/PM marker to a 0-23 hour.
func NormalizeHour(hour int, meridiem string) int {
	switch strings.ToUpper(strings.TrimSpace(meridiem)) {
	case "PM":
		if hour != 12 {
			return hour + 12
		}
	case "AM":
		if hour == 12 {
			return 0
		}
	}
	return hour
}

// ParseToken builds a TimeToken from the pieces of a matched date/time string.
// It returns false if any numeric part does not parse.
func ParseToken(month, day, hour, minute, meridiem string) (TimeToken, bool) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return TimeToken{}, false
	}
	h, err := strconv.Atoi(hour)
	if err != nil {
		return TimeToken{}, false
	}
	m, err := strconv.Atoi(minute)
	if err != nil {
		return TimeToken{}, false
	}
	return TimeToken{
		Month:  MonthIndex(month),
		Day:    d,
		Hour:   NormalizeHour(h, meridiem),
		Minute: m,
	}, true
}

// Offset is the clock shift from the page's source timezone to the target timezone.
type Offset time.Duration

// Adjust shifts an hour/minute pair by the offset. Minute overflow carries into
// the hour and the hour wraps modulo 24; the calendar day is not moved.
func (o Offset) Adjust(hour, minute int) (int, int) {
	total := hour*60 + minute + int(time.Duration(o)/time.Minute)
	total %= 24 * 60
	if total < 0 {
		total += 24 * 60
	}
	return total / 60, total % 60
}

// Apply returns the token with its clock shifted by the offset.
func (o Offset) Apply(tok TimeToken) TimeToken {
	tok.Hour, tok.Minute = o.Adjust(tok.Hour, tok.Minute)
	return tok
}

// DateLabel formats a token's date as "Jan 15".
func DateLabel(tok TimeToken) string {
	return fmt.Sprintf("%s %d", time.Month(tok.Month + 1).String()[:3], tok.Day)
}

// ClockLabel formats a 0-23 hour and minute as "3:04 PM".
func ClockLabel(hour, minute int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

// Times is the output of Resolver.Resolve. Start is zero when no token was found.
type Times struct {
	Start        time.Time
	End          time.Time
	RawStartDate string
	RawEndDate   string
	RawStartTime string
	RawEndTime   string
}

// Resolver turns extracted time tokens into instants anchored to a fixed-offset zone.
type Resolver struct {
	Shift    Offset         // applied once to every token clock
	Zone     *time.Location // fixed target zone
	Duration time.Duration  // event length when no end token exists
}

// NewResolver creates a Resolver for a target zone sitting target ahead of UTC
// and pages that publish clocks at source ahead of UTC.
func NewResolver(zoneName string, source, target, duration time.Duration) *Resolver {
	return &Resolver{
		Shift:    Offset(target - source),
		Zone:     time.FixedZone(zoneName, int(target/time.Second)),
		Duration: duration,
	}
}

// DefaultResolver resolves UTC page clocks into +05:30 instants with a two hour default length.
func DefaultResolver() *Resolver {
	return NewResolver("IST", 0, 5*time.Hour+30*time.Minute, 2*time.Hour)
}

// Resolve converts the first token into the start instant and the second, if
// present, into the end instant. A start before now moves to the next year; an
// end before the start moves one year past the start's year.
func (r *Resolver) Resolve(tokens []TimeToken, now time.Time) Times {
	if len(tokens) == 0 {
		return Times{}
	}

	first := r.Shift.Apply(tokens[0])
	year := now.In(r.Zone).Year()
	start := r.instant(year, first)
	if start.Before(now) {
		start = r.instant(year+1, first)
	}

	times := Times{
		Start:        start,
		RawStartDate: DateLabel(first),
		RawStartTime: ClockLabel(first.Hour, first.Minute),
	}

	if len(tokens) < 2 {
		times.End = start.Add(r.Duration)
		return times
	}

	second := r.Shift.Apply(tokens[1])
	end := r.instant(start.Year(), second)
	if end.Before(start) {
		end = r.instant(start.Year()+1, second)
	}
	times.End = end
	times.RawEndDate = DateLabel(second)
	times.RawEndTime = ClockLabel(second.Hour, second.Minute)

	return times
}

func (r *Resolver) instant(year int, tok TimeToken) time.Time {
	return time.Date(year, time.Month(tok.Month+1), tok.Day, tok.Hour, tok.Minute, 0, 0, r.Zone)
}
