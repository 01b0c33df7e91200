package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/pfrederiksen/add2cal/internal/event"
)

// DefaultTZID is the timezone identifier written into links and files
const DefaultTZID = "Asia/Kolkata"

// wallClockLayout is YYYYMMDDTHHMMSS without a zone designator
const wallClockLayout = "20060102T150405"

// ErrNoDates is returned when an event has no resolved start or end.
var ErrNoDates = errors.New("could not determine event dates")

// Calendar emits links and files for events in one target timezone
type Calendar struct {
	TZID  string
	Zone  *time.Location
	Now   func() time.Time
	NewID func() string
}

// New creates a Calendar writing wall clocks in zone, labelled with tzid.
func New(tzid string, zone *time.Location) *Calendar {
	if tzid == "" {
		tzid = DefaultTZID
	}
	if zone == nil {
		zone = time.FixedZone("IST", 5*3600+30*60)
	}
	return &Calendar{
		TZID: tzid,
		Zone: zone,
		Now:  time.Now,
		NewID: func() string {
			return uuid.NewString()[:8]
		},
	}
}

func (c *Calendar) wallClock(t time.Time) string {
	return t.In(c.Zone).Format(wallClockLayout)
}

// details is the event description followed by a link back to the source page
func details(evt *event.Event) string {
	return fmt.Sprintf("%s\n\nOriginal event: %s", evt.Description, evt.SourceURL)
}

// FileName returns a download name such as "intro-to-robotics.ics".
func FileName(evt *event.Event) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(evt.Title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "event"
	}
	return name + ".ics"
}
