package calendar

import (
	"fmt"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/add2cal/internal/event"
)

const productID = "-//Add2Cal//add2cal//EN"

// GenerateICS generates an iCalendar (.ics) file for an event
func (c *Calendar) GenerateICS(evt *event.Event) (string, error) {
	cal := c.newCalendar()
	if err := c.addEvent(cal, evt); err != nil {
		return "", err
	}
	return cal.Serialize(), nil
}

// GenerateBulkICS generates one calendar holding every event that has dates.
// Events without dates are skipped; it returns "" when none qualify.
func (c *Calendar) GenerateBulkICS(events []*event.Event, calendarName string) string {
	cal := c.newCalendar()
	if calendarName != "" {
		cal.SetXWRCalName(calendarName)
	}

	added := 0
	for _, evt := range events {
		if err := c.addEvent(cal, evt); err != nil {
			continue
		}
		added++
	}
	if added == 0 {
		return ""
	}
	return cal.Serialize()
}

func (c *Calendar) newCalendar() *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ics.MethodPublish)
	return cal
}

func (c *Calendar) addEvent(cal *ics.Calendar, evt *event.Event) error {
	if !evt.HasDates() {
		return ErrNoDates
	}

	now := c.Now().UTC()
	ve := cal.AddEvent(fmt.Sprintf("%d-%s@add2cal", now.UnixMilli(), c.NewID()))
	ve.SetCreatedTime(now)
	ve.SetDtStampTime(now)

	tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{c.TZID}}
	ve.SetProperty(ics.ComponentPropertyDtStart, c.wallClock(*evt.Start), tzid)
	ve.SetProperty(ics.ComponentPropertyDtEnd, c.wallClock(*evt.End), tzid)

	ve.SetSummary(evt.Title)
	ve.SetDescription(details(evt))
	if evt.Location != "" {
		ve.SetLocation(evt.Location)
	}
	ve.SetURL(evt.SourceURL)
	ve.SetStatus(ics.ObjectStatusConfirmed)

	return nil
}
