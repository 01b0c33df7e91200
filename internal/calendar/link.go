package calendar

import (
	"fmt"

	"github.com/google/go-querystring/query"

	"github.com/pfrederiksen/add2cal/internal/event"
)

const (
	// GoogleCalendarURL is the event template endpoint
	GoogleCalendarURL = "https://calendar.google.com/calendar/render"

	androidIntentPrefix = "intent://calendar.google.com/calendar/render"
	androidIntentSuffix = "#Intent;scheme=https;package=com.google.android.calendar;end"
)

type templateQuery struct {
	Action   string `url:"action"`
	Text     string `url:"text"`
	Dates    string `url:"dates"`
	Details  string `url:"details"`
	Location string `url:"location"`
	CTZ      string `url:"ctz"`
}

func (c *Calendar) templateQuery(evt *event.Event) (string, error) {
	if !evt.HasDates() {
		return "", ErrNoDates
	}

	v, err := query.Values(templateQuery{
		Action:   "TEMPLATE",
		Text:     evt.Title,
		Dates:    c.wallClock(*evt.Start) + "/" + c.wallClock(*evt.End),
		Details:  details(evt),
		Location: evt.Location,
		CTZ:      c.TZID,
	})
	if err != nil {
		return "", fmt.Errorf("encoding calendar query: %w", err)
	}
	return v.Encode(), nil
}

// GoogleURL returns the web link that opens a prefilled Google Calendar event.
func (c *Calendar) GoogleURL(evt *event.Event) (string, error) {
	q, err := c.templateQuery(evt)
	if err != nil {
		return "", err
	}
	return GoogleCalendarURL + "?" + q, nil
}

// AndroidIntentURL returns the same template as an intent that opens the
// Google Calendar app directly on Android.
func (c *Calendar) AndroidIntentURL(evt *event.Event) (string, error) {
	q, err := c.templateQuery(evt)
	if err != nil {
		return "", err
	}
	return androidIntentPrefix + "?" + q + androidIntentSuffix, nil
}

// Links holds both calendar links for one event
type Links struct {
	Google  string `json:"google"`
	Android string `json:"android"`
}

// Links builds the web and Android links together.
func (c *Calendar) Links(evt *event.Event) (Links, error) {
	google, err := c.GoogleURL(evt)
	if err != nil {
		return Links{}, err
	}
	android, err := c.AndroidIntentURL(evt)
	if err != nil {
		return Links{}, err
	}
	return Links{Google: google, Android: android}, nil
}
