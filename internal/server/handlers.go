package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pfrederiksen/add2cal/internal/calendar"
	"github.com/pfrederiksen/add2cal/internal/event"
	"github.com/pfrederiksen/add2cal/internal/logger"
	"github.com/pfrederiksen/add2cal/internal/relay"
	"github.com/pfrederiksen/add2cal/internal/scraper"
	"github.com/pfrederiksen/add2cal/internal/session"
	"github.com/pfrederiksen/add2cal/internal/share"
)

// Display holds the strings shown on the event card
type Display struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// EventResponse is the body of a successful parse
type EventResponse struct {
	Event     *event.Event    `json:"event"`
	Display   Display         `json:"display"`
	Links     *calendar.Links `json:"links,omitempty"`
	LinkError string          `json:"link_error,omitempty"`
	EventCode string          `json:"event_code,omitempty"`
}

// ShareResponse is returned by /share when the payload has no URL
type ShareResponse struct {
	Prefill string `json:"prefill"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (d *Deps) eventResponse(evt *event.Event) EventResponse {
	resp := EventResponse{
		Event: evt,
		Display: Display{
			Date:        evt.DisplayDate(),
			Time:        evt.DisplayTime(),
			Location:    evt.DisplayLocation(),
			Description: evt.ShortDescription(),
		},
	}
	links, err := d.Calendar.Links(evt)
	if err != nil {
		resp.LinkError = "Could not determine event dates"
		return resp
	}
	d.Metrics.ObserveCalendar("google")
	d.Metrics.ObserveCalendar("android")
	resp.Links = &links
	return resp
}

// writeFetchError maps a pipeline error onto a JSON error response.
func writeFetchError(w http.ResponseWriter, err error) {
	var statusErr *scraper.StatusError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		relay.WriteError(w, http.StatusGatewayTimeout, "Failed to fetch event details. Please try again.", err.Error())
	case errors.As(err, &statusErr):
		relay.WriteError(w, http.StatusBadGateway, statusErr.Error(), statusErr.Detail)
	default:
		relay.WriteError(w, http.StatusBadGateway, "Failed to fetch event details. Please try again.", err.Error())
	}
}

// validURL rejects URLs the relay would refuse before any fetch happens.
func (d *Deps) validURL(w http.ResponseWriter, pageURL string) bool {
	if status, msg := d.Relay.Validate(pageURL); status != 0 {
		relay.WriteError(w, status, msg, "")
		return false
	}
	return true
}

// HandleEvent loads ?url= into the session and returns the record with its links.
func (d *Deps) HandleEvent(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if !d.validURL(w, pageURL) {
		return
	}

	evt, err := d.Session.Load(r.Context(), pageURL)
	if err != nil {
		logger.Warn("event fetch failed", logger.Fields{"url": pageURL, "error": err.Error()})
		d.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.eventResponse(evt))
}

// HandleICS returns the calendar file for ?url= as a download.
func (d *Deps) HandleICS(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if !d.validURL(w, pageURL) {
		return
	}

	evt, err := d.Fetcher.FetchEvent(r.Context(), pageURL)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	body, err := d.Calendar.GenerateICS(evt)
	if err != nil {
		relay.WriteError(w, http.StatusUnprocessableEntity, "Could not determine event dates", "")
		return
	}
	d.Metrics.ObserveCalendar("ics")

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", calendar.FileName(evt)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// HandleShare resolves a share payload and loads the event into the session.
func (d *Deps) HandleShare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := share.Resolve(share.Payload{
		URL:   q.Get("url"),
		Text:  q.Get("text"),
		Title: q.Get("title"),
	})

	if target.URL == "" {
		writeJSON(w, http.StatusOK, ShareResponse{Prefill: target.Prefill})
		return
	}

	fields := logger.Fields{"url": target.URL}
	if target.Recognised() {
		fields["event_code"] = target.Code
	}
	logger.Info("share target received", fields)

	if !d.validURL(w, target.URL) {
		return
	}

	evt, err := d.Session.Load(r.Context(), target.URL)
	if err != nil {
		d.writeSessionError(w, err)
		return
	}
	resp := d.eventResponse(evt)
	resp.EventCode = target.Code
	writeJSON(w, http.StatusOK, resp)
}

// HandleCurrent returns the session's current slot.
func (d *Deps) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	cur := d.Session.Current()
	if cur.SourceURL == "" {
		relay.WriteError(w, http.StatusNotFound, "No event loaded", "")
		return
	}
	writeJSON(w, http.StatusOK, cur)
}

// HandleRetry re-runs the pipeline for the last attempted URL.
func (d *Deps) HandleRetry(w http.ResponseWriter, r *http.Request) {
	evt, err := d.Session.Retry(r.Context())
	if err != nil {
		d.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.eventResponse(evt))
}

func (d *Deps) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoSource):
		relay.WriteError(w, http.StatusBadRequest, "No event URL to retry", "")
	case errors.Is(err, session.ErrStale):
		relay.WriteError(w, http.StatusConflict, "A newer event was loaded", "")
	default:
		writeFetchError(w, err)
	}
}

// HandleHealthz always reports ok
func (d *Deps) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
