// Package share resolves the payload of an OS share action into the event
// URL to load.
package share

import (
	"regexp"
	"strings"
)

var (
	urlPattern       = regexp.MustCompile(`https?://\S+`)
	eventPathPattern = regexp.MustCompile(`(?i)tinkerhub\.org/events/([A-Z0-9]+)/`)
)

// Payload is what a share action delivers. Any field may be empty.
type Payload struct {
	URL   string `json:"url,omitempty"`
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
}

// Target is the outcome of resolving a Payload.
type Target struct {
	// URL is the page to load; empty when the payload carried none.
	URL string `json:"url,omitempty"`
	// Code is the event code when URL has the event page shape.
	Code string `json:"code,omitempty"`
	// Prefill is the shared text to offer for manual entry when URL is empty.
	Prefill string `json:"prefill,omitempty"`
}

// Recognised reports whether the URL has the event page shape.
func (t Target) Recognised() bool {
	return t.Code != ""
}

// Resolve picks the URL field, or else the first http(s) URL inside the text.
// A single trailing "?" is dropped.
func Resolve(p Payload) Target {
	u := p.URL
	if u == "" && p.Text != "" {
		u = urlPattern.FindString(p.Text)
	}
	u = strings.TrimSpace(strings.TrimSuffix(u, "?"))

	if u == "" {
		return Target{Prefill: p.Text}
	}

	code, _ := EventCode(u)
	return Target{URL: u, Code: code}
}

// EventCode extracts the code from a tinkerhub.org/events/{CODE}/ URL.
func EventCode(u string) (string, bool) {
	m := eventPathPattern.FindStringSubmatch(u)
	if m == nil {
		return "", false
	}
	return m[1], true
}
