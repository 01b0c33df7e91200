package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/pfrederiksen/add2cal/internal/event"
)

const monthNames = `(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

var (
	// "Jan 10 3:30 AM" or the squashed "Jan 103:30 AM"
	dateTimePattern = regexp.MustCompile(`(?i)` + monthNames + `\s*(\d{1,2})\s*(\d{1,2}):(\d{2})\s*(AM|PM)`)

	// Split layout: date and clock rendered in separate places
	monthDayPattern = regexp.MustCompile(`(?i)` + monthNames + `\s*(\d{1,2})\b`)
	clockPattern    = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(AM|PM)`)

	titleSuffixPattern = regexp.MustCompile(`(?i)\s*[»|]\s*TinkerHub$`)
	venuePattern       = regexp.MustCompile(`(?i)(?:Location|Venue):\s*([^\n]+)`)
)

var (
	headingMatcher   = cascadia.MustCompile(`h1, h2`)
	badgeMatcher     = cascadia.MustCompile(`[class*="badge"], [class*="tag"], [class*="chip"]`)
	addressMatcher   = cascadia.MustCompile(`.address`)
	labelMatcher     = cascadia.MustCompile(`div, span, p, h4, h5`)
	organizerMatcher = cascadia.MustCompile(`[class*="badge"], a, span:not(:first-child)`)
)

// typeKeywords are searched in the body text in priority order and override badges.
var typeKeywords = []string{"Workshop", "Hackathon", "Meetup"}

const organizerLabel = "an event by"

// Extract runs every extraction pass over a parsed page. text is the
// normalized body text produced by Normalize.
func Extract(doc *goquery.Document, text string) event.Candidates {
	return event.Candidates{
		Title:       extractTitle(doc),
		Type:        extractType(doc, BodyText(doc)),
		Description: metaContent(doc, "og:description"),
		Location:    extractLocation(doc, text),
		Tokens:      ExtractTokens(text),
	}
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

// extractTitle prefers og:title, then the first h1/h2, then <title> without its site segment.
func extractTitle(doc *goquery.Document) string {
	title := metaContent(doc, "og:title")

	if title == "" {
		title = strings.TrimSpace(doc.FindMatcher(headingMatcher).First().Text())
	}

	if title == "" {
		title = doc.Find("title").First().Text()
		if i := strings.IndexAny(title, "»|"); i >= 0 {
			title = title[:i]
		}
		title = strings.TrimSpace(title)
	}

	return strings.TrimSpace(titleSuffixPattern.ReplaceAllString(title, ""))
}

// extractType takes the last badge naming a known category, then lets the
// body keyword pass overwrite it.
func extractType(doc *goquery.Document, body string) string {
	typ := ""
	doc.FindMatcher(badgeMatcher).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); event.IsType(text) {
			typ = text
		}
	})

	for _, kw := range typeKeywords {
		if strings.Contains(body, kw) {
			typ = kw
			break
		}
	}

	return typ
}

// ExtractTokens collects date/time tokens in document order. The combined
// pattern is tried first; the split layout is only used when it finds nothing.
func ExtractTokens(text string) []event.TimeToken {
	tokens := make([]event.TimeToken, 0, 2)

	for _, m := range dateTimePattern.FindAllStringSubmatch(text, -1) {
		day, hour := rebalanceDay(m[2], m[3])
		if tok, ok := event.ParseToken(m[1], day, hour, m[4], m[5]); ok {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) > 0 {
		return tokens
	}

	dates := monthDayPattern.FindAllStringSubmatch(text, -1)
	clocks := clockPattern.FindAllStringSubmatch(text, -1)
	for i := 0; i < len(dates) && i < len(clocks); i++ {
		if tok, ok := event.ParseToken(dates[i][1], dates[i][2], clocks[i][1], clocks[i][2], clocks[i][3]); ok {
			tokens = append(tokens, tok)
		}
	}

	return tokens
}

// rebalanceDay fixes squashed matches where the day swallowed the first digit
// of a two-digit hour, e.g. "Jan 512:30 PM" read as day 51, hour 2, or
// "Jan 110:30 AM" read as day 11, hour 0. Hour 0 never appears on a 12-hour clock.
func rebalanceDay(day, hour string) (string, string) {
	if len(day) == 2 && len(hour) == 1 && (day > "31" || hour == "0") {
		return day[:1], day[1:] + hour
	}
	return day, hour
}

// extractLocation combines the venue and organizer, then falls back to text searches.
func extractLocation(doc *goquery.Document, text string) string {
	location := strings.TrimSpace(doc.FindMatcher(addressMatcher).First().Text())

	if org := extractOrganizer(doc); org != "" && !isPlatformName(org) {
		switch {
		case location == "":
			location = org
		case !strings.Contains(location, org) && !strings.Contains(org, location):
			location = location + ", " + org
		}
	}

	if location == "" {
		if strings.Contains(strings.ToLower(text), "online") {
			location = "Online"
		} else if m := venuePattern.FindStringSubmatch(text); m != nil {
			location = strings.TrimSpace(m[1])
		}
	}

	if location == "" && strings.Contains(text, "TinkerSpace") {
		location = "TinkerSpace"
	}

	return location
}

// extractOrganizer finds the leaf "An event by" label and returns the name shown next to it.
func extractOrganizer(doc *goquery.Document) string {
	var label *goquery.Selection
	doc.FindMatcher(labelMatcher).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Children().Length() == 0 && strings.ToLower(strings.TrimSpace(s.Text())) == organizerLabel {
			label = s
			return false
		}
		return true
	})
	if label == nil {
		return ""
	}

	org := label.Parent().FindMatcher(organizerMatcher).NotSelection(label).First()
	return strings.TrimSpace(org.Text())
}

// isPlatformName reports whether an organizer is just the hosting platform
// rather than a chapter or partner, e.g. "TinkerHub" but not "TinkerHub Trivandrum".
func isPlatformName(org string) bool {
	lower := strings.ToLower(org)
	if !strings.Contains(lower, "tinkerhub") {
		return false
	}
	rest := strings.TrimSpace(strings.Trim(strings.ReplaceAll(lower, "tinkerhub", ""), " -|,.·"))
	return rest == "" || rest == "foundation"
}
