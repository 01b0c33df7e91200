// Package scraper fetches event pages and turns their HTML into event records.
//
// Parsing runs in fixed stages: the body is rendered to plain text and cut at the
// "related content" marker, independent extraction passes collect title, type,
// date/time tokens, location and description candidates, the event package
// resolves the tokens into instants, and the results are assembled into one
// event.Event. Extraction is best effort; a page with nothing recognisable still
// produces a record with defaults.
package scraper
