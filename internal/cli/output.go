package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/add2cal/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	Event      *event.Event `json:"event"`
	EventCode  string       `json:"event_code,omitempty"`
	GoogleURL  string       `json:"google_url,omitempty"`
	AndroidURL string       `json:"android_url,omitempty"`
	Warning    string       `json:"warning,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as a human-readable event card
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	evt := result.Event

	fmt.Fprintf(w, "%s\n", evt.Title)
	fmt.Fprintf(w, "  Type:     %s\n", evt.Type)
	if evt.HasDates() {
		fmt.Fprintf(w, "  Date:     %s\n", evt.DisplayDate())
		fmt.Fprintf(w, "  Time:     %s\n", evt.DisplayTime())
	}
	fmt.Fprintf(w, "  Location: %s\n", evt.DisplayLocation())

	if verbose {
		desc := evt.Description
		if desc == "" {
			desc = evt.ShortDescription()
		}
		fmt.Fprintf(w, "  About:    %s\n", desc)
		if result.EventCode != "" {
			fmt.Fprintf(w, "  Code:     %s\n", result.EventCode)
		}
		if evt.Start != nil {
			fmt.Fprintf(w, "  Start:    %s\n", evt.Start.Format("2006-01-02T15:04:05Z07:00"))
			fmt.Fprintf(w, "  End:      %s\n", evt.End.Format("2006-01-02T15:04:05Z07:00"))
		}
	} else {
		fmt.Fprintf(w, "  About:    %s\n", evt.ShortDescription())
	}

	if evt.SourceURL != "" {
		fmt.Fprintf(w, "  Source:   %s\n", evt.SourceURL)
	}

	if result.Warning != "" {
		fmt.Fprintf(w, "\nWarning: %s\n", result.Warning)
		return nil
	}

	fmt.Fprintf(w, "\nAdd to Google Calendar:\n  %s\n", result.GoogleURL)
	if verbose && result.AndroidURL != "" {
		fmt.Fprintf(w, "Open in the Android app:\n  %s\n", result.AndroidURL)
	}
	return nil
}
