// Package cli implements the command-line interface for add2cal.
//
// The cli package provides the Cobra-based CLI: parsing an event page (fetched
// or saved), resolving shared content, printing calendar links, writing .ics
// files and running the HTTP server. Output is text or JSON.
package cli
