// Package event provides the normalized event record produced by a page parse.
//
// The event package holds the record itself, the intermediate extraction candidates,
// and the date/time resolver that turns matched month/day/clock tokens into
// fixed-offset instants in the target timezone. Raw display strings are kept
// alongside the instants so a page's own wording survives into the output.
package event
