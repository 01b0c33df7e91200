// Package calendar turns parsed event records into calendar-add actions: a
// Google Calendar template link (web or Android intent) and an iCalendar file.
//
// Times are written as wall-clock values in the target timezone, tagged with its
// IANA identifier, never converted to UTC.
package calendar
