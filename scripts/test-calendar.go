package main

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/add2cal/internal/calendar"
	"github.com/pfrederiksen/add2cal/internal/scraper"
)

func main() {
	page := "testdata/fixtures/event_page.html"
	if len(os.Args) > 1 {
		page = os.Args[1]
	}

	f, err := os.Open(page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening page: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Parse the saved event page
	evt, err := scraper.NewParser().Parse(f, "https://tinkerhub.org/events/SAMPLE/sample-event")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing page: %v\n", err)
		os.Exit(1)
	}

	cal := calendar.New(calendar.DefaultTZID, nil)
	icsContent, err := cal.GenerateICS(evt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating calendar: %v\n", err)
		os.Exit(1)
	}

	link, _ := cal.GoogleURL(evt)

	// Write to file (owner read/write only)
	filename := calendar.FileName(evt)
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("3. Or open this link in a browser:")
	fmt.Println("  ", link)
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
