package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/calendar"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

func main() {
	// One timed and one date-only concert cover both event shapes
	concerts := []*concert.Concert{
		{
			Title: "Aqua",
			Venue: "ODEON",
			Date:  time.Date(2026, time.November, 14, 20, 0, 0, 0, concert.Location),
			Price: concert.IntPtr(495),
			URL:   "https://odeon.dk/",
		},
		{
			Title:   "Julekoncert, med kor; og orkester",
			Venue:   "Storms Pakhus",
			Date:    time.Date(2026, time.December, 3, 0, 0, 0, 0, concert.Location),
			SoldOut: true,
			URL:     "https://stormspakhus.dk/",
		},
	}

	icsContent := calendar.GenerateICS(concerts, calendar.DefaultName, time.Now())

	filename := "test-concerts.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
