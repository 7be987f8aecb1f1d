package itinerary

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

// ExportCalendar renders parsed days as an iCalendar document with one
// all-day event per day, anchored on the trip's start date. The description
// carries the raw activity lines plus the day's cost estimate.
func ExportCalendar(trip models.Trip, days []models.ItineraryDay) (string, error) {
	if trip.StartDate == nil {
		return "", fmt.Errorf("trip %d has no start date to anchor calendar events", trip.ID)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//go-tripplan//itinerary//EN")

	start := trip.StartDate.Truncate(24 * time.Hour)
	for _, day := range days {
		date := start.AddDate(0, 0, day.Number-1)
		event := cal.AddEvent(fmt.Sprintf("trip-%d-day-%d@go-tripplan", trip.ID, day.Number))
		event.SetCreatedTime(time.Now())
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("Day %d: %s", day.Number, day.Title))
		event.SetDescription(dayDescription(day))
		if trip.Destination != "" {
			event.SetLocation(trip.Destination)
		}
	}

	return cal.Serialize(), nil
}

func dayDescription(day models.ItineraryDay) string {
	var b strings.Builder
	for _, activity := range day.Activities {
		b.WriteString(activity)
		b.WriteString("\n")
	}
	if day.TotalCost > 0 {
		b.WriteString("Estimated cost: ")
		b.WriteString(FormatAmount(day.TotalCost))
	}
	return strings.TrimSpace(b.String())
}
