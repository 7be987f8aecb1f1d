package itinerary

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

// The aggregator is a stateless fold over already-parsed days. Totals are
// currency-agnostic and assume a single currency per trip. Every dollar
// token found in activity text counts, including narrative mentions, so
// estimates can run high; the numbers are re-derivable from the days alone.

// DayTotal returns the estimated cost for one day.
func DayTotal(day models.ItineraryDay) float64 {
	return day.TotalCost
}

// TripTotal sums the per-day estimates.
func TripTotal(days []models.ItineraryDay) float64 {
	var total float64
	for _, d := range days {
		total += d.TotalCost
	}
	return total
}

// BudgetRemainder returns how much of the trip budget is left, clamped at zero.
func BudgetRemainder(budget, total float64) float64 {
	remainder := budget - total
	if remainder < 0 {
		return 0
	}
	return remainder
}

var costPrinter = message.NewPrinter(language.English)

// FormatAmount renders an estimate for display, with grouping separators and
// two fraction digits ("$1,299.50").
func FormatAmount(v float64) string {
	return costPrinter.Sprintf("$%v", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
