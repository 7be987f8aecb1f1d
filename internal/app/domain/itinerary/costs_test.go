package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

func TestCostAggregation(t *testing.T) {
	days := []models.ItineraryDay{
		{Number: 1, TotalCost: 40},
		{Number: 2, TotalCost: 0},
		{Number: 3, TotalCost: 122.5},
	}

	t.Run("trip total is the sum of day totals", func(t *testing.T) {
		assert.InDelta(t, 162.5, TripTotal(days), 0.001)
		assert.Equal(t, 40.0, DayTotal(days[0]))
	})

	t.Run("budget remainder never negative", func(t *testing.T) {
		assert.InDelta(t, 37.5, BudgetRemainder(200, TripTotal(days)), 0.001)
		assert.Equal(t, 0.0, BudgetRemainder(100, TripTotal(days)))
	})

	t.Run("re-parsing yields identical totals", func(t *testing.T) {
		text := "Day 1: Food crawl\nTastings around $60 total\na $5 coffee mentioned in passing"
		first := TripTotal(Parse(text))
		second := TripTotal(Parse(text))
		assert.Equal(t, first, second)
		assert.InDelta(t, 65.0, first, 0.001)
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$40.00", FormatAmount(40))
	assert.Equal(t, "$1,299.50", FormatAmount(1299.5))
}
