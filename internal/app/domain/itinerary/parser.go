// Package itinerary turns the free-text day plans produced by the language
// model into a structured day/activity model. Everything here is pure: the
// model output is irregular by nature, so every function degrades to a
// best-effort result instead of failing.
package itinerary

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

const (
	defaultDayTitle      = "Exploration Day"
	fallbackTitle        = "Full Itinerary"
	fallbackMinLineChars = 10
)

var (
	// Matches "Day 3", "**Day 3: Museums**", "### Day 3 - Beach day" anywhere
	// in the line, case-insensitive.
	dayHeaderRe = regexp.MustCompile(`(?i)(?:\*\*|__)?\s*day\s+(\d+)\s*(?:\*\*|__)?\s*(?:[:\-\x{2013}\x{2014}]\s*(.*))?$`)

	// Leading bullet, enumeration or bold markers on activity lines.
	leadingMarkerRe = regexp.MustCompile(`^\s*(?:[-*\x{2022}]+|\d+[.)])\s*`)

	// "$1,299.50", "$40" - optional thousands separators, optional 2-decimal fraction.
	currencyRe = regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})+|\d+)(\.\d{2})?`)
)

// Parse converts raw itinerary text into ordered days. Day numbers are unique
// in the result: the first occurrence of a number wins and later duplicates
// are dropped whole. Non-empty input that yields no day headers synthesizes a
// single "Full Itinerary" day so callers always get something renderable.
func Parse(text string) []models.ItineraryDay {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var (
		days    []models.ItineraryDay
		current *models.ItineraryDay
		seen    = make(map[int]bool)
		// Set while consuming the body of a duplicate day header; those
		// lines are discarded rather than merged into the first occurrence.
		skipping bool
	)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if num, title, ok := matchDayHeader(line); ok {
			if current != nil {
				days = append(days, *current)
				current = nil
			}
			if seen[num] {
				skipping = true
				continue
			}
			seen[num] = true
			skipping = false
			current = &models.ItineraryDay{Number: num, Title: title}
			continue
		}

		if current == nil || skipping {
			continue
		}

		cleaned := cleanActivityLine(line)
		if cleaned == "" {
			continue
		}
		current.Activities = append(current.Activities, cleaned)
		// Cost extraction is a side read: the line is kept as activity text
		// regardless of whether it carried an amount.
		current.TotalCost += extractCurrency(cleaned)
	}

	if current != nil {
		days = append(days, *current)
	}

	if len(days) == 0 {
		return []models.ItineraryDay{fallbackDay(text)}
	}
	return days
}

// matchDayHeader reports whether the line opens a new day and extracts its
// number and title. A title fragment after the colon/dash defaults to
// "Exploration Day" when absent.
func matchDayHeader(line string) (int, string, bool) {
	m := dayHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	num, err := strconv.Atoi(m[1])
	if err != nil || num < 1 {
		return 0, "", false
	}
	title := strings.TrimSpace(strings.Trim(m[2], "*_ \t"))
	if title == "" {
		title = defaultDayTitle
	}
	return num, title, true
}

// cleanActivityLine strips leading bullet/number markers and bold markup.
func cleanActivityLine(line string) string {
	cleaned := leadingMarkerRe.ReplaceAllString(strings.TrimSpace(line), "")
	cleaned = strings.ReplaceAll(cleaned, "**", "")
	cleaned = strings.ReplaceAll(cleaned, "__", "")
	return strings.TrimSpace(cleaned)
}

// extractCurrency sums every dollar amount found in the line. Narrative
// mentions count too; see the aggregator notes on overcounting.
func extractCurrency(line string) float64 {
	var total float64
	for _, m := range currencyRe.FindAllStringSubmatch(line, -1) {
		amount := strings.ReplaceAll(m[1], ",", "") + m[2]
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			continue
		}
		total += v
	}
	return total
}

// fallbackDay synthesizes a single day from headerless input, keeping lines
// with enough substance to render and skipping bare section labels like
// "Lunch:".
func fallbackDay(text string) models.ItineraryDay {
	day := models.ItineraryDay{Number: 1, Title: fallbackTitle}
	for _, raw := range strings.Split(text, "\n") {
		cleaned := cleanActivityLine(strings.TrimSpace(raw))
		if len(cleaned) <= fallbackMinLineChars || isBareSectionLabel(cleaned) {
			continue
		}
		day.Activities = append(day.Activities, cleaned)
	}
	return day
}

// ActivitiesCost re-derives the cost sum for a set of activity lines. The day
// editor uses it to keep TotalCost consistent after an optimistic edit.
func ActivitiesCost(activities []string) float64 {
	var total float64
	for _, line := range activities {
		total += extractCurrency(line)
	}
	return total
}
