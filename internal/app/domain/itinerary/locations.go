package itinerary

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

const (
	maxLocations       = 5
	maxLocationLen     = 50
	genericDestination = "City Center"
)

// Leading verb phrases the model favors when describing an outing. Stripping
// them leaves the place name the geocoder should see.
var leadingVerbs = []string{
	"Walk through",
	"Experience",
	"Discover",
	"Explore",
	"Visit",
	"Tour",
	"See",
}

var verbMatcher = newLabelMatcher(leadingVerbs)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	trailingDashRe  = regexp.MustCompile(`\s+[-\x{2013}\x{2014}]\s+.*$`)
	articleRe       = regexp.MustCompile(`(?i)^(?:the|an|a)\s+`)
)

// ExtractLocations distills short place names from a day's activity lines to
// seed map lookups. At most five entries, each under fifty characters. When
// nothing survives the cleanup it falls back to the trip destination, or a
// generic placeholder when that is unknown too.
func ExtractLocations(activities []string, destination string) []string {
	var locations []string
	for _, line := range activities {
		if len(locations) >= maxLocations {
			break
		}
		if candidate, ok := locationCandidate(line); ok {
			locations = append(locations, candidate)
		}
	}
	if len(locations) == 0 {
		if destination != "" {
			return []string{destination}
		}
		return []string{genericDestination}
	}
	return locations
}

func locationCandidate(line string) (string, bool) {
	candidate := strings.TrimSpace(line)

	if _, end, ok := verbMatcher.prefix(candidate); ok && end < len(candidate) && candidate[end] == ' ' {
		candidate = strings.TrimSpace(candidate[end:])
		candidate = articleRe.ReplaceAllString(candidate, "")
	}

	candidate = parentheticalRe.ReplaceAllString(candidate, "")
	candidate = trailingDashRe.ReplaceAllString(candidate, "")
	candidate = currencyRe.ReplaceAllString(candidate, "")
	candidate = cutAtClause(candidate)
	candidate = strings.Trim(candidate, " .,:;-")

	n := utf8.RuneCountInString(candidate)
	if n == 0 || n >= maxLocationLen {
		return "", false
	}
	return candidate, true
}

// cutAtClause keeps the text up to the first comma, period, " and " or " or ".
func cutAtClause(s string) string {
	cut := len(s)
	for _, sep := range []string{",", ".", " and ", " or "} {
		if i := strings.Index(s, sep); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(s[:cut])
}

// DayLocations extracts locations for every parsed day, keyed by day number.
func DayLocations(days []models.ItineraryDay, destination string) map[int][]string {
	return lo.SliceToMap(days, func(d models.ItineraryDay) (int, []string) {
		return d.Number, ExtractLocations(d.Activities, destination)
	})
}
