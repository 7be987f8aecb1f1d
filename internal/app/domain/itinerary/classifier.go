package itinerary

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
)

// Section labels open a named time slot inside a day. Detail labels are
// key:value attributes of the enclosing section. Both sets are fixed; the
// model is prompted to use them, and anything else classifies as plain text.
var (
	sectionLabels = []string{
		"Morning Activity",
		"Afternoon Activity",
		"Evening Activity",
		"Breakfast",
		"Lunch",
		"Dinner",
	}

	detailLabels = []string{
		"Activity",
		"Venue",
		"Address",
		"Cost",
		"Price Range",
		"Note",
		"Duration",
	}

	sectionMatcher = newLabelMatcher(sectionLabels)
	detailMatcher  = newLabelMatcher(detailLabels)
)

type labelMatcher struct {
	ac     ahocorasick.AhoCorasick
	labels []string
}

func newLabelMatcher(labels []string) *labelMatcher {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &labelMatcher{ac: builder.Build(labels), labels: labels}
}

// prefix returns the canonical label matched at the start of the line and the
// byte offset just past it.
func (m *labelMatcher) prefix(line string) (string, int, bool) {
	for _, match := range m.ac.FindAll(line) {
		if match.Start() != 0 {
			break
		}
		return m.labels[match.Pattern()], match.End(), true
	}
	return "", 0, false
}

// Classify maps one activity line to exactly one structural variant. It is
// total: any input that matches neither fixed set comes back as plain text.
func Classify(line string) models.ActivityLine {
	if label, t, ok := matchSectionHeader(line); ok {
		return models.ActivityLine{Kind: models.LineHeader, Label: label, Time: t}
	}
	if label, value, ok := matchDetail(line); ok {
		return models.ActivityLine{Kind: models.LineDetail, Label: label, Value: value}
	}
	return models.ActivityLine{Kind: models.LinePlain, Text: line}
}

// matchSectionHeader recognizes "Lunch:" and "Morning Activity (9:00 AM): ...".
// The colon is required; a parenthesized time may sit between label and colon.
func matchSectionHeader(line string) (label, timeSlot string, ok bool) {
	label, end, ok := sectionMatcher.prefix(line)
	if !ok {
		return "", "", false
	}
	rest := strings.TrimSpace(line[end:])
	if strings.HasPrefix(rest, "(") {
		closing := strings.Index(rest, ")")
		if closing < 0 {
			return "", "", false
		}
		timeSlot = strings.TrimSpace(rest[1:closing])
		rest = strings.TrimSpace(rest[closing+1:])
	}
	if !strings.HasPrefix(rest, ":") {
		return "", "", false
	}
	return label, timeSlot, true
}

// matchDetail recognizes "Cost: $40" style attribute lines.
func matchDetail(line string) (label, value string, ok bool) {
	label, end, ok := detailMatcher.prefix(line)
	if !ok {
		return "", "", false
	}
	rest := strings.TrimSpace(line[end:])
	if !strings.HasPrefix(rest, ":") {
		return "", "", false
	}
	return label, strings.TrimSpace(rest[1:]), true
}

// isBareSectionLabel reports whether the line is just a section label with an
// optional trailing colon ("Lunch:"), which the parser's fallback filters out.
func isBareSectionLabel(line string) bool {
	_, end, ok := sectionMatcher.prefix(line)
	if !ok {
		return false
	}
	rest := strings.TrimSpace(line[end:])
	return rest == "" || rest == ":"
}
