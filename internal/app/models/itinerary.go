package models

// ItineraryDay is one structured unit of a parsed itinerary, keyed by day number.
// Activities hold cleaned raw lines in document order; classification happens
// at read time.
type ItineraryDay struct {
	Number     int      `json:"number"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
	TotalCost  float64  `json:"total_cost"`
}

// ActivityLineKind tags the structural interpretation of one activity line.
type ActivityLineKind string

const (
	LineHeader ActivityLineKind = "header"
	LineDetail ActivityLineKind = "detail"
	LinePlain  ActivityLineKind = "plain"
)

// ActivityLine is the read-time reinterpretation of one raw activity line.
// Header carries Label and optional Time, Detail carries Label and Value,
// Plain carries Text. The other fields stay empty for each kind.
type ActivityLine struct {
	Kind  ActivityLineKind `json:"kind"`
	Label string           `json:"label,omitempty"`
	Time  string           `json:"time,omitempty"`
	Value string           `json:"value,omitempty"`
	Text  string           `json:"text,omitempty"`
}
