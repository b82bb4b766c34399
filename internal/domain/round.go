package domain

// Category is the question category as delivered by the question source.
type Category struct {
	Title string `json:"title"`
}

// Round is the single active question for one channel. The JSON field names
// mirror the question source payload so a round can be persisted as-is.
type Round struct {
	ID           int      `json:"id"`
	Category     Category `json:"category"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Value        int      `json:"value"`
	InvalidCount int      `json:"invalid_count,omitempty"`

	// Expiration is a unix timestamp (seconds, fractional): the inbound
	// timestamp of the start command plus the configured answer window.
	Expiration float64 `json:"expiration"`
}

// Expired reports whether the given submission timestamp falls past the
// round's answer window.
func (r *Round) Expired(timestamp float64) bool {
	return timestamp > r.Expiration
}

// ScoreEntry is one user's cumulative score, as found by a score scan.
type ScoreEntry struct {
	UserID string
	Score  int
}
