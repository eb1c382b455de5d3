package presence

import (
	"hash/fnv"
	"time"
)

// DefaultWindow is the liveness window: a collaborator with no activity for
// this long is no longer shown as active.
const DefaultWindow = 5 * time.Minute

// Range is a cursor position or selection in the document text.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Record is the per-user liveness and cursor state within one document session.
// Staleness is computed from LastActive at read time, never stored.
type Record struct {
	UserID     string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	Cursor     *Range    `json:"cursor,omitempty"`
	LastActive time.Time `json:"lastActive"`
}

// Active reports whether the record counts as live at the given instant.
func (r *Record) Active(now time.Time, window time.Duration) bool {
	return now.Sub(r.LastActive) < window
}

// cursor color palette shown next to collaborator names
var palette = []string{
	"#F87171", "#FB923C", "#FBBF24", "#A3E635",
	"#34D399", "#22D3EE", "#60A5FA", "#A78BFA",
	"#E879F9", "#FB7185",
}

// ColorFor assigns a stable color per user id by hashing into the palette.
func ColorFor(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return palette[h.Sum32()%uint32(len(palette))]
}
