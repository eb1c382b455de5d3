package presence

import (
	"context"
	"sort"
	"time"

	"github.com/codocs/codocs/internal/models"
	"github.com/codocs/codocs/pkg/metrics"
)

// Tracker wraps repository operations with the liveness rules. Per-user state
// machine: a join makes a user active, cursor updates refresh the clock, and a
// user with no activity for the window simply stops appearing in ListActive.
type Tracker struct {
	repo   Repository
	window time.Duration
}

func NewTracker(repo Repository, window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{repo: repo, window: window}
}

// Join inserts or refreshes the user's presence record. The color assigned on
// first join is kept for the rest of the session.
func (t *Tracker) Join(ctx context.Context, docID string, user *models.User) (*Record, error) {
	existing, err := t.repo.Get(ctx, docID, user.Sub)
	if err != nil {
		return nil, err
	}
	rec := &Record{
		UserID:     user.Sub,
		Name:       user.DisplayName(),
		Color:      ColorFor(user.Sub),
		LastActive: time.Now().UTC(),
	}
	if existing != nil {
		rec.Color = existing.Color
		rec.Cursor = existing.Cursor
	}
	if err := t.repo.Upsert(ctx, docID, rec); err != nil {
		return nil, err
	}
	metrics.PresenceJoins.Inc()
	return rec, nil
}

// UpdateCursor refreshes the cursor and activity clock. A cursor update for a
// user who never joined is a no-op.
func (t *Tracker) UpdateCursor(ctx context.Context, docID, userID string, cur Range) error {
	rec, err := t.repo.Get(ctx, docID, userID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	rec.Cursor = &cur
	rec.LastActive = time.Now().UTC()
	return t.repo.Upsert(ctx, docID, rec)
}

// ListActive returns the records still inside the liveness window at the given
// instant. Stale records are filtered, never removed.
func (t *Tracker) ListActive(ctx context.Context, docID string, now time.Time) ([]*Record, error) {
	all, err := t.repo.List(ctx, docID)
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(all))
	for _, rec := range all {
		if rec.Active(now, t.window) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// Leave removes the record on clean session teardown. Best effort: a client
// that disconnects abruptly simply ages out of ListActive.
func (t *Tracker) Leave(ctx context.Context, docID, userID string) error {
	return t.repo.Delete(ctx, docID, userID)
}

// Window exposes the configured liveness window.
func (t *Tracker) Window() time.Duration { return t.window }
