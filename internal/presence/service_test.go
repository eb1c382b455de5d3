package presence

import (
	"context"
	"testing"
	"time"

	"github.com/codocs/codocs/internal/models"
	"github.com/stretchr/testify/require"
)

func TestJoinAndListActive(t *testing.T) {
	tr := NewTracker(NewMemoryRepository(), 0)
	ctx := context.Background()

	u := &models.User{Sub: "user-a", Email: "alice@example.com"}
	rec, err := tr.Join(ctx, "doc1", u)
	require.NoError(t, err)
	require.Equal(t, "alice", rec.Name)
	require.NotEmpty(t, rec.Color)

	active, err := tr.ListActive(ctx, "doc1", time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "user-a", active[0].UserID)
}

func TestLivenessWindowBoundary(t *testing.T) {
	tr := NewTracker(NewMemoryRepository(), 0)
	ctx := context.Background()

	joined := time.Now().UTC()
	_, err := tr.Join(ctx, "doc1", &models.User{Sub: "user-a", Email: "a@e.com"})
	require.NoError(t, err)

	// still active just inside the window
	active, err := tr.ListActive(ctx, "doc1", joined.Add(4*time.Minute+59*time.Second))
	require.NoError(t, err)
	require.Len(t, active, 1)

	// stale just past the window; the record is filtered, not deleted
	active, err = tr.ListActive(ctx, "doc1", joined.Add(5*time.Minute+1*time.Second))
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestUpdateCursorRefreshesClock(t *testing.T) {
	repo := NewMemoryRepository()
	tr := NewTracker(repo, 0)
	ctx := context.Background()

	_, err := tr.Join(ctx, "doc1", &models.User{Sub: "user-a", Email: "a@e.com"})
	require.NoError(t, err)
	joined := time.Now().UTC()

	require.NoError(t, tr.UpdateCursor(ctx, "doc1", "user-a", Range{From: 3, To: 9}))

	rec, err := repo.Get(ctx, "doc1", "user-a")
	require.NoError(t, err)
	require.NotNil(t, rec.Cursor)
	require.Equal(t, 3, rec.Cursor.From)
	require.Equal(t, 9, rec.Cursor.To)
	require.False(t, rec.LastActive.Before(joined.Add(-time.Second)))
}

func TestUpdateCursorWithoutJoinIsNoop(t *testing.T) {
	tr := NewTracker(NewMemoryRepository(), 0)
	ctx := context.Background()

	require.NoError(t, tr.UpdateCursor(ctx, "doc1", "ghost", Range{From: 0, To: 0}))

	active, err := tr.ListActive(ctx, "doc1", time.Now().UTC())
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestRejoinKeepsColor(t *testing.T) {
	tr := NewTracker(NewMemoryRepository(), 0)
	ctx := context.Background()

	u := &models.User{Sub: "user-a", Email: "a@e.com"}
	first, err := tr.Join(ctx, "doc1", u)
	require.NoError(t, err)
	second, err := tr.Join(ctx, "doc1", u)
	require.NoError(t, err)
	require.Equal(t, first.Color, second.Color)
}

func TestLeaveRemovesRecord(t *testing.T) {
	tr := NewTracker(NewMemoryRepository(), 0)
	ctx := context.Background()

	_, err := tr.Join(ctx, "doc1", &models.User{Sub: "user-a", Email: "a@e.com"})
	require.NoError(t, err)
	require.NoError(t, tr.Leave(ctx, "doc1", "user-a"))

	active, err := tr.ListActive(ctx, "doc1", time.Now().UTC())
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestColorForIsStable(t *testing.T) {
	require.Equal(t, ColorFor("user-1"), ColorFor("user-1"))
}
