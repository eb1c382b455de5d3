package repository

import (
	"context"
	"testing"

	"github.com/codocs/codocs/internal/document"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoCRUD(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	d := &document.Document{ID: "doc_1", Title: "Notes", OwnerID: "user-1"}
	require.NoError(t, r.Create(ctx, d))
	require.False(t, d.CreatedAt.IsZero())

	got, err := r.Get(ctx, "doc_1")
	require.NoError(t, err)
	require.Equal(t, "Notes", got.Title)
	require.Equal(t, "user-1", got.OwnerID)

	list, err := r.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	other, err := r.ListByOwner(ctx, "user-2")
	require.NoError(t, err)
	require.Empty(t, other)

	content := "new content"
	require.NoError(t, r.Update(ctx, "doc_1", document.Update{Content: &content}))
	got2, err := r.Get(ctx, "doc_1")
	require.NoError(t, err)
	require.Equal(t, "new content", got2.Content)
	require.False(t, got2.UpdatedAt.Before(got.UpdatedAt))

	_, err = r.Get(ctx, "doc_missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Update(ctx, "doc_missing", document.Update{}), ErrNotFound)
}

func TestMemoryRepoAccessCodeUniqueness(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &document.Document{ID: "d1", Title: "A", OwnerID: "u"}))
	require.NoError(t, r.Create(ctx, &document.Document{ID: "d2", Title: "B", OwnerID: "u"}))

	require.NoError(t, r.SetAccessCode(ctx, "d1", "AB12CD"))
	require.ErrorIs(t, r.SetAccessCode(ctx, "d2", "AB12CD"), ErrCodeTaken)

	found, err := r.FindByCode(ctx, "AB12CD")
	require.NoError(t, err)
	require.Equal(t, "d1", found.ID)

	_, err = r.FindByCode(ctx, "ZZZZZZ")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoAddCollaborator(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &document.Document{ID: "d1", Title: "A", OwnerID: "u"}))
	require.NoError(t, r.AddCollaborator(ctx, "d1", "guest-1"))
	require.NoError(t, r.AddCollaborator(ctx, "d1", "guest-1")) // idempotent

	got, err := r.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, []string{"guest-1"}, got.Collaborators)
}
