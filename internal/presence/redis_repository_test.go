package presence

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRepository_UpsertGetDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:presence:")

	ctx := context.Background()
	rec := &Record{
		UserID:     "user-1",
		Name:       "Alice",
		Color:      "#F87171",
		Cursor:     &Range{From: 5, To: 10},
		LastActive: time.Now().UTC(),
	}

	require.NoError(t, repo.Upsert(ctx, "doc1", rec))

	got, err := repo.Get(ctx, "doc1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Alice", got.Name)
	require.NotNil(t, got.Cursor)
	require.Equal(t, 5, got.Cursor.From)

	// unknown user -> nil, nil
	missing, err := repo.Get(ctx, "doc1", "nobody")
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, "doc1", "user-1"))
	got2, err := repo.Get(ctx, "doc1", "user-1")
	require.NoError(t, err)
	require.Nil(t, got2)
}

func TestRedisRepository_ListPerDocument(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:presence:")
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Upsert(ctx, "doc1", &Record{UserID: "u1", Name: "A", LastActive: now}))
	require.NoError(t, repo.Upsert(ctx, "doc1", &Record{UserID: "u2", Name: "B", LastActive: now}))
	require.NoError(t, repo.Upsert(ctx, "doc2", &Record{UserID: "u3", Name: "C", LastActive: now}))

	list, err := repo.List(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	other, err := repo.List(ctx, "doc2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	require.Equal(t, "u3", other[0].UserID)
}

func TestRedisRepository_HousekeepTTLSet(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:presence:")
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "doc1", &Record{UserID: "u1", LastActive: time.Now().UTC()}))
	ttl := m.TTL("test:presence:doc1")
	require.Greater(t, ttl, time.Duration(0))
}
