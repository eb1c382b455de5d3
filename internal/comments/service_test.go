package comments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartThreadAndReply(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	author := Author{ID: "user-1", Name: "Alice"}
	th, err := svc.StartThread(ctx, "doc1", Anchor{From: 0, To: 0}, author, "hi")
	require.NoError(t, err)
	require.NotEmpty(t, th.ID)
	require.Len(t, th.Comments, 1)
	require.Equal(t, "hi", th.Comments[0].Content)

	replier := Author{ID: "user-2", Name: "Bob"}
	reply, err := svc.Reply(ctx, th.ID, replier, "reply")
	require.NoError(t, err)
	require.NotEmpty(t, reply.ID)

	threads, err := svc.ListThreads(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, threads, 1)
	require.Equal(t, th.ID, threads[0].ID)
	require.Len(t, threads[0].Comments, 2)
	// append order preserved
	require.Equal(t, "hi", threads[0].Comments[0].Content)
	require.Equal(t, "reply", threads[0].Comments[1].Content)
	require.Equal(t, "Bob", threads[0].Comments[1].Author.Name)
}

func TestReplyUnknownThreadFails(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Reply(ctx, "thr_unknown", Author{ID: "u"}, "orphan")
	require.ErrorIs(t, err, ErrThreadNotFound)

	threads, err := svc.ListThreads(ctx, "doc1")
	require.NoError(t, err)
	require.Empty(t, threads)
}

func TestEmptyContentRejected(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.StartThread(ctx, "doc1", Anchor{}, Author{ID: "u"}, "   ")
	require.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.Reply(ctx, "any", Author{ID: "u"}, "")
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestTimestampsNonDecreasing(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	th, err := svc.StartThread(ctx, "doc1", Anchor{From: 5, To: 10}, Author{ID: "u1"}, "first")
	require.NoError(t, err)
	_, err = svc.Reply(ctx, th.ID, Author{ID: "u2"}, "second")
	require.NoError(t, err)
	_, err = svc.Reply(ctx, th.ID, Author{ID: "u3"}, "third")
	require.NoError(t, err)

	got, err := svc.ListThreads(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, got[0].Comments, 3)
	for i := 1; i < len(got[0].Comments); i++ {
		prev := got[0].Comments[i-1].Timestamp
		cur := got[0].Comments[i].Timestamp
		require.False(t, cur.Before(prev), "comment %d older than %d", i, i-1)
	}
}

func TestThreadsAreScopedByDocument(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.StartThread(ctx, "doc1", Anchor{}, Author{ID: "u"}, "a")
	require.NoError(t, err)
	_, err = svc.StartThread(ctx, "doc2", Anchor{}, Author{ID: "u"}, "b")
	require.NoError(t, err)

	t1, err := svc.ListThreads(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, t1, 1)
	require.Equal(t, "a", t1[0].Comments[0].Content)
}
