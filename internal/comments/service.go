package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/codocs/codocs/pkg/metrics"
)

var ErrEmptyContent = errors.New("comment content must not be empty")

// Service owns id and timestamp assignment for comments. A submission is
// either a reply to an existing thread or the start of a new anchored thread;
// the two cases are separate operations rather than one call with nullable
// parameters.
type Service struct {
	repo Repository
	seq  atomic.Uint64
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Reply appends a comment to an existing thread. Unknown thread ids fail with
// ErrThreadNotFound rather than being silently dropped.
func (s *Service) Reply(ctx context.Context, threadID string, author Author, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	c := s.newComment(author, content)
	if err := s.repo.AppendComment(ctx, threadID, c); err != nil {
		return nil, err
	}
	metrics.CommentsAdded.WithLabelValues("reply").Inc()
	return c, nil
}

// StartThread creates a new thread anchored to the given range, seeded with
// one comment.
func (s *Service) StartThread(ctx context.Context, docID string, anchor Anchor, author Author, content string) (*Thread, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	c := s.newComment(author, content)
	th := &Thread{
		ID:         s.nextID("thr"),
		DocumentID: docID,
		Anchor:     anchor,
		Comments:   []Comment{*c},
	}
	if err := s.repo.CreateThread(ctx, th); err != nil {
		return nil, err
	}
	metrics.CommentsAdded.WithLabelValues("thread").Inc()
	return th, nil
}

// ListThreads returns every thread of a document with comments in append order.
func (s *Service) ListThreads(ctx context.Context, docID string) ([]*Thread, error) {
	return s.repo.ListByDocument(ctx, docID)
}

func (s *Service) newComment(author Author, content string) *Comment {
	return &Comment{
		ID:        s.nextID("cmt"),
		Author:    author,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// nextID combines wall clock and a process-local counter: sortable by creation
// and unique even when two comments land in the same nanosecond.
func (s *Service) nextID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), s.seq.Add(1))
}
