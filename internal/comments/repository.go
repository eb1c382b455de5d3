package comments

import (
	"context"
	"errors"
	"sync"
)

var ErrThreadNotFound = errors.New("comment thread not found")

// Repository provides thread persistence operations.
type Repository interface {
	CreateThread(ctx context.Context, th *Thread) error
	AppendComment(ctx context.Context, threadID string, c *Comment) error
	GetThread(ctx context.Context, threadID string) (*Thread, error)
	ListByDocument(ctx context.Context, docID string) ([]*Thread, error)
}

// MemoryRepository keeps threads in process memory for unit tests and
// single-instance deployments.
type MemoryRepository struct {
	mu      sync.RWMutex
	threads map[string]*Thread
	byDoc   map[string][]string // insertion-ordered thread ids per document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		threads: make(map[string]*Thread),
		byDoc:   make(map[string][]string),
	}
}

func (m *MemoryRepository) CreateThread(ctx context.Context, th *Thread) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *th
	cp.Comments = append([]Comment(nil), th.Comments...)
	m.threads[th.ID] = &cp
	m.byDoc[th.DocumentID] = append(m.byDoc[th.DocumentID], th.ID)
	return nil
}

func (m *MemoryRepository) AppendComment(ctx context.Context, threadID string, c *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	th, ok := m.threads[threadID]
	if !ok {
		return ErrThreadNotFound
	}
	th.Comments = append(th.Comments, *c)
	return nil
}

func (m *MemoryRepository) GetThread(ctx context.Context, threadID string) (*Thread, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	th, ok := m.threads[threadID]
	if !ok {
		return nil, ErrThreadNotFound
	}
	cp := *th
	cp.Comments = append([]Comment(nil), th.Comments...)
	return &cp, nil
}

func (m *MemoryRepository) ListByDocument(ctx context.Context, docID string) ([]*Thread, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.byDoc[docID]
	out := make([]*Thread, 0, len(ids))
	for _, id := range ids {
		th := m.threads[id]
		cp := *th
		cp.Comments = append([]Comment(nil), th.Comments...)
		out = append(out, &cp)
	}
	return out, nil
}
