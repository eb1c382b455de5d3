package presence

import (
	"context"
	"sync"
)

// Repository provides presence persistence operations scoped by document.
type Repository interface {
	Upsert(ctx context.Context, docID string, rec *Record) error
	Get(ctx context.Context, docID, userID string) (*Record, error)
	List(ctx context.Context, docID string) ([]*Record, error)
	Delete(ctx context.Context, docID, userID string) error
}

// MemoryRepository keeps presence records in process memory. Used for unit
// tests and single-instance deployments without Redis.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]map[string]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string]map[string]*Record)}
}

func (m *MemoryRepository) Upsert(ctx context.Context, docID string, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	users, ok := m.docs[docID]
	if !ok {
		users = make(map[string]*Record)
		m.docs[docID] = users
	}
	cp := *rec
	users[rec.UserID] = &cp
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, docID, userID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if users, ok := m.docs[docID]; ok {
		if rec, ok := users[userID]; ok {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) List(ctx context.Context, docID string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := m.docs[docID]
	out := make([]*Record, 0, len(users))
	for _, rec := range users {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, docID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if users, ok := m.docs[docID]; ok {
		delete(users, userID)
	}
	return nil
}
