package repository

import (
	"context"
	"sync"
	"time"

	"github.com/codocs/codocs/internal/document"
)

// MemoryRepo is a simple in-memory repository used for unit tests and for
// running the service without a MongoDB instance.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*document.Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*document.Document)}
}

func (m *MemoryRepo) Create(ctx context.Context, doc *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	cp := *doc
	m.store[doc.ID] = &cp
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*document.Document, 0)
	for _, d := range m.store {
		if d.OwnerID == ownerID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, upd document.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	if upd.Title != nil {
		d.Title = *upd.Title
	}
	if upd.Content != nil {
		d.Content = *upd.Content
	}
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) SetAccessCode(ctx context.Context, id, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	// uniqueness check across all documents, under the same lock as the write
	for otherID, other := range m.store {
		if otherID != id && other.AccessCode == code {
			return ErrCodeTaken
		}
	}
	d.AccessCode = code
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) FindByCode(ctx context.Context, code string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.store {
		if d.AccessCode != "" && d.AccessCode == code {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) AddCollaborator(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	if !d.HasCollaborator(userID) {
		d.Collaborators = append(d.Collaborators, userID)
		d.UpdatedAt = time.Now().UTC()
	}
	return nil
}
