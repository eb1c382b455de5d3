package repository

import (
	"context"
	"errors"

	"github.com/codocs/codocs/internal/document"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrCodeTaken = errors.New("access code already in use")
)

// Repository defines persistence operations for documents. Implementations
// must keep UpdatedAt non-decreasing across mutations and reject an access
// code that is already held by another document.
type Repository interface {
	Create(ctx context.Context, doc *document.Document) error
	Get(ctx context.Context, id string) (*document.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*document.Document, error)
	Update(ctx context.Context, id string, upd document.Update) error
	SetAccessCode(ctx context.Context, id, code string) error
	FindByCode(ctx context.Context, code string) (*document.Document, error)
	AddCollaborator(ctx context.Context, id, userID string) error
}
