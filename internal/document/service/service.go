package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/codocs/codocs/internal/document"
	"github.com/codocs/codocs/internal/document/repository"
	"github.com/codocs/codocs/pkg/metrics"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrUnauthorized = errors.New("caller is not the document owner")
	ErrInvalidTitle = errors.New("document title must not be empty")
	ErrEmptyCode    = errors.New("access code must not be empty")
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
	// maximum collision retries before giving up; with 36^6 codes this is
	// effectively unreachable at any realistic document count
	maxCodeAttempts = 10
)

// Service implements the document business operations over a Repository.
type Service struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create allocates a new empty document owned by ownerID.
func (s *Service) Create(ctx context.Context, title, ownerID string) (*document.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidTitle
	}
	if ownerID == "" {
		return nil, fmt.Errorf("owner id required")
	}
	id, err := newDocumentID()
	if err != nil {
		return nil, err
	}
	d := &document.Document{
		ID:      id,
		Title:   title,
		Content: "",
		OwnerID: ownerID,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	metrics.DocumentsCreated.Inc()
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*document.Document, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return d, nil
}

// Update merges the supplied fields into the document. Retitling is owner-only;
// content changes follow the anyone-with-the-code collaboration model.
func (s *Service) Update(ctx context.Context, id, callerID string, upd document.Update) error {
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return ErrInvalidTitle
		}
		d, err := s.repo.Get(ctx, id)
		if err != nil {
			return mapRepoErr(err)
		}
		if d.OwnerID != callerID {
			return ErrUnauthorized
		}
	}
	if err := s.repo.Update(ctx, id, upd); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

// SaveContent is the content-only autosave path. It deliberately skips the
// ownership fetch so the editor can save without knowing any other fields.
func (s *Service) SaveContent(ctx context.Context, id, content string) error {
	if err := s.repo.Update(ctx, id, document.Update{Content: &content}); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*document.Document, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// GenerateAccessCode draws a fresh 6-character code for the document, retrying
// on collision with any other live code. Owner-only; a previously issued code
// simply stops matching once replaced.
func (s *Service) GenerateAccessCode(ctx context.Context, id, callerID string) (string, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", mapRepoErr(err)
	}
	if d.OwnerID != callerID {
		return "", ErrUnauthorized
	}
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := newAccessCode()
		if err != nil {
			return "", err
		}
		if err := s.repo.SetAccessCode(ctx, id, code); err != nil {
			if errors.Is(err, repository.ErrCodeTaken) {
				metrics.AccessCodeCollisions.Inc()
				continue
			}
			return "", mapRepoErr(err)
		}
		// keep the secondary index in step with the store (best effort)
		_ = repository.UnindexAccessCode(ctx, d.AccessCode)
		_ = repository.IndexAccessCode(ctx, code, id)
		metrics.AccessCodesGenerated.Inc()
		return code, nil
	}
	return "", fmt.Errorf("could not allocate a unique access code after %d attempts", maxCodeAttempts)
}

// FindByCode resolves an access code to its document. Codes are
// case-insensitive; input is uppercased before comparison.
func (s *Service) FindByCode(ctx context.Context, code string) (*document.Document, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrEmptyCode
	}
	// fast path via the Redis index when configured
	if docID, err := repository.LookupAccessCode(ctx, code); err == nil && docID != "" {
		if d, err := s.repo.Get(ctx, docID); err == nil && d.AccessCode == code {
			return d, nil
		}
		// stale index entry: fall through to the store query
	}
	d, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return d, nil
}

// JoinByCode resolves the code and records the caller as a collaborator.
func (s *Service) JoinByCode(ctx context.Context, code, userID string) (*document.Document, error) {
	d, err := s.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if userID != "" && userID != d.OwnerID && !d.HasCollaborator(userID) {
		if err := s.repo.AddCollaborator(ctx, d.ID, userID); err != nil {
			return nil, mapRepoErr(err)
		}
		d.Collaborators = append(d.Collaborators, userID)
	}
	return d, nil
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func newDocumentID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "doc_" + hex.EncodeToString(b), nil
}

func newAccessCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}
