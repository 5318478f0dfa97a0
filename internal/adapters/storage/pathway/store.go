package pathway

import (
	"context"
	"errors"

	domain "readspace/internal/domain/pathway"
)

// ErrNotFound is returned when no pathway matches the lookup.
var ErrNotFound = errors.New("pathway not found")

// Store persists Pathway state, including each pathway's requirement and blocks.
type Store interface {
	// GetByID returns one pathway of any kind/status with its requirement
	// and ordered block sequence.
	GetByID(ctx context.Context, id string) (domain.Pathway, error)
	// ListPublished returns active platform pathways, joined, newest first.
	ListPublished(ctx context.Context) ([]domain.Pathway, error)
	Save(ctx context.Context, value domain.Pathway) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
