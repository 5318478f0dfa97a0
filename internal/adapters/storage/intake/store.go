package intake

import (
	"context"

	domain "readspace/internal/domain/intake"
)

// Store persists intake submissions.
type Store interface {
	Save(ctx context.Context, value domain.Submission) error
	List(ctx context.Context, limit, offset int) ([]domain.Submission, error)
	Count(ctx context.Context) (int, error)
}
