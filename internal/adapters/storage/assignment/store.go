package assignment

import (
	"context"
	"errors"

	domain "readspace/internal/domain/assignment"
)

// Store errors
var (
	// ErrNotFound is returned when no assignment matches the lookup.
	ErrNotFound = errors.New("assignment not found")
	// ErrDuplicateActive is returned when an insert would create a second
	// active assignment for the same (pathway, user) pair.
	ErrDuplicateActive = errors.New("user already has an active assignment for this pathway")
)

// Store persists Assignment and CompletedDay state.
type Store interface {
	// GetByIDForUser resolves an assignment through a viewer-scoped lookup.
	// An assignment belonging to a different user is ErrNotFound.
	GetByIDForUser(ctx context.Context, id, userID string) (domain.Assignment, error)
	// FindActive returns the active assignment for (pathway, user), or ErrNotFound.
	FindActive(ctx context.Context, pathwayID, userID string) (domain.Assignment, error)
	// Create inserts a new assignment. A second active assignment for the
	// same (pathway, user) pair fails with ErrDuplicateActive.
	Create(ctx context.Context, value domain.Assignment) error
	Save(ctx context.Context, value domain.Assignment) error
	// ListActiveByUser returns the user's active assignments, newest started first.
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Assignment, error)

	// CompletedDays returns the distinct completed day numbers, ascending.
	CompletedDays(ctx context.Context, assignmentID string) ([]int, error)
	// MarkDayComplete upserts a completed-day row; re-marking is a no-op.
	MarkDayComplete(ctx context.Context, value domain.CompletedDay) error
	// UnmarkDayComplete deletes the row if present; absence is not an error.
	UnmarkDayComplete(ctx context.Context, assignmentID string, dayNumber int) error
}
