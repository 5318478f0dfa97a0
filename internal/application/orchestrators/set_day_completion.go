package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	assignmentstore "readspace/internal/adapters/storage/assignment"
	pathwaystore "readspace/internal/adapters/storage/pathway"
	"readspace/internal/application/policy"
	domainAssignment "readspace/internal/domain/assignment"
	domainPathway "readspace/internal/domain/pathway"
)

// AssignmentStoreForCompletion defines the assignment store interface needed by SetDayCompletion.
type AssignmentStoreForCompletion interface {
	GetByIDForUser(ctx context.Context, id, userID string) (domainAssignment.Assignment, error)
	CompletedDays(ctx context.Context, assignmentID string) ([]int, error)
	MarkDayComplete(ctx context.Context, value domainAssignment.CompletedDay) error
	UnmarkDayComplete(ctx context.Context, assignmentID string, dayNumber int) error
}

// SetDayCompletionInput carries input for the orchestrator.
type SetDayCompletionInput struct {
	AssignmentID string
	DayNumber    int
	Viewer       policy.Viewer
	Complete     bool
}

// SetDayCompletionDeps holds dependencies for SetDayCompletion.
type SetDayCompletionDeps struct {
	AssignmentStore AssignmentStoreForCompletion
	PathwayStore    PathwayStoreForList
}

// SetDayCompletionResult carries the assignment's progress after the toggle.
type SetDayCompletionResult struct {
	CompletedDays     []int
	TotalDays         int
	CompletionPercent int
}

// ExecuteSetDayCompletion toggles one day of an assignment complete or
// incomplete. The assignment is resolved through a viewer-scoped lookup, so
// a caller can never toggle another user's assignment, and the day number
// is validated against the pathway's block range.
// PRE: Input is populated
// POST: Complete=true upserts the day (idempotent); false deletes it if present
func ExecuteSetDayCompletion(ctx context.Context, input SetDayCompletionInput, deps SetDayCompletionDeps) (SetDayCompletionResult, error) {
	if input.Viewer.IsAnonymous() {
		return SetDayCompletionResult{}, ErrAuthRequired
	}

	a, err := deps.AssignmentStore.GetByIDForUser(ctx, input.AssignmentID, input.Viewer.UserID)
	if errors.Is(err, assignmentstore.ErrNotFound) {
		return SetDayCompletionResult{}, ErrAssignmentNotFound
	}
	if err != nil {
		return SetDayCompletionResult{}, err
	}

	p, err := deps.PathwayStore.GetByID(ctx, a.PathwayID)
	if errors.Is(err, pathwaystore.ErrNotFound) {
		return SetDayCompletionResult{}, ErrPathwayNotFound
	}
	if err != nil {
		return SetDayCompletionResult{}, err
	}

	totalDays := domainPathway.MaxDay(p.Blocks)
	if input.DayNumber < 1 || input.DayNumber > totalDays {
		return SetDayCompletionResult{}, domainAssignment.ErrDayOutOfRange
	}

	if input.Complete {
		err = deps.AssignmentStore.MarkDayComplete(ctx, domainAssignment.CompletedDay{
			AssignmentID: a.ID,
			DayNumber:    input.DayNumber,
			CompletedAt:  time.Now(),
		})
	} else {
		err = deps.AssignmentStore.UnmarkDayComplete(ctx, a.ID, input.DayNumber)
	}
	if err != nil {
		return SetDayCompletionResult{}, err
	}

	completed, err := deps.AssignmentStore.CompletedDays(ctx, a.ID)
	if err != nil {
		return SetDayCompletionResult{}, err
	}

	slog.Info("pathway_event", "event", "day_toggled", "assignment_id", a.ID, "day", input.DayNumber, "complete", input.Complete)
	return SetDayCompletionResult{
		CompletedDays:     completed,
		TotalDays:         totalDays,
		CompletionPercent: domainAssignment.CompletionPercent(completed, totalDays),
	}, nil
}
