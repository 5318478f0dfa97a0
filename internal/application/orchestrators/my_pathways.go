package orchestrators

import (
	"context"

	"readspace/internal/application/policy"
	domainAssignment "readspace/internal/domain/assignment"
	domainPathway "readspace/internal/domain/pathway"
)

// AssignmentStoreForList defines the assignment store interface needed by ListMyPathways.
type AssignmentStoreForList interface {
	ListActiveByUser(ctx context.Context, userID string) ([]domainAssignment.Assignment, error)
	CompletedDays(ctx context.Context, assignmentID string) ([]int, error)
}

// PathwayStoreForList defines the pathway store interface needed by ListMyPathways.
type PathwayStoreForList interface {
	GetByID(ctx context.Context, id string) (domainPathway.Pathway, error)
}

// MyPathway is one active enrollment joined with its pathway and progress.
// Completion and day grouping are derived on every read, never stored.
type MyPathway struct {
	Assignment        domainAssignment.Assignment
	Pathway           domainPathway.Pathway
	CompletedDays     []int
	TotalDays         int
	CompletionPercent int
	Days              []domainPathway.DayGroup
}

// ListMyPathwaysDeps holds dependencies for ListMyPathways.
type ListMyPathwaysDeps struct {
	AssignmentStore AssignmentStoreForList
	PathwayStore    PathwayStoreForList
}

// ExecuteListMyPathways returns the viewer's active enrollments, newest
// started first, each with its pathway and completed-day set. Completed
// days are a separate lookup per assignment, not a join, so that query
// stays independent of pathway size.
// PRE: stores are wired
// POST: Returns one entry per active assignment
func ExecuteListMyPathways(ctx context.Context, viewer policy.Viewer, deps ListMyPathwaysDeps) ([]MyPathway, error) {
	if viewer.IsAnonymous() {
		return nil, ErrAuthRequired
	}

	assignments, err := deps.AssignmentStore.ListActiveByUser(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	results := make([]MyPathway, 0, len(assignments))
	for _, a := range assignments {
		p, err := deps.PathwayStore.GetByID(ctx, a.PathwayID)
		if err != nil {
			return nil, err
		}
		completed, err := deps.AssignmentStore.CompletedDays(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		totalDays := domainPathway.MaxDay(p.Blocks)
		results = append(results, MyPathway{
			Assignment:        a,
			Pathway:           p,
			CompletedDays:     completed,
			TotalDays:         totalDays,
			CompletionPercent: domainAssignment.CompletionPercent(completed, totalDays),
			Days:              domainPathway.GroupByDay(p.Blocks),
		})
	}
	return results, nil
}
