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

	"github.com/google/uuid"
)

// PathwayStoreForStart defines the pathway store interface needed by StartPathway.
type PathwayStoreForStart interface {
	GetByID(ctx context.Context, id string) (domainPathway.Pathway, error)
}

// AssignmentStoreForStart defines the assignment store interface needed by StartPathway.
type AssignmentStoreForStart interface {
	FindActive(ctx context.Context, pathwayID, userID string) (domainAssignment.Assignment, error)
	Create(ctx context.Context, value domainAssignment.Assignment) error
}

// StartPathwayInput carries input for the orchestrator.
type StartPathwayInput struct {
	PathwayID             string
	Viewer                policy.Viewer
	MaterialsAcknowledged bool
}

// StartPathwayDeps holds dependencies for StartPathway.
type StartPathwayDeps struct {
	PathwayStore    PathwayStoreForStart
	AssignmentStore AssignmentStoreForStart
}

// ExecuteStartPathway enrolls the viewer in a pathway.
// PRE: Input is populated; stores are wired
// POST: Exactly one assignment row created, or none on any failure path
// INVARIANT: At most one active assignment per (user, pathway)
func ExecuteStartPathway(ctx context.Context, input StartPathwayInput, deps StartPathwayDeps) (domainAssignment.Assignment, error) {
	if input.Viewer.IsAnonymous() {
		return domainAssignment.Assignment{}, ErrAuthRequired
	}

	p, err := deps.PathwayStore.GetByID(ctx, input.PathwayID)
	if errors.Is(err, pathwaystore.ErrNotFound) {
		return domainAssignment.Assignment{}, ErrPathwayNotFound
	}
	if err != nil {
		return domainAssignment.Assignment{}, err
	}

	// Re-validate visibility: active status, practitioner assignment, and
	// default-deny for unrecognized kinds.
	if decision := policy.DecideView(p, input.Viewer); !decision.Allowed {
		if decision.RequiresAuth {
			return domainAssignment.Assignment{}, ErrAuthRequired
		}
		slog.Info("pathway_start_denied", "pathway_id", p.ID, "user_id", input.Viewer.UserID, "reason", decision.Reason)
		return domainAssignment.Assignment{}, ErrForbidden
	}

	if existing, err := deps.AssignmentStore.FindActive(ctx, p.ID, input.Viewer.UserID); err == nil {
		return domainAssignment.Assignment{}, &AlreadyAssignedError{Existing: existing}
	} else if !errors.Is(err, assignmentstore.ErrNotFound) {
		return domainAssignment.Assignment{}, err
	}

	if p.Requirement.AcknowledgementRequired && !input.MaterialsAcknowledged {
		return domainAssignment.Assignment{}, ErrAcknowledgmentRequired
	}

	// Reaching this point means any acknowledgment gate has been passed, so
	// every created assignment records the acknowledgment.
	now := time.Now()
	created := domainAssignment.Assignment{
		ID:                      uuid.New().String(),
		PathwayID:               p.ID,
		UserID:                  input.Viewer.UserID,
		Status:                  domainAssignment.StatusActive,
		StartedAt:               now,
		MaterialsAcknowledged:   true,
		MaterialsAcknowledgedAt: now,
	}
	if err := created.Validate(); err != nil {
		return domainAssignment.Assignment{}, err
	}

	if err := deps.AssignmentStore.Create(ctx, created); err != nil {
		// The partial unique index caught a concurrent duplicate start.
		if errors.Is(err, assignmentstore.ErrDuplicateActive) {
			if existing, findErr := deps.AssignmentStore.FindActive(ctx, p.ID, input.Viewer.UserID); findErr == nil {
				return domainAssignment.Assignment{}, &AlreadyAssignedError{Existing: existing}
			}
			return domainAssignment.Assignment{}, &AlreadyAssignedError{}
		}
		return domainAssignment.Assignment{}, err
	}

	slog.Info("pathway_event", "event", "pathway_started", "pathway_id", p.ID, "user_id", input.Viewer.UserID, "assignment_id", created.ID)
	return created, nil
}
