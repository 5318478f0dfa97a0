package policy

import (
	"context"

	pathwaystore "readspace/internal/adapters/storage/pathway"
	"readspace/internal/domain/pathway"
)

// Deny reasons surfaced to callers.
const (
	ReasonNotActive   = "pathway not active"
	ReasonNotAssigned = "pathway not assigned to viewer"
	ReasonUnknownKind = "unknown pathway kind"
	ReasonAuth        = "authentication required"
)

// Viewer identifies who is asking. A zero Viewer is anonymous.
type Viewer struct {
	UserID string
}

// IsAnonymous returns true if no identity is present.
func (v Viewer) IsAnonymous() bool {
	return v.UserID == ""
}

// Decision is the outcome of an access check.
type Decision struct {
	Allowed      bool
	RequiresAuth bool   // set when the only obstacle is a missing identity
	Reason       string // set when denied
}

// allow is the affirmative decision.
var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// PathwayStore is the store interface needed by access checks.
type PathwayStore interface {
	GetByID(ctx context.Context, id string) (pathway.Pathway, error)
}

// DecideView applies the view rules to an already-loaded pathway.
// Draft and archived pathways are invisible to everyone; platform pathways
// are public; practitioner pathways are visible only to their assigned user.
// Unrecognized kinds deny by default so a future kind is never silently exposed.
// PRE: p is a loaded pathway
// POST: Returns a Decision; never an error
func DecideView(p pathway.Pathway, viewer Viewer) Decision {
	if !p.IsActive() {
		return deny(ReasonNotActive)
	}
	switch p.Kind {
	case pathway.KindPlatform:
		return allow
	case pathway.KindPractitioner:
		if viewer.IsAnonymous() {
			return Decision{RequiresAuth: true, Reason: ReasonAuth}
		}
		if p.AssignedUserID == viewer.UserID {
			return allow
		}
		return deny(ReasonNotAssigned)
	default:
		return deny(ReasonUnknownKind)
	}
}

// CanView fetches the pathway and applies the view rules.
// PRE: pathwayID is non-empty
// POST: Returns the decision, or pathwaystore.ErrNotFound / a store error
func CanView(ctx context.Context, store PathwayStore, pathwayID string, viewer Viewer) (Decision, error) {
	p, err := store.GetByID(ctx, pathwayID)
	if err != nil {
		return Decision{}, err
	}
	return DecideView(p, viewer), nil
}

// CanStart is the cheap pre-check before starting a pathway: it only
// requires an identity. Full validation (pathway status, assignment,
// acknowledgment) happens when the assignment is created.
// PRE: none
// POST: Returns a Decision; never an error
func CanStart(viewer Viewer) Decision {
	if viewer.IsAnonymous() {
		return Decision{RequiresAuth: true, Reason: ReasonAuth}
	}
	return allow
}

var _ PathwayStore = (pathwaystore.Store)(nil)
