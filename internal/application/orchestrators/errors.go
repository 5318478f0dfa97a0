package orchestrators

import (
	"errors"
	"fmt"

	"readspace/internal/domain/assignment"
)

// Failure taxonomy shared by the pathway use cases. Handlers map these onto
// HTTP statuses; none of them is swallowed below this layer.
var (
	// ErrAuthRequired means no identity was present where one is required.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden means an identity was present but is not permitted.
	ErrForbidden = errors.New("not permitted")
	// ErrPathwayNotFound means the referenced pathway does not exist.
	ErrPathwayNotFound = errors.New("pathway not found")
	// ErrAssignmentNotFound means no assignment matched a viewer-scoped lookup.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrAcknowledgmentRequired means the materials gate was not satisfied.
	ErrAcknowledgmentRequired = errors.New("materials and environment requirements must be acknowledged")
)

// AlreadyAssignedError reports that the viewer already has an active
// assignment for the pathway. It is informational: callers typically
// redirect to the existing assignment rather than surface an error.
type AlreadyAssignedError struct {
	Existing assignment.Assignment
}

// Error implements the error interface.
func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("pathway already started (assignment %s)", e.Existing.ID)
}
