package assignment

import (
	"errors"
	"math"
	"time"
)

// Assignment status constants
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// ValidStatuses contains all valid assignment statuses.
var ValidStatuses = []string{StatusActive, StatusCompleted, StatusAbandoned}

// Domain errors
var (
	ErrEmptyPathwayID = errors.New("assignment must reference a pathway")
	ErrEmptyUserID    = errors.New("assignment must reference a user")
	ErrInvalidStatus  = errors.New("assignment status must be 'active', 'completed' or 'abandoned'")
	ErrDayOutOfRange  = errors.New("day number is outside the pathway's day range")
)

// Assignment is a user's enrollment in a pathway.
type Assignment struct {
	ID                      string
	PathwayID               string
	UserID                  string
	Status                  string // "active", "completed" or "abandoned"
	StartedAt               time.Time
	MaterialsAcknowledged   bool
	MaterialsAcknowledgedAt time.Time // set iff MaterialsAcknowledged
}

// CompletedDay marks one day of an assignment as done.
// Keyed on (AssignmentID, DayNumber); re-marking is an idempotent upsert.
type CompletedDay struct {
	AssignmentID string
	DayNumber    int
	CompletedAt  time.Time
}

// Validate checks if the Assignment has valid data.
// PRE: Assignment struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: MaterialsAcknowledgedAt is set iff MaterialsAcknowledged
func (a *Assignment) Validate() error {
	if a.PathwayID == "" {
		return ErrEmptyPathwayID
	}
	if a.UserID == "" {
		return ErrEmptyUserID
	}
	if !isValidStatus(a.Status) {
		return ErrInvalidStatus
	}
	if a.MaterialsAcknowledged != !a.MaterialsAcknowledgedAt.IsZero() {
		return errors.New("materials acknowledgment timestamp must be set exactly when acknowledged")
	}
	return nil
}

// IsActive returns true if the assignment is surfaced in standard listings.
func (a *Assignment) IsActive() bool {
	return a.Status == StatusActive
}

// CompletionPercent computes the percentage of pathway days completed.
// PRE: completedDays holds distinct day numbers; maxDay is the pathway's
// highest block day number
// POST: Returns round(100 * completed / maxDay); 0 when maxDay == 0
func CompletionPercent(completedDays []int, maxDay int) int {
	if maxDay <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(completedDays)) / float64(maxDay)))
}

// DayCompleted returns true if day is in the completed set.
func DayCompleted(completedDays []int, day int) bool {
	for _, d := range completedDays {
		if d == day {
			return true
		}
	}
	return false
}

func isValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
