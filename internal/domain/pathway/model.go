package pathway

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Pathway kind constants
const (
	KindPlatform     = "platform"
	KindPractitioner = "practitioner"
)

// Pathway status constants
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Block attribution constants
const (
	AttributionPlatform     = "platform"
	AttributionPractitioner = "practitioner"
)

// ValidKinds contains all valid pathway kinds.
var ValidKinds = []string{KindPlatform, KindPractitioner}

// ValidStatuses contains all valid pathway statuses.
var ValidStatuses = []string{StatusDraft, StatusActive, StatusArchived}

// Domain errors
var (
	ErrEmptyTitle          = errors.New("pathway title cannot be empty")
	ErrInvalidKind         = errors.New("pathway kind must be 'platform' or 'practitioner'")
	ErrInvalidStatus       = errors.New("pathway status must be 'draft', 'active' or 'archived'")
	ErrMissingAssignedUser = errors.New("practitioner pathway must have an assigned user")
	ErrInvalidDayNumber    = errors.New("block day number must be >= 1")
)

// Pathway represents a multi-day practice program template.
type Pathway struct {
	ID             string
	Kind           string // "platform" or "practitioner"
	Status         string // "draft", "active" or "archived"
	Title          string
	Overview       string
	Goals          []string
	SuitableFor    []string
	DailyMinutes   int
	AssignedUserID string // set only for practitioner pathways
	Attribution    *Attribution
	CreatedAt      time.Time

	Requirement Requirement
	Blocks      []Block
}

// Attribution names the practitioner who prescribed a pathway.
type Attribution struct {
	PractitionerName        string
	Credentials             string
	Jurisdiction            string
	ResponsibilityStatement string
}

// MaterialItem is one entry in a requirement's materials list.
// A bare label defaults to Required=true.
type MaterialItem struct {
	Label    string
	Required bool
}

// Requirement describes prerequisites for starting a pathway.
type Requirement struct {
	MaterialsRequired       []MaterialItem
	SpaceTypes              []string
	TimeNeeds               []string
	SetupMinutes            int
	EnvironmentText         string // free text alternative to the structured fields
	AcknowledgementRequired bool
}

// Block is one unit of daily practice within a pathway.
type Block struct {
	ID              string
	PathwayID       string
	DayNumber       int // 1-based
	BlockOrder      int // tie-break within a day, defaults to 0
	TimeOfDay       string
	DurationMinutes int
	Instructions    []string
	Materials       []string
	PracticeType    string
	Attribution     string // "platform" or "practitioner"
}

// Validate checks if the Pathway has valid data.
// PRE: Pathway struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Pathway) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if !isValidKind(p.Kind) {
		return ErrInvalidKind
	}
	if !isValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	if p.Kind == KindPractitioner && p.AssignedUserID == "" {
		return ErrMissingAssignedUser
	}
	for _, b := range p.Blocks {
		if b.DayNumber < 1 {
			return ErrInvalidDayNumber
		}
	}
	return nil
}

// IsActive returns true if the pathway is visible to end users.
func (p *Pathway) IsActive() bool {
	return p.Status == StatusActive
}

// IsAssignedTo returns true if the pathway is a practitioner pathway
// prescribed to the given user.
// PRE: userID may be empty (anonymous)
// POST: Returns false for platform pathways and for non-matching users
func (p *Pathway) IsAssignedTo(userID string) bool {
	return p.Kind == KindPractitioner && userID != "" && p.AssignedUserID == userID
}

// SortBlocks orders blocks by (DayNumber, BlockOrder) in place.
// INVARIANT: The block sequence is totally ordered by (DayNumber, BlockOrder)
func SortBlocks(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].DayNumber != blocks[j].DayNumber {
			return blocks[i].DayNumber < blocks[j].DayNumber
		}
		return blocks[i].BlockOrder < blocks[j].BlockOrder
	})
}

// DayGroup holds the ordered blocks for one day of a pathway.
type DayGroup struct {
	DayNumber int
	Blocks    []Block
}

// GroupByDay groups a pathway's blocks by day number, days ascending and
// blocks within each day ordered by BlockOrder.
// PRE: blocks may be in any order
// POST: Returns one group per distinct day, ascending
func GroupByDay(blocks []Block) []DayGroup {
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)
	SortBlocks(sorted)

	var groups []DayGroup
	for _, b := range sorted {
		if len(groups) == 0 || groups[len(groups)-1].DayNumber != b.DayNumber {
			groups = append(groups, DayGroup{DayNumber: b.DayNumber})
		}
		last := &groups[len(groups)-1]
		last.Blocks = append(last.Blocks, b)
	}
	return groups
}

// MaxDay returns the highest day number across the blocks, or 0 for none.
func MaxDay(blocks []Block) int {
	max := 0
	for _, b := range blocks {
		if b.DayNumber > max {
			max = b.DayNumber
		}
	}
	return max
}

// HasDay returns true if any block is anchored to the given day number.
func HasDay(blocks []Block, day int) bool {
	for _, b := range blocks {
		if b.DayNumber == day {
			return true
		}
	}
	return false
}

func isValidKind(k string) bool {
	for _, v := range ValidKinds {
		if v == k {
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
