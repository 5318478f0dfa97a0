package assignment

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"readspace/internal/adapters/storage"
	domain "readspace/internal/domain/assignment"
)

const assignmentColumns = "id, pathway_id, user_id, status, started_at, materials_acknowledged, materials_acknowledged_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AssignmentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByIDForUser retrieves an Assignment scoped to its owning user.
// PRE: id and userID are non-empty
// POST: Returns the entity or ErrNotFound; never another user's assignment
func (s *SQLiteStore) GetByIDForUser(ctx context.Context, id, userID string) (domain.Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM pathway_assignment WHERE id = ? AND user_id = ?", id, userID)
	entity, err := scanAssignment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assignment{}, ErrNotFound
	}
	return entity, err
}

// FindActive retrieves the active Assignment for a (pathway, user) pair.
// PRE: pathwayID and userID are non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) FindActive(ctx context.Context, pathwayID, userID string) (domain.Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM pathway_assignment WHERE pathway_id = ? AND user_id = ? AND status = ?",
		pathwayID, userID, domain.StatusActive)
	entity, err := scanAssignment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assignment{}, ErrNotFound
	}
	return entity, err
}

// Create inserts a new Assignment.
// PRE: entity has been validated
// POST: Row inserted, or ErrDuplicateActive if the partial unique index rejects it
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Assignment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pathway_assignment (id, pathway_id, user_id, status, started_at, materials_acknowledged, materials_acknowledged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entity.ID,
		entity.PathwayID,
		entity.UserID,
		entity.Status,
		entity.StartedAt.Format(time.RFC3339Nano),
		boolToInt(entity.MaterialsAcknowledged),
		nullableTime(entity.MaterialsAcknowledgedAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateActive
	}
	return err
}

// Save persists an Assignment (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Assignment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pathway_assignment (id, pathway_id, user_id, status, started_at, materials_acknowledged, materials_acknowledged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			materials_acknowledged=excluded.materials_acknowledged,
			materials_acknowledged_at=excluded.materials_acknowledged_at`,
		entity.ID,
		entity.PathwayID,
		entity.UserID,
		entity.Status,
		entity.StartedAt.Format(time.RFC3339Nano),
		boolToInt(entity.MaterialsAcknowledged),
		nullableTime(entity.MaterialsAcknowledgedAt),
	)
	return err
}

// ListActiveByUser retrieves a user's active assignments, newest started first.
// PRE: userID is non-empty
// POST: Returns matching entities
func (s *SQLiteStore) ListActiveByUser(ctx context.Context, userID string) ([]domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+assignmentColumns+" FROM pathway_assignment WHERE user_id = ? AND status = ? ORDER BY started_at DESC",
		userID, domain.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Assignment
	for rows.Next() {
		entity, err := scanAssignment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// CompletedDays retrieves the completed day numbers for an assignment, ascending.
// PRE: assignmentID is non-empty
// POST: Returns distinct day numbers
func (s *SQLiteStore) CompletedDays(ctx context.Context, assignmentID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT day_number FROM pathway_completed_day WHERE assignment_id = ? ORDER BY day_number", assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []int
	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// MarkDayComplete upserts a CompletedDay keyed on (assignment_id, day_number).
// PRE: value has a non-empty AssignmentID and DayNumber >= 1
// POST: Exactly one row exists for the key; CompletedAt keeps the first value
func (s *SQLiteStore) MarkDayComplete(ctx context.Context, value domain.CompletedDay) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pathway_completed_day (assignment_id, day_number, completed_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(assignment_id, day_number) DO NOTHING`,
		value.AssignmentID,
		value.DayNumber,
		value.CompletedAt.Format(time.RFC3339Nano),
	)
	return err
}

// UnmarkDayComplete deletes the CompletedDay row for the key if present.
// PRE: assignmentID is non-empty
// POST: No row exists for the key; deleting an absent row is not an error
func (s *SQLiteStore) UnmarkDayComplete(ctx context.Context, assignmentID string, dayNumber int) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM pathway_completed_day WHERE assignment_id = ? AND day_number = ?",
		assignmentID, dayNumber)
	return err
}

// scanAssignment extracts an Assignment from a row scanner function.
func scanAssignment(scan func(dest ...any) error) (domain.Assignment, error) {
	var entity domain.Assignment
	var startedAt string
	var acknowledged int
	var acknowledgedAt sql.NullString
	err := scan(
		&entity.ID,
		&entity.PathwayID,
		&entity.UserID,
		&entity.Status,
		&startedAt,
		&acknowledged,
		&acknowledgedAt,
	)
	if err != nil {
		return domain.Assignment{}, err
	}
	entity.StartedAt, _ = storage.ParseTime(startedAt)
	entity.MaterialsAcknowledged = acknowledged != 0
	if acknowledgedAt.Valid && acknowledgedAt.String != "" {
		entity.MaterialsAcknowledgedAt, _ = storage.ParseTime(acknowledgedAt.String)
	}
	return entity, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
