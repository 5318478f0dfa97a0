package intake

import (
	"context"
	"time"

	"readspace/internal/adapters/storage"
	domain "readspace/internal/domain/intake"
)

const submissionColumns = "id, name, email, phone, date_of_birth, time_of_birth, place_of_birth, area, unclear, session_type, duration_minutes, is_package, submitted_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new intake SubmissionStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a Submission.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO intake_submission (id, name, email, phone, date_of_birth, time_of_birth, place_of_birth, area, unclear, session_type, duration_minutes, is_package, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		entity.ID,
		entity.Name,
		entity.Email,
		entity.Phone,
		entity.DateOfBirth,
		entity.TimeOfBirth,
		entity.PlaceOfBirth,
		entity.Area,
		entity.Unclear,
		entity.SessionType,
		entity.DurationMinutes,
		boolToInt(entity.IsPackage),
		entity.SubmittedAt.Format(time.RFC3339Nano),
	)
	return err
}

// List retrieves submissions, newest first.
// PRE: limit > 0
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+submissionColumns+" FROM intake_submission ORDER BY submitted_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Submission
	for rows.Next() {
		var entity domain.Submission
		var submittedAt string
		var isPackage int
		if err := rows.Scan(
			&entity.ID,
			&entity.Name,
			&entity.Email,
			&entity.Phone,
			&entity.DateOfBirth,
			&entity.TimeOfBirth,
			&entity.PlaceOfBirth,
			&entity.Area,
			&entity.Unclear,
			&entity.SessionType,
			&entity.DurationMinutes,
			&isPackage,
			&submittedAt,
		); err != nil {
			return nil, err
		}
		entity.IsPackage = isPackage != 0
		entity.SubmittedAt, _ = storage.ParseTime(submittedAt)
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of submissions.
// PRE: none
// POST: Returns total submission count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM intake_submission").Scan(&count)
	return count, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
