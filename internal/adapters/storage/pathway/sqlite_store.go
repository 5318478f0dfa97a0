package pathway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"readspace/internal/adapters/storage"
	domain "readspace/internal/domain/pathway"
)

const pathwayColumns = "id, kind, status, title, overview, goals, suitable_for, daily_minutes, assigned_user_id, attribution, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new PathwayStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Pathway with its requirement and ordered blocks.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Pathway, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+pathwayColumns+" FROM pathway WHERE id = ?", id)
	entity, err := scanPathway(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Pathway{}, ErrNotFound
	}
	if err != nil {
		return domain.Pathway{}, err
	}
	if err := s.attachChildren(ctx, &entity); err != nil {
		return domain.Pathway{}, err
	}
	return entity, nil
}

// ListPublished retrieves active platform pathways, newest first.
// PRE: none
// POST: Returns matching entities with requirements and ordered blocks
func (s *SQLiteStore) ListPublished(ctx context.Context) ([]domain.Pathway, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+pathwayColumns+" FROM pathway WHERE kind = ? AND status = ? ORDER BY created_at DESC",
		domain.KindPlatform, domain.StatusActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Pathway
	for rows.Next() {
		entity, err := scanPathway(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		if err := s.attachChildren(ctx, &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Save persists a Pathway together with its requirement and blocks.
// PRE: entity has been validated
// POST: Pathway row upserted; requirement and block rows replaced
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Pathway) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var assignedUser any
	if entity.AssignedUserID != "" {
		assignedUser = entity.AssignedUserID
	}
	var attribution any
	if entity.Attribution != nil {
		b, err := json.Marshal(entity.Attribution)
		if err != nil {
			return fmt.Errorf("marshal attribution: %w", err)
		}
		attribution = string(b)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pathway (id, kind, status, title, overview, goals, suitable_for, daily_minutes, assigned_user_id, attribution, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind,
			status=excluded.status,
			title=excluded.title,
			overview=excluded.overview,
			goals=excluded.goals,
			suitable_for=excluded.suitable_for,
			daily_minutes=excluded.daily_minutes,
			assigned_user_id=excluded.assigned_user_id,
			attribution=excluded.attribution`,
		entity.ID,
		entity.Kind,
		entity.Status,
		entity.Title,
		entity.Overview,
		mustJSON(entity.Goals),
		mustJSON(entity.SuitableFor),
		entity.DailyMinutes,
		assignedUser,
		attribution,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pathway_requirement (pathway_id, materials_required, space_types, time_needs, setup_minutes, environment_text, acknowledgement_required)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pathway_id) DO UPDATE SET
			materials_required=excluded.materials_required,
			space_types=excluded.space_types,
			time_needs=excluded.time_needs,
			setup_minutes=excluded.setup_minutes,
			environment_text=excluded.environment_text,
			acknowledgement_required=excluded.acknowledgement_required`,
		entity.ID,
		mustJSON(entity.Requirement.MaterialsRequired),
		mustJSON(entity.Requirement.SpaceTypes),
		mustJSON(entity.Requirement.TimeNeeds),
		entity.Requirement.SetupMinutes,
		entity.Requirement.EnvironmentText,
		boolToInt(entity.Requirement.AcknowledgementRequired),
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM pathway_block WHERE pathway_id = ?", entity.ID); err != nil {
		return err
	}
	for _, b := range entity.Blocks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO pathway_block (id, pathway_id, day_number, block_order, time_of_day, duration_minutes, instructions, materials, practice_type, attribution)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID,
			entity.ID,
			b.DayNumber,
			b.BlockOrder,
			b.TimeOfDay,
			b.DurationMinutes,
			mustJSON(b.Instructions),
			mustJSON(b.Materials),
			b.PracticeType,
			b.Attribution,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a Pathway; requirement and blocks cascade.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM pathway WHERE id = ?", id)
	return err
}

// Count returns the total number of pathways.
// PRE: none
// POST: Returns total pathway count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pathway").Scan(&count)
	return count, err
}

// attachChildren loads the requirement and ordered blocks for a pathway.
func (s *SQLiteStore) attachChildren(ctx context.Context, entity *domain.Pathway) error {
	row := s.db.QueryRowContext(ctx,
		`SELECT materials_required, space_types, time_needs, setup_minutes, environment_text, acknowledgement_required
		 FROM pathway_requirement WHERE pathway_id = ?`, entity.ID)

	var materials, spaceTypes, timeNeeds string
	var ackRequired int
	err := row.Scan(&materials, &spaceTypes, &timeNeeds, &entity.Requirement.SetupMinutes, &entity.Requirement.EnvironmentText, &ackRequired)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// A pathway without a requirement row has no prerequisites.
	case err != nil:
		return err
	default:
		if err := json.Unmarshal([]byte(materials), &entity.Requirement.MaterialsRequired); err != nil {
			return fmt.Errorf("unmarshal materials_required: %w", err)
		}
		if err := json.Unmarshal([]byte(spaceTypes), &entity.Requirement.SpaceTypes); err != nil {
			return fmt.Errorf("unmarshal space_types: %w", err)
		}
		if err := json.Unmarshal([]byte(timeNeeds), &entity.Requirement.TimeNeeds); err != nil {
			return fmt.Errorf("unmarshal time_needs: %w", err)
		}
		entity.Requirement.AcknowledgementRequired = ackRequired != 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pathway_id, day_number, block_order, time_of_day, duration_minutes, instructions, materials, practice_type, attribution
		 FROM pathway_block WHERE pathway_id = ? ORDER BY day_number, block_order`, entity.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	entity.Blocks = nil
	for rows.Next() {
		var b domain.Block
		var instructions, blockMaterials string
		if err := rows.Scan(&b.ID, &b.PathwayID, &b.DayNumber, &b.BlockOrder, &b.TimeOfDay, &b.DurationMinutes, &instructions, &blockMaterials, &b.PracticeType, &b.Attribution); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(instructions), &b.Instructions); err != nil {
			return fmt.Errorf("unmarshal instructions: %w", err)
		}
		if err := json.Unmarshal([]byte(blockMaterials), &b.Materials); err != nil {
			return fmt.Errorf("unmarshal materials: %w", err)
		}
		entity.Blocks = append(entity.Blocks, b)
	}
	return rows.Err()
}

// scanPathway extracts a Pathway row (without children) from a scanner function.
func scanPathway(scan func(dest ...any) error) (domain.Pathway, error) {
	var entity domain.Pathway
	var goals, suitableFor, createdAt string
	var assignedUser, attribution sql.NullString
	err := scan(
		&entity.ID,
		&entity.Kind,
		&entity.Status,
		&entity.Title,
		&entity.Overview,
		&goals,
		&suitableFor,
		&entity.DailyMinutes,
		&assignedUser,
		&attribution,
		&createdAt,
	)
	if err != nil {
		return domain.Pathway{}, err
	}
	if err := json.Unmarshal([]byte(goals), &entity.Goals); err != nil {
		return domain.Pathway{}, fmt.Errorf("unmarshal goals: %w", err)
	}
	if err := json.Unmarshal([]byte(suitableFor), &entity.SuitableFor); err != nil {
		return domain.Pathway{}, fmt.Errorf("unmarshal suitable_for: %w", err)
	}
	if assignedUser.Valid {
		entity.AssignedUserID = assignedUser.String
	}
	if attribution.Valid && attribution.String != "" {
		var attr domain.Attribution
		if err := json.Unmarshal([]byte(attribution.String), &attr); err != nil {
			return domain.Pathway{}, fmt.Errorf("unmarshal attribution: %w", err)
		}
		entity.Attribution = &attr
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}

// mustJSON marshals a value that cannot fail (slices of strings/structs).
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	if string(b) == "null" {
		return "[]"
	}
	return string(b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
