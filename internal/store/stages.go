package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ravesync/shared/go/models"
)

// ErrStageNotFound signals the stage does not exist.
var ErrStageNotFound = errors.New("stage not found")

// ListStagesByEvent returns every stage of an event.
func (s *Store) ListStagesByEvent(ctx context.Context, eventID int64) ([]models.Stage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, name, COALESCE(description, ''), created_at, updated_at
		FROM stages
		WHERE event_id = $1
		ORDER BY name ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var stages []models.Stage
	for rows.Next() {
		var stage models.Stage
		if err := rows.Scan(&stage.ID, &stage.EventID, &stage.Name, &stage.Description, &stage.CreatedAt, &stage.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		stages = append(stages, stage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stages: %w", err)
	}

	return stages, nil
}

// GetStage returns one stage by ID.
func (s *Store) GetStage(ctx context.Context, id int64) (*models.Stage, error) {
	var stage models.Stage
	err := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, name, COALESCE(description, ''), created_at, updated_at
		FROM stages
		WHERE id = $1
	`, id).Scan(&stage.ID, &stage.EventID, &stage.Name, &stage.Description, &stage.CreatedAt, &stage.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stage: %w", err)
	}
	return &stage, nil
}

// CreateStage inserts a stage under an event.
func (s *Store) CreateStage(ctx context.Context, stage *models.Stage) (*models.Stage, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO stages (event_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, stage.EventID, stage.Name, stage.Description).
		Scan(&stage.ID, &stage.CreatedAt, &stage.UpdatedAt)
	if err != nil {
		if isInsufficientPrivilege(err) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("insert stage: %w", err)
	}
	return stage, nil
}

// UpdateStage rewrites the caller-editable fields of a stage. The
// owning event never changes.
func (s *Store) UpdateStage(ctx context.Context, id int64, stage *models.Stage) (*models.Stage, error) {
	var updated models.Stage
	err := s.db.QueryRowContext(ctx, `
		UPDATE stages
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, event_id, name, COALESCE(description, ''), created_at, updated_at
	`, stage.Name, stage.Description, id).
		Scan(&updated.ID, &updated.EventID, &updated.Name, &updated.Description, &updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update stage: %w", err)
	}
	return &updated, nil
}

// DeleteStage removes a stage and its set times via cascade.
func (s *Store) DeleteStage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stage: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrStageNotFound
	}
	return nil
}

// StageEventID resolves a stage to its owning event.
func (s *Store) StageEventID(ctx context.Context, stageID int64) (int64, bool, error) {
	var eventID int64
	err := s.db.QueryRowContext(ctx, `SELECT event_id FROM stages WHERE id = $1`, stageID).Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup stage event: %w", err)
	}
	return eventID, true, nil
}
