package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ravesync/shared/go/models"
)

var (
	// ErrSetTimeNotFound signals the set time does not exist.
	ErrSetTimeNotFound = errors.New("set time not found")
	// ErrCollaborationNotFound signals the collaboration does not exist.
	ErrCollaborationNotFound = errors.New("collaboration not found")
	// ErrCollaborationExists signals the guest artist is already on the
	// set time.
	ErrCollaborationExists = errors.New("artist already collaborates on this set time")
)

// EventSchedule returns every set time of an event joined with stage
// and artist details, collaborators included, ordered by start time.
func (s *Store) EventSchedule(ctx context.Context, eventID int64) ([]models.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT st.id, st.stage_id, st.artist_id, st.starts_at, st.ends_at, st.created_at, st.updated_at, sg.name, a.name
		FROM set_times st
		JOIN stages sg ON st.stage_id = sg.id
		JOIN artists a ON st.artist_id = a.id
		WHERE sg.event_id = $1
		ORDER BY st.starts_at ASC, sg.name ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	index := make(map[int64]int)
	for rows.Next() {
		var entry models.ScheduleEntry
		if err := rows.Scan(
			&entry.ID, &entry.StageID, &entry.ArtistID, &entry.StartsAt, &entry.EndsAt,
			&entry.CreatedAt, &entry.UpdatedAt, &entry.StageName, &entry.ArtistName,
		); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		index[entry.ID] = len(entries)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule: %w", err)
	}

	if len(entries) == 0 {
		return entries, nil
	}

	collabRows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.set_time_id, c.artist_id, c.created_at, a.name
		FROM set_time_collaborations c
		JOIN artists a ON c.artist_id = a.id
		JOIN set_times st ON c.set_time_id = st.id
		JOIN stages sg ON st.stage_id = sg.id
		WHERE sg.event_id = $1
		ORDER BY a.name ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list schedule collaborations: %w", err)
	}
	defer collabRows.Close()

	for collabRows.Next() {
		var collab models.Collaboration
		if err := collabRows.Scan(&collab.ID, &collab.SetTimeID, &collab.ArtistID, &collab.CreatedAt, &collab.ArtistName); err != nil {
			return nil, fmt.Errorf("scan schedule collaboration: %w", err)
		}
		if i, ok := index[collab.SetTimeID]; ok {
			entries[i].Collaborators = append(entries[i].Collaborators, collab)
		}
	}
	if err := collabRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule collaborations: %w", err)
	}

	return entries, nil
}

// GetSetTime returns one set time by ID.
func (s *Store) GetSetTime(ctx context.Context, id int64) (*models.SetTime, error) {
	var st models.SetTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, stage_id, artist_id, starts_at, ends_at, created_at, updated_at
		FROM set_times
		WHERE id = $1
	`, id).Scan(&st.ID, &st.StageID, &st.ArtistID, &st.StartsAt, &st.EndsAt, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSetTimeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get set time: %w", err)
	}
	return &st, nil
}

// CreateSetTime inserts a set time on a stage.
func (s *Store) CreateSetTime(ctx context.Context, st *models.SetTime) (*models.SetTime, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO set_times (stage_id, artist_id, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, st.StageID, st.ArtistID, st.StartsAt, st.EndsAt).
		Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if isInsufficientPrivilege(err) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("insert set time: %w", err)
	}
	return st, nil
}

// UpdateSetTime rewrites a set time's artist and window. The stage link
// is immutable.
func (s *Store) UpdateSetTime(ctx context.Context, id int64, st *models.SetTime) (*models.SetTime, error) {
	var updated models.SetTime
	err := s.db.QueryRowContext(ctx, `
		UPDATE set_times
		SET artist_id = $1, starts_at = $2, ends_at = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, stage_id, artist_id, starts_at, ends_at, created_at, updated_at
	`, st.ArtistID, st.StartsAt, st.EndsAt, id).
		Scan(&updated.ID, &updated.StageID, &updated.ArtistID, &updated.StartsAt, &updated.EndsAt, &updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSetTimeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update set time: %w", err)
	}
	return &updated, nil
}

// DeleteSetTime removes a set time and its collaborations via cascade.
func (s *Store) DeleteSetTime(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM set_times WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete set time: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSetTimeNotFound
	}
	return nil
}

// SetTimeStageID resolves a set time to its owning stage.
func (s *Store) SetTimeStageID(ctx context.Context, setTimeID int64) (int64, bool, error) {
	var stageID int64
	err := s.db.QueryRowContext(ctx, `SELECT stage_id FROM set_times WHERE id = $1`, setTimeID).Scan(&stageID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup set time stage: %w", err)
	}
	return stageID, true, nil
}

// AddCollaboration adds a guest artist to a set time.
func (s *Store) AddCollaboration(ctx context.Context, setTimeID, artistID int64) (*models.Collaboration, error) {
	collab := models.Collaboration{SetTimeID: setTimeID, ArtistID: artistID}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO set_time_collaborations (set_time_id, artist_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, setTimeID, artistID).
		Scan(&collab.ID, &collab.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCollaborationExists
		}
		if isInsufficientPrivilege(err) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("insert collaboration: %w", err)
	}
	return &collab, nil
}

// RemoveCollaboration removes a guest artist from a set time.
func (s *Store) RemoveCollaboration(ctx context.Context, setTimeID, artistID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM set_time_collaborations
		WHERE set_time_id = $1 AND artist_id = $2
	`, setTimeID, artistID)
	if err != nil {
		return fmt.Errorf("delete collaboration: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCollaborationNotFound
	}
	return nil
}

// CollaborationSetTimeID resolves a collaboration to its set time.
func (s *Store) CollaborationSetTimeID(ctx context.Context, collaborationID int64) (int64, bool, error) {
	var setTimeID int64
	err := s.db.QueryRowContext(ctx, `SELECT set_time_id FROM set_time_collaborations WHERE id = $1`, collaborationID).Scan(&setTimeID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup collaboration set time: %w", err)
	}
	return setTimeID, true, nil
}
