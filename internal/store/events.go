package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ravesync/shared/go/models"
)

// ErrEventNotFound signals the event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ListEvents returns one page of events matching the filter plus the
// total count over the same predicate.
func (s *Store) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int64, error) {
	where := " WHERE 1=1"
	var args []interface{}
	argPos := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (LOWER(name) LIKE $%d OR LOWER(venue) LIKE $%d)", argPos, argPos)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		argPos++
	}
	if filter.Featured != nil {
		where += fmt.Sprintf(" AND featured = $%d", argPos)
		args = append(args, *filter.Featured)
		argPos++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND ends_on >= $%d", argPos)
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND starts_on <= $%d", argPos)
		args = append(args, *filter.To)
		argPos++
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := `
		SELECT id, name, COALESCE(description, ''), venue, starts_on, ends_on, featured, created_by, created_at, updated_at
		FROM events` + where + fmt.Sprintf(" ORDER BY starts_on ASC, id ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Page.PageSize, filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate events: %w", err)
	}

	return events, total, nil
}

// GetEvent returns one event by ID.
func (s *Store) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, ''), venue, starts_on, ends_on, featured, created_by, created_at, updated_at
		FROM events
		WHERE id = $1
	`, id)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent inserts an event and fills in the server-assigned fields.
func (s *Store) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	var createdBy interface{}
	if event.CreatedBy != nil {
		createdBy = *event.CreatedBy
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO events (name, description, venue, starts_on, ends_on, featured, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, event.Name, event.Description, event.Venue, event.StartsOn, event.EndsOn, event.Featured, createdBy).
		Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if isInsufficientPrivilege(err) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("insert event: %w", err)
	}

	return event, nil
}

// UpdateEvent rewrites the caller-editable fields of an event.
func (s *Store) UpdateEvent(ctx context.Context, id int64, event *models.Event) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE events
		SET name = $1, description = $2, venue = $3, starts_on = $4, ends_on = $5, featured = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING id, name, COALESCE(description, ''), venue, starts_on, ends_on, featured, created_by, created_at, updated_at
	`, event.Name, event.Description, event.Venue, event.StartsOn, event.EndsOn, event.Featured, id)

	updated, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteEvent removes an event. Stages, lineup entries and their
// descendants go with it via the store's foreign-key cascades.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isInsufficientPrivilege(err) {
			return ErrAccessDenied
		}
		return fmt.Errorf("delete event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// EventExists reports whether the event exists.
func (s *Store) EventExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event existence: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (models.Event, error) {
	var event models.Event
	var createdBy sql.NullString

	err := row.Scan(
		&event.ID, &event.Name, &event.Description, &event.Venue,
		&event.StartsOn, &event.EndsOn, &event.Featured, &createdBy,
		&event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, err
		}
		return models.Event{}, fmt.Errorf("scan event: %w", err)
	}

	if createdBy.Valid {
		if id, err := uuid.Parse(createdBy.String); err == nil {
			event.CreatedBy = &id
		}
	}
	return event, nil
}
