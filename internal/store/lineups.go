package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ravesync/shared/go/models"
)

var (
	// ErrLineupNotFound signals the lineup entry does not exist.
	ErrLineupNotFound = errors.New("lineup entry not found")
	// ErrLineupExists signals the (event, artist) pair is already billed.
	ErrLineupExists = errors.New("artist already on this event's lineup")
)

// ListLineup returns an event's lineup with artist names attached,
// headliners first.
func (s *Store) ListLineup(ctx context.Context, eventID int64) ([]models.LineupEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.event_id, l.artist_id, COALESCE(l.tier, ''), l.headliner, l.created_at, a.name
		FROM event_lineups l
		JOIN artists a ON l.artist_id = a.id
		WHERE l.event_id = $1
		ORDER BY l.headliner DESC, a.name ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list lineup: %w", err)
	}
	defer rows.Close()

	var entries []models.LineupEntry
	for rows.Next() {
		var entry models.LineupEntry
		if err := rows.Scan(&entry.ID, &entry.EventID, &entry.ArtistID, &entry.Tier, &entry.Headliner, &entry.CreatedAt, &entry.ArtistName); err != nil {
			return nil, fmt.Errorf("scan lineup entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lineup: %w", err)
	}

	return entries, nil
}

// AddLineupEntry bills an artist on an event. The store's uniqueness
// constraint arbitrates concurrent inserts for the same pair; the loser
// receives ErrLineupExists.
func (s *Store) AddLineupEntry(ctx context.Context, entry *models.LineupEntry) (*models.LineupEntry, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO event_lineups (event_id, artist_id, tier, headliner)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, entry.EventID, entry.ArtistID, entry.Tier, entry.Headliner).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLineupExists
		}
		if isInsufficientPrivilege(err) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("insert lineup entry: %w", err)
	}
	return entry, nil
}

// UpdateLineupEntry rewrites the tier and headliner flags only; the
// event and artist links are immutable.
func (s *Store) UpdateLineupEntry(ctx context.Context, id int64, tier string, headliner bool) (*models.LineupEntry, error) {
	var entry models.LineupEntry
	err := s.db.QueryRowContext(ctx, `
		UPDATE event_lineups
		SET tier = $1, headliner = $2
		WHERE id = $3
		RETURNING id, event_id, artist_id, COALESCE(tier, ''), headliner, created_at
	`, tier, headliner, id).
		Scan(&entry.ID, &entry.EventID, &entry.ArtistID, &entry.Tier, &entry.Headliner, &entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLineupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update lineup entry: %w", err)
	}
	return &entry, nil
}

// DeleteLineupEntry removes a lineup entry.
func (s *Store) DeleteLineupEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event_lineups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lineup entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrLineupNotFound
	}
	return nil
}

// LineupEventID resolves a lineup entry to its owning event.
func (s *Store) LineupEventID(ctx context.Context, lineupID int64) (int64, bool, error) {
	var eventID int64
	err := s.db.QueryRowContext(ctx, `SELECT event_id FROM event_lineups WHERE id = $1`, lineupID).Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup lineup event: %w", err)
	}
	return eventID, true, nil
}
