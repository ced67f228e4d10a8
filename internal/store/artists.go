package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ravesync/shared/go/models"
)

// ErrArtistNotFound signals the artist does not exist.
var ErrArtistNotFound = errors.New("artist not found")

// ArtistInUseError blocks deletion while other rows still reference the
// artist. The counts are gathered per dependency kind so callers can
// report exactly what is holding the artist.
type ArtistInUseError struct {
	Dependencies map[string]int64
}

func (e *ArtistInUseError) Error() string {
	return "artist is referenced by existing records"
}

// ListArtists returns one page of artists matching the filter plus the
// total count over the same predicate.
func (s *Store) ListArtists(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, int64, error) {
	where := " WHERE 1=1"
	var args []interface{}
	argPos := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND LOWER(name) LIKE $%d", argPos)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		argPos++
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artists"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count artists: %w", err)
	}

	query := `
		SELECT id, name, genres, followers, COALESCE(image_url, ''), created_at, updated_at
		FROM artists` + where + fmt.Sprintf(" ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Page.PageSize, filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var artists []models.Artist
	for rows.Next() {
		var artist models.Artist
		if err := rows.Scan(&artist.ID, &artist.Name, pq.Array(&artist.Genres), &artist.Followers, &artist.ImageURL, &artist.CreatedAt, &artist.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate artists: %w", err)
	}

	return artists, total, nil
}

// GetArtist returns one artist by ID.
func (s *Store) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	var artist models.Artist
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, genres, followers, COALESCE(image_url, ''), created_at, updated_at
		FROM artists
		WHERE id = $1
	`, id).Scan(&artist.ID, &artist.Name, pq.Array(&artist.Genres), &artist.Followers, &artist.ImageURL, &artist.CreatedAt, &artist.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return &artist, nil
}

// CreateArtist inserts an artist.
func (s *Store) CreateArtist(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO artists (name, genres, followers, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, artist.Name, pq.Array(artist.Genres), artist.Followers, artist.ImageURL).
		Scan(&artist.ID, &artist.CreatedAt, &artist.UpdatedAt)
	if err != nil {
		if isInsufficientPrivilege(err) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("insert artist: %w", err)
	}
	return artist, nil
}

// UpdateArtist rewrites the caller-editable fields of an artist.
func (s *Store) UpdateArtist(ctx context.Context, id int64, artist *models.Artist) (*models.Artist, error) {
	var updated models.Artist
	err := s.db.QueryRowContext(ctx, `
		UPDATE artists
		SET name = $1, genres = $2, followers = $3, image_url = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, name, genres, followers, COALESCE(image_url, ''), created_at, updated_at
	`, artist.Name, pq.Array(artist.Genres), artist.Followers, artist.ImageURL, id).
		Scan(&updated.ID, &updated.Name, pq.Array(&updated.Genres), &updated.Followers, &updated.ImageURL, &updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update artist: %w", err)
	}
	return &updated, nil
}

// DeleteArtist removes an artist unless lineup entries, set times or
// collaborations still reference it. The dependent tables are queried
// one by one so each kind shows up with its own count.
func (s *Store) DeleteArtist(ctx context.Context, id int64) error {
	deps := make(map[string]int64)

	checks := []struct {
		name  string
		query string
	}{
		{name: "lineups", query: `SELECT COUNT(*) FROM event_lineups WHERE artist_id = $1`},
		{name: "set_times", query: `SELECT COUNT(*) FROM set_times WHERE artist_id = $1`},
		{name: "collaborations", query: `SELECT COUNT(*) FROM set_time_collaborations WHERE artist_id = $1`},
	}
	for _, check := range checks {
		var count int64
		if err := s.db.QueryRowContext(ctx, check.query, id).Scan(&count); err != nil {
			return fmt.Errorf("count %s for artist: %w", check.name, err)
		}
		if count > 0 {
			deps[check.name] = count
		}
	}
	if len(deps) > 0 {
		return &ArtistInUseError{Dependencies: deps}
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrArtistNotFound
	}
	return nil
}

// ArtistExists reports whether the artist exists.
func (s *Store) ArtistExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM artists WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check artist existence: %w", err)
	}
	return exists, nil
}
