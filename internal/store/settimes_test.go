package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestEventScheduleMergesCollaborators(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT st.id, st.stage_id, st.artist_id, st.starts_at, st.ends_at, st.created_at, st.updated_at, sg.name, a.name
		FROM set_times st
		JOIN stages sg ON st.stage_id = sg.id
		JOIN artists a ON st.artist_id = a.id
		WHERE sg.event_id = $1
		ORDER BY st.starts_at ASC, sg.name ASC
	`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stage_id", "artist_id", "starts_at", "ends_at", "created_at", "updated_at", "stage_name", "artist_name"}).
			AddRow(int64(10), int64(2), int64(5), now, now.Add(time.Hour), now, now, "Main Stage", "Overmono").
			AddRow(int64(11), int64(3), int64(6), now.Add(time.Hour), now.Add(2*time.Hour), now, now, "Tent", "Jamie xx"))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT c.id, c.set_time_id, c.artist_id, c.created_at, a.name
		FROM set_time_collaborations c
		JOIN artists a ON c.artist_id = a.id
		JOIN set_times st ON c.set_time_id = st.id
		JOIN stages sg ON st.stage_id = sg.id
		WHERE sg.event_id = $1
		ORDER BY a.name ASC
	`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "set_time_id", "artist_id", "created_at", "artist_name"}).
			AddRow(int64(100), int64(10), int64(9), now, "Joy Orbison"))

	entries, err := s.EventSchedule(context.Background(), 1)
	if err != nil {
		t.Fatalf("EventSchedule error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if len(entries[0].Collaborators) != 1 || entries[0].Collaborators[0].ArtistName != "Joy Orbison" {
		t.Fatalf("collaborator not merged onto first entry: %+v", entries[0].Collaborators)
	}
	if len(entries[1].Collaborators) != 0 {
		t.Fatalf("unexpected collaborators on second entry: %+v", entries[1].Collaborators)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddCollaborationDuplicateIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO set_time_collaborations (set_time_id, artist_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`)).
		WithArgs(int64(10), int64(9)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = s.AddCollaboration(context.Background(), 10, 9)
	if !errors.Is(err, ErrCollaborationExists) {
		t.Fatalf("expected ErrCollaborationExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveCollaborationMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM set_time_collaborations
		WHERE set_time_id = $1 AND artist_id = $2
	`)).
		WithArgs(int64(10), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = s.RemoveCollaboration(context.Background(), 10, 9)
	if !errors.Is(err, ErrCollaborationNotFound) {
		t.Fatalf("expected ErrCollaborationNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
