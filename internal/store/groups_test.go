package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"ravesync/shared/go/models"
)

func TestCreateGroupSchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	creator := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO group_schedules (event_id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`)).
		WithArgs(int64(1), "Saturday crew", creator).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(100), time.Now(), time.Now()))

	group := &models.GroupSchedule{EventID: 1, Name: "Saturday crew", CreatedBy: creator}
	created, err := s.CreateGroupSchedule(context.Background(), group)
	if err != nil {
		t.Fatalf("CreateGroupSchedule error: %v", err)
	}
	if created.ID != 100 {
		t.Fatalf("expected group ID 100, got %d", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddGroupMemberDuplicateIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO group_members (group_id, user_id, is_admin, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`)).
		WithArgs(int64(100), userID, false, models.MemberStatusInvited).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = s.AddGroupMember(context.Background(), &models.GroupMember{
		GroupID: 100,
		UserID:  userID,
		Status:  models.MemberStatusInvited,
	})
	if !errors.Is(err, ErrMemberExists) {
		t.Fatalf("expected ErrMemberExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGroupMembershipAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, group_id, user_id, is_admin, status, created_at, updated_at
		FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`)).
		WithArgs(int64(100), userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "user_id", "is_admin", "status", "created_at", "updated_at"}))

	member, ok, err := s.GroupMembership(context.Background(), 100, userID)
	if err != nil {
		t.Fatalf("GroupMembership error: %v", err)
	}
	if ok || member != nil {
		t.Fatalf("expected no membership, got %+v", member)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteGroupScheduleNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM group_schedules WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteGroupSchedule(context.Background(), 404); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGroupCreatorLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	creator := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT created_by FROM group_schedules WHERE id = $1`)).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"created_by"}).AddRow(creator.String()))

	got, ok, err := s.GroupCreator(context.Background(), 100)
	if err != nil {
		t.Fatalf("GroupCreator error: %v", err)
	}
	if !ok || got != creator {
		t.Fatalf("expected creator %s, got %s (ok=%v)", creator, got, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
