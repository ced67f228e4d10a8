package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ravesync/shared/go/models"
)

var (
	// ErrGroupNotFound signals the group schedule does not exist.
	ErrGroupNotFound = errors.New("group schedule not found")
	// ErrMemberNotFound signals no membership exists for the pair.
	ErrMemberNotFound = errors.New("group member not found")
	// ErrMemberExists signals the user is already in the group.
	ErrMemberExists = errors.New("user is already a member of this group")
)

// CreateGroupSchedule inserts the group row only. Establishing the
// creator's membership is the caller's job; on failure the caller
// compensates with DeleteGroupSchedule.
func (s *Store) CreateGroupSchedule(ctx context.Context, group *models.GroupSchedule) (*models.GroupSchedule, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO group_schedules (event_id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, group.EventID, group.Name, group.CreatedBy).
		Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if isInsufficientPrivilege(err) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("insert group schedule: %w", err)
	}
	return group, nil
}

// GetGroupSchedule returns one group schedule by ID.
func (s *Store) GetGroupSchedule(ctx context.Context, id int64) (*models.GroupSchedule, error) {
	var group models.GroupSchedule
	err := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, name, created_by, created_at, updated_at
		FROM group_schedules
		WHERE id = $1
	`, id).Scan(&group.ID, &group.EventID, &group.Name, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group schedule: %w", err)
	}
	return &group, nil
}

// ListGroupSchedulesForUser returns one page of the groups the user
// created or belongs to, plus the total count.
func (s *Store) ListGroupSchedulesForUser(ctx context.Context, userID uuid.UUID, page models.PageRequest) ([]models.GroupSchedule, int64, error) {
	const predicate = `
		WHERE g.created_by = $1
		   OR EXISTS (SELECT 1 FROM group_members m WHERE m.group_id = g.id AND m.user_id = $1)`

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM group_schedules g`+predicate, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count group schedules: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.event_id, g.name, g.created_by, g.created_at, g.updated_at
		FROM group_schedules g`+predicate+`
		ORDER BY g.created_at DESC, g.id DESC
		LIMIT $2 OFFSET $3
	`, userID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list group schedules: %w", err)
	}
	defer rows.Close()

	var groups []models.GroupSchedule
	for rows.Next() {
		var group models.GroupSchedule
		if err := rows.Scan(&group.ID, &group.EventID, &group.Name, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan group schedule: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate group schedules: %w", err)
	}

	return groups, total, nil
}

// UpdateGroupSchedule renames a group. Event and creator are
// server-assigned and never change.
func (s *Store) UpdateGroupSchedule(ctx context.Context, id int64, name string) (*models.GroupSchedule, error) {
	var group models.GroupSchedule
	err := s.db.QueryRowContext(ctx, `
		UPDATE group_schedules
		SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, event_id, name, created_by, created_at, updated_at
	`, name, id).Scan(&group.ID, &group.EventID, &group.Name, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update group schedule: %w", err)
	}
	return &group, nil
}

// DeleteGroupSchedule removes a group and its memberships via cascade.
// Also used as the compensating action for a failed group creation.
func (s *Store) DeleteGroupSchedule(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM group_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group schedule: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// GroupCreator resolves a group to its creator.
func (s *Store) GroupCreator(ctx context.Context, groupID int64) (uuid.UUID, bool, error) {
	var creator uuid.UUID
	err := s.db.QueryRowContext(ctx, `SELECT created_by FROM group_schedules WHERE id = $1`, groupID).Scan(&creator)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("lookup group creator: %w", err)
	}
	return creator, true, nil
}

// AddGroupMember inserts a membership row.
func (s *Store) AddGroupMember(ctx context.Context, member *models.GroupMember) (*models.GroupMember, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO group_members (group_id, user_id, is_admin, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, member.GroupID, member.UserID, member.IsAdmin, member.Status).
		Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrMemberExists
		}
		if isInsufficientPrivilege(err) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("insert group member: %w", err)
	}
	return member, nil
}

// ListGroupMembers returns every membership of a group, admins first.
func (s *Store) ListGroupMembers(ctx context.Context, groupID int64) ([]models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, user_id, is_admin, status, created_at, updated_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY is_admin DESC, created_at ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()

	var members []models.GroupMember
	for rows.Next() {
		var member models.GroupMember
		if err := rows.Scan(&member.ID, &member.GroupID, &member.UserID, &member.IsAdmin, &member.Status, &member.CreatedAt, &member.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group members: %w", err)
	}

	return members, nil
}

// GroupMembership looks up one membership pair.
func (s *Store) GroupMembership(ctx context.Context, groupID int64, userID uuid.UUID) (*models.GroupMember, bool, error) {
	var member models.GroupMember
	err := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, user_id, is_admin, status, created_at, updated_at
		FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID).Scan(&member.ID, &member.GroupID, &member.UserID, &member.IsAdmin, &member.Status, &member.CreatedAt, &member.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup group membership: %w", err)
	}
	return &member, true, nil
}

// UpdateGroupMemberStatus records an invitation response.
func (s *Store) UpdateGroupMemberStatus(ctx context.Context, groupID int64, userID uuid.UUID, status models.MemberStatus) (*models.GroupMember, error) {
	var member models.GroupMember
	err := s.db.QueryRowContext(ctx, `
		UPDATE group_members
		SET status = $1, updated_at = NOW()
		WHERE group_id = $2 AND user_id = $3
		RETURNING id, group_id, user_id, is_admin, status, created_at, updated_at
	`, status, groupID, userID).
		Scan(&member.ID, &member.GroupID, &member.UserID, &member.IsAdmin, &member.Status, &member.CreatedAt, &member.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update member status: %w", err)
	}
	return &member, nil
}

// UpdateGroupMemberAdmin flips a member's admin flag.
func (s *Store) UpdateGroupMemberAdmin(ctx context.Context, groupID int64, userID uuid.UUID, isAdmin bool) (*models.GroupMember, error) {
	var member models.GroupMember
	err := s.db.QueryRowContext(ctx, `
		UPDATE group_members
		SET is_admin = $1, updated_at = NOW()
		WHERE group_id = $2 AND user_id = $3
		RETURNING id, group_id, user_id, is_admin, status, created_at, updated_at
	`, isAdmin, groupID, userID).
		Scan(&member.ID, &member.GroupID, &member.UserID, &member.IsAdmin, &member.Status, &member.CreatedAt, &member.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update member admin flag: %w", err)
	}
	return &member, nil
}

// RemoveGroupMember deletes a membership row.
func (s *Store) RemoveGroupMember(ctx context.Context, groupID int64, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("delete group member: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
