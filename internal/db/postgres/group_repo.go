package postgres

import (
	"Gather/internal/core/groups"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const groupColumns = `id, external_id, username, name, COALESCE(image, ''), COALESCE(bio, ''), created_by, post_ids, member_ids, created_at, updated_at`

type postgresGroupRepo struct {
	db *sql.DB
}

// NewGroupRepository creates a new PostgreSQL group repository
func NewGroupRepository(db *sql.DB) groups.Repository {
	return &postgresGroupRepo{db: db}
}

// Create inserts the group and appends its id to the creator's group list in
// one transaction, so a crash cannot leave an orphaned group.
func (r *postgresGroupRepo) Create(ctx context.Context, group *groups.Group) (*groups.Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO groups (id, external_id, username, name, image, bio, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		group.ID, group.ExternalID, group.Username, group.Name,
		nullString(group.Image), nullString(group.Bio), group.CreatedBy).
		Scan(&group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "groups_username_key") {
			return nil, groups.ErrUsernameTaken
		}
		if strings.Contains(err.Error(), "groups_created_by_fkey") {
			return nil, groups.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to insert group: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE users SET group_ids = array_append(group_ids, $2), updated_at = NOW()
		WHERE id = $1`,
		group.CreatedBy, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to link group to creator: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, groups.ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit group creation: %w", err)
	}

	group.PostIDs = []string{}
	group.MemberIDs = []string{}
	return group, nil
}

// GetByExternalID retrieves a group by its provider id
func (r *postgresGroupRepo) GetByExternalID(ctx context.Context, externalID string) (*groups.Group, error) {
	group := &groups.Group{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE external_id = $1`, externalID).
		Scan(&group.ID, &group.ExternalID, &group.Username, &group.Name,
			&group.Image, &group.Bio, &group.CreatedBy,
			pq.Array(&group.PostIDs), pq.Array(&group.MemberIDs),
			&group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, groups.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by external id: %w", err)
	}

	return group, nil
}

// GetDetails retrieves a group with creator and member summaries expanded.
// A miss yields (nil, nil) rather than an error.
func (r *postgresGroupRepo) GetDetails(ctx context.Context, externalID string) (*groups.GroupDetails, error) {
	group, err := r.GetByExternalID(ctx, externalID)
	if err != nil {
		if groups.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	details := &groups.GroupDetails{Group: group, Members: []*groups.MemberView{}}

	memberIDs := append([]string{group.CreatedBy}, group.MemberIDs...)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, external_id, name, username, COALESCE(image, '')
		FROM users WHERE id = ANY($1::uuid[])`,
		pq.Array(memberIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer closeRows(rows)

	byID := make(map[string]*groups.MemberView)
	for rows.Next() {
		member := &groups.MemberView{}
		if err := rows.Scan(&member.ID, &member.ExternalID, &member.Name, &member.Username, &member.Image); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		byID[member.ID] = member
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	details.CreatedBy = byID[group.CreatedBy]
	for _, id := range group.MemberIDs {
		if member, ok := byID[id]; ok {
			details.Members = append(details.Members, member)
		}
	}

	return details, nil
}

// GetGroupPosts retrieves a group by internal id with its post list expanded
func (r *postgresGroupRepo) GetGroupPosts(ctx context.Context, id string) (*groups.GroupPosts, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, groups.ErrGroupNotFound
	}

	group := &groups.Group{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = $1`, id).
		Scan(&group.ID, &group.ExternalID, &group.Username, &group.Name,
			&group.Image, &group.Bio, &group.CreatedBy,
			pq.Array(&group.PostIDs), pq.Array(&group.MemberIDs),
			&group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, groups.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	base, err := queryPosts(ctx, r.db,
		`WHERE id = ANY($1::uuid[]) ORDER BY created_at DESC`, pq.Array(group.PostIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load posts for group %s: %w", group.ExternalID, err)
	}

	views, err := hydratePosts(ctx, r.db, base, 1, false)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate posts for group %s: %w", group.ExternalID, err)
	}

	return &groups.GroupPosts{Group: group, Posts: views}, nil
}

// List retrieves one page of groups matching the search text plus the total
// match count. An empty search text matches everything.
func (r *postgresGroupRepo) List(ctx context.Context, req groups.ListGroupsRequest) ([]*groups.Group, int, error) {
	whereClause := ""
	args := []interface{}{}
	argNum := 1

	if req.SearchText != "" {
		whereClause = fmt.Sprintf(`WHERE (username ILIKE '%%' || $%d || '%%' OR name ILIKE '%%' || $%d || '%%')`, argNum, argNum)
		args = append(args, req.SearchText)
		argNum++
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM groups %s`, whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	order := "DESC"
	if req.SortOrder == "asc" {
		order = "ASC"
	}

	offset := (req.PageNumber - 1) * req.PageSize
	query := fmt.Sprintf(`
		SELECT %s FROM groups %s
		ORDER BY created_at %s
		LIMIT $%d OFFSET $%d`,
		groupColumns, whereClause, order, argNum, argNum+1)
	args = append(args, req.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer closeRows(rows)

	result := []*groups.Group{}
	for rows.Next() {
		group := &groups.Group{}
		if err := rows.Scan(&group.ID, &group.ExternalID, &group.Username, &group.Name,
			&group.Image, &group.Bio, &group.CreatedBy,
			pq.Array(&group.PostIDs), pq.Array(&group.MemberIDs),
			&group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group row: %w", err)
		}
		result = append(result, group)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating group rows: %w", err)
	}

	return result, total, nil
}

// GetUserRef resolves a user external id to the minimal projection group
// operations need.
func (r *postgresGroupRepo) GetUserRef(ctx context.Context, externalID string) (*groups.UserRef, error) {
	ref := &groups.UserRef{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, external_id, group_ids FROM users WHERE external_id = $1`, externalID).
		Scan(&ref.ID, &ref.ExternalID, pq.Array(&ref.GroupIDs))
	if err == sql.ErrNoRows {
		return nil, groups.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user ref: %w", err)
	}

	return ref, nil
}

// AddMember appends the symmetric membership references in one transaction.
// The ANY guards make the statement idempotent under concurrent adds.
func (r *postgresGroupRepo) AddMember(ctx context.Context, groupID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx, `
		UPDATE groups SET member_ids = array_append(member_ids, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(member_ids))`,
		groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to add member to group: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET group_ids = array_append(group_ids, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(group_ids))`,
		userID, groupID)
	if err != nil {
		return fmt.Errorf("failed to add group to user: %w", err)
	}

	return tx.Commit()
}

// RemoveMember pulls the symmetric membership references in one transaction.
// array_remove on an absent element is a no-op, matching the contract.
func (r *postgresGroupRepo) RemoveMember(ctx context.Context, userID, groupID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx, `
		UPDATE groups SET member_ids = array_remove(member_ids, $2::uuid), updated_at = NOW()
		WHERE id = $1`,
		groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member from group: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET group_ids = array_remove(group_ids, $2::uuid), updated_at = NOW()
		WHERE id = $1`,
		userID, groupID)
	if err != nil {
		return fmt.Errorf("failed to remove group from user: %w", err)
	}

	return tx.Commit()
}

// UpdateInfo overwrites name, username, and image
func (r *postgresGroupRepo) UpdateInfo(ctx context.Context, externalID, name, username, image string) (*groups.Group, error) {
	group := &groups.Group{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE groups
		SET name = $2, username = $3, image = $4, updated_at = NOW()
		WHERE external_id = $1
		RETURNING `+groupColumns,
		externalID, name, username, nullString(image)).
		Scan(&group.ID, &group.ExternalID, &group.Username, &group.Name,
			&group.Image, &group.Bio, &group.CreatedBy,
			pq.Array(&group.PostIDs), pq.Array(&group.MemberIDs),
			&group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, groups.ErrGroupNotFound
	}
	if err != nil {
		if strings.Contains(err.Error(), "groups_username_key") {
			return nil, groups.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return group, nil
}

// Delete removes the group and cascades in one transaction: every post tagged
// with the group goes (replies under those posts go with them via the
// parent_id cascade), deleted post ids leave their authors' post lists, and
// the group id leaves every user's group list.
func (r *postgresGroupRepo) Delete(ctx context.Context, externalID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx)

	var groupID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM groups WHERE external_id = $1 FOR UPDATE`, externalID).Scan(&groupID)
	if err == sql.ErrNoRows {
		return groups.ErrGroupNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock group for deletion: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`DELETE FROM posts WHERE group_id = $1 RETURNING id, author_id`, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group posts: %w", err)
	}

	var postIDs, authorIDs []string
	authorSet := map[string]bool{}
	for rows.Next() {
		var postID, authorID string
		if err := rows.Scan(&postID, &authorID); err != nil {
			closeRows(rows)
			return fmt.Errorf("failed to scan deleted post: %w", err)
		}
		postIDs = append(postIDs, postID)
		if !authorSet[authorID] {
			authorSet[authorID] = true
			authorIDs = append(authorIDs, authorID)
		}
	}
	if err := rows.Err(); err != nil {
		closeRows(rows)
		return fmt.Errorf("error iterating deleted posts: %w", err)
	}
	closeRows(rows)

	if len(postIDs) > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET post_ids = (
				SELECT COALESCE(array_agg(pid ORDER BY ord), '{}'::uuid[])
				FROM unnest(post_ids) WITH ORDINALITY AS t(pid, ord)
				WHERE pid <> ALL($2::uuid[])
			), updated_at = NOW()
			WHERE id = ANY($1::uuid[])`,
			pq.Array(authorIDs), pq.Array(postIDs))
		if err != nil {
			return fmt.Errorf("failed to clean author post lists: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET group_ids = array_remove(group_ids, $1::uuid), updated_at = NOW()
		WHERE $1 = ANY(group_ids)`,
		groupID)
	if err != nil {
		return fmt.Errorf("failed to clean user group lists: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group deletion: %w", err)
	}

	return nil
}
