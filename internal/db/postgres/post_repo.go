package postgres

import (
	"Gather/internal/core/posts"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a top-level post and links it from the author's post list
// and, when a group is set, from the group's post list. One transaction: a
// reader never sees the post without its backreferences.
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (id, content, author_id, group_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		post.ID, post.Content, post.AuthorID, nullStringPtr(post.GroupID)).
		Scan(&post.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "posts_author_id_fkey") {
			return nil, posts.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET post_ids = array_append(post_ids, $2), updated_at = NOW()
		WHERE id = $1`,
		post.AuthorID, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to link post to author: %w", err)
	}

	if post.GroupID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE groups SET post_ids = array_append(post_ids, $2), updated_at = NOW()
			WHERE id = $1`,
			*post.GroupID, post.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to link post to group: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit post creation: %w", err)
	}

	post.Children = []string{}
	return post, nil
}

// CreateReply inserts a reply and appends its id to the parent's children
// list in the same transaction, keeping the adjacency cache in step with
// parent_id.
func (r *postgresPostRepo) CreateReply(ctx context.Context, reply *posts.Post) (*posts.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO posts (id, content, author_id, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		reply.ID, reply.Content, reply.AuthorID, *reply.ParentID).
		Scan(&reply.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "posts_parent_id_fkey") {
			return nil, posts.ErrParentNotFound
		}
		if strings.Contains(err.Error(), "posts_author_id_fkey") {
			return nil, posts.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to insert reply: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE posts SET children = array_append(children, $2)
		WHERE id = $1`,
		*reply.ParentID, reply.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to link reply to parent: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, posts.ErrParentNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reply creation: %w", err)
	}

	reply.Children = []string{}
	return reply, nil
}

// GetByID retrieves a bare post. A malformed id is a miss, not a query error.
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, posts.ErrPostNotFound
	}

	found, err := queryPosts(ctx, r.db, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, posts.ErrPostNotFound
	}

	return found[0], nil
}

// GetThread retrieves a post with author, group, and two reply levels expanded
func (r *postgresPostRepo) GetThread(ctx context.Context, id string) (*posts.PostView, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, posts.ErrPostNotFound
	}

	base, err := queryPosts(ctx, r.db, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, posts.ErrPostNotFound
	}

	views, err := hydratePosts(ctx, r.db, base, 2, true)
	if err != nil {
		return nil, err
	}

	return views[0], nil
}

// ListTopLevel retrieves one page of parentless posts, newest first, plus the
// total top-level count for pagination.
func (r *postgresPostRepo) ListTopLevel(ctx context.Context, limit, offset int) ([]*posts.PostView, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE parent_id IS NULL`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	base, err := queryPosts(ctx, r.db,
		`WHERE parent_id IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views, err := hydratePosts(ctx, r.db, base, 1, true)
	if err != nil {
		return nil, 0, err
	}

	return views, total, nil
}

// ListByParents retrieves the direct replies of every listed parent
func (r *postgresPostRepo) ListByParents(ctx context.Context, parentIDs []string) ([]*posts.Post, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	return queryPosts(ctx, r.db,
		`WHERE parent_id = ANY($1::uuid[]) ORDER BY created_at ASC`, pq.Array(parentIDs))
}

// DeleteBatch removes a collected subtree and cleans every reference to it:
// the deleted ids leave the authors' and groups' post lists, and the root id
// leaves its parent's children list. All in one transaction.
func (r *postgresPostRepo) DeleteBatch(ctx context.Context, batch posts.DeleteBatch) error {
	if len(batch.PostIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx)

	if batch.ParentID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE posts SET children = array_remove(children, $2::uuid)
			WHERE id = $1`,
			*batch.ParentID, batch.PostIDs[0])
		if err != nil {
			return fmt.Errorf("failed to unlink post from parent: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ANY($1::uuid[])`, pq.Array(batch.PostIDs))
	if err != nil {
		return fmt.Errorf("failed to delete post batch: %w", err)
	}

	if len(batch.AuthorIDs) > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET post_ids = (
				SELECT COALESCE(array_agg(pid ORDER BY ord), '{}'::uuid[])
				FROM unnest(post_ids) WITH ORDINALITY AS t(pid, ord)
				WHERE pid <> ALL($2::uuid[])
			), updated_at = NOW()
			WHERE id = ANY($1::uuid[])`,
			pq.Array(batch.AuthorIDs), pq.Array(batch.PostIDs))
		if err != nil {
			return fmt.Errorf("failed to clean author post lists: %w", err)
		}
	}

	if len(batch.GroupIDs) > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE groups
			SET post_ids = (
				SELECT COALESCE(array_agg(pid ORDER BY ord), '{}'::uuid[])
				FROM unnest(post_ids) WITH ORDINALITY AS t(pid, ord)
				WHERE pid <> ALL($2::uuid[])
			), updated_at = NOW()
			WHERE id = ANY($1::uuid[])`,
			pq.Array(batch.GroupIDs), pq.Array(batch.PostIDs))
		if err != nil {
			return fmt.Errorf("failed to clean group post lists: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post deletion: %w", err)
	}

	return nil
}

// ResolveGroupRef resolves a group external id to its internal id.
// A miss returns "" without an error: posts created against an unknown group
// fall back to the personal feed.
func (r *postgresPostRepo) ResolveGroupRef(ctx context.Context, externalID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM groups WHERE external_id = $1`, externalID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve group ref: %w", err)
	}

	return id, nil
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		slog.Error("failed to rollback transaction", slog.String("error", err.Error()))
	}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
