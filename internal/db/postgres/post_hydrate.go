package postgres

import (
	"Gather/internal/core/posts"
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const postColumns = `id, content, author_id, group_id, parent_id, children, created_at`

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Warn("failed to close rows", slog.String("error", err.Error()))
	}
}

// queryPosts runs a SELECT over the posts table with the given tail
// (WHERE/ORDER BY/LIMIT) and scans the full rows.
func queryPosts(ctx context.Context, q queryer, tail string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+postColumns+` FROM posts `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer closeRows(rows)

	var result []*posts.Post
	for rows.Next() {
		post := &posts.Post{}
		var groupID, parentID sql.NullString

		if err := rows.Scan(
			&post.ID, &post.Content, &post.AuthorID,
			&groupID, &parentID, pq.Array(&post.Children), &post.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}

		if groupID.Valid {
			post.GroupID = &groupID.String
		}
		if parentID.Valid {
			post.ParentID = &parentID.String
		}

		result = append(result, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return result, nil
}

// loadAuthorViews batch-fetches author summaries by internal id
func loadAuthorViews(ctx context.Context, q queryer, ids []string) (map[string]*posts.AuthorView, error) {
	result := make(map[string]*posts.AuthorView, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, external_id, name, username, COALESCE(image, '') FROM users WHERE id = ANY($1::uuid[])`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		author := &posts.AuthorView{}
		if err := rows.Scan(&author.ID, &author.ExternalID, &author.Name, &author.Username, &author.Image); err != nil {
			return nil, fmt.Errorf("failed to scan author row: %w", err)
		}
		result[author.ID] = author
	}

	return result, rows.Err()
}

// loadGroupViews batch-fetches group summaries by internal id
func loadGroupViews(ctx context.Context, q queryer, ids []string) (map[string]*posts.GroupView, error) {
	result := make(map[string]*posts.GroupView, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, external_id, name, username, COALESCE(image, '') FROM groups WHERE id = ANY($1::uuid[])`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		group := &posts.GroupView{}
		if err := rows.Scan(&group.ID, &group.ExternalID, &group.Name, &group.Username, &group.Image); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		result[group.ID] = group
	}

	return result, rows.Err()
}

// hydratePosts expands the given posts into views with replyLevels levels of
// replies, batch-loading authors (and groups for the base level) to avoid
// N+1 queries. Replies within a level are ordered oldest first, matching the
// order their ids were appended to the parent's children list.
func hydratePosts(ctx context.Context, q queryer, base []*posts.Post, replyLevels int, withGroups bool) ([]*posts.PostView, error) {
	if len(base) == 0 {
		return []*posts.PostView{}, nil
	}

	levels := [][]*posts.Post{base}
	current := base
	for depth := 0; depth < replyLevels && len(current) > 0; depth++ {
		parentIDs := make([]string, len(current))
		for i, post := range current {
			parentIDs[i] = post.ID
		}

		replies, err := queryPosts(ctx, q,
			`WHERE parent_id = ANY($1::uuid[]) ORDER BY created_at ASC`, pq.Array(parentIDs))
		if err != nil {
			return nil, err
		}

		levels = append(levels, replies)
		current = replies
	}

	authorSet := map[string]bool{}
	groupSet := map[string]bool{}
	for _, level := range levels {
		for _, post := range level {
			authorSet[post.AuthorID] = true
		}
	}
	if withGroups {
		for _, post := range base {
			if post.GroupID != nil {
				groupSet[*post.GroupID] = true
			}
		}
	}

	authors, err := loadAuthorViews(ctx, q, keys(authorSet))
	if err != nil {
		return nil, err
	}

	var groupViews map[string]*posts.GroupView
	if withGroups {
		groupViews, err = loadGroupViews(ctx, q, keys(groupSet))
		if err != nil {
			return nil, err
		}
	}

	views := make(map[string]*posts.PostView)
	for _, level := range levels {
		for _, post := range level {
			view := &posts.PostView{
				ID:        post.ID,
				Content:   post.Content,
				CreatedAt: post.CreatedAt,
				ParentID:  post.ParentID,
				Author:    authors[post.AuthorID],
				Replies:   []*posts.PostView{},
			}
			if withGroups && post.GroupID != nil {
				view.Group = groupViews[*post.GroupID]
			}
			views[post.ID] = view
		}
	}

	// Link each reply level to its parents, preserving query order
	for _, level := range levels[1:] {
		for _, reply := range level {
			if parent, ok := views[*reply.ParentID]; ok {
				parent.Replies = append(parent.Replies, views[reply.ID])
			}
		}
	}

	result := make([]*posts.PostView, len(base))
	for i, post := range base {
		result[i] = views[post.ID]
	}

	return result, nil
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
