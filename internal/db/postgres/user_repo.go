package postgres

import (
	"Gather/internal/core/users"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const userColumns = `id, external_id, username, name, COALESCE(image, ''), COALESCE(bio, ''), onboarded, post_ids, group_ids, created_at, updated_at`

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.Repository {
	return &postgresUserRepo{db: db}
}

// Upsert creates the user on first save, keyed by external id, and updates
// the profile fields on every subsequent save. Onboarded is set on both
// paths: saving a profile is what onboards a user.
func (r *postgresUserRepo) Upsert(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (id, external_id, username, name, image, bio, onboarded)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		ON CONFLICT (external_id) DO UPDATE SET
			username = EXCLUDED.username,
			name = EXCLUDED.name,
			image = EXCLUDED.image,
			bio = EXCLUDED.bio,
			onboarded = true,
			updated_at = NOW()
		RETURNING ` + userColumns

	saved := &users.User{}
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.ExternalID, user.Username, user.Name,
		nullString(user.Image), nullString(user.Bio)).
		Scan(&saved.ID, &saved.ExternalID, &saved.Username, &saved.Name,
			&saved.Image, &saved.Bio, &saved.Onboarded,
			pq.Array(&saved.PostIDs), pq.Array(&saved.GroupIDs),
			&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "users_username_key") {
			return nil, users.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return saved, nil
}

// GetByExternalID retrieves a user by the identity provider's id
func (r *postgresUserRepo) GetByExternalID(ctx context.Context, externalID string) (*users.User, error) {
	user := &users.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID).
		Scan(&user.ID, &user.ExternalID, &user.Username, &user.Name,
			&user.Image, &user.Bio, &user.Onboarded,
			pq.Array(&user.PostIDs), pq.Array(&user.GroupIDs),
			&user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by external id: %w", err)
	}

	return user, nil
}

// GetUserPosts retrieves the user and their authored posts, newest first,
// each hydrated with one reply level and reply-author summaries.
func (r *postgresUserRepo) GetUserPosts(ctx context.Context, externalID string) (*users.UserPosts, error) {
	user, err := r.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	result := &users.UserPosts{User: user}

	// The post_ids list is the user's authored-posts reference list; replies
	// are reachable only through their parents.
	base, err := queryPosts(ctx, r.db,
		`WHERE id = ANY($1::uuid[]) ORDER BY created_at DESC`, pq.Array(user.PostIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load posts for user %s: %w", externalID, err)
	}

	views, err := hydratePosts(ctx, r.db, base, 1, true)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate posts for user %s: %w", externalID, err)
	}

	result.Posts = views
	return result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
