package users

import "context"

// Repository defines the interface for user data persistence
type Repository interface {
	// Upsert creates the user on first save and updates on subsequent saves,
	// keyed by external id. Returns ErrUsernameTaken when the username
	// belongs to a different user.
	Upsert(ctx context.Context, user *User) (*User, error)

	// GetByExternalID retrieves a user by the identity provider's id.
	// Returns ErrUserNotFound on miss.
	GetByExternalID(ctx context.Context, externalID string) (*User, error)

	// GetUserPosts retrieves the user together with their authored posts,
	// newest first, each post hydrated with one reply level and reply-author
	// summaries. A user with zero posts returns an empty slice, not an error.
	GetUserPosts(ctx context.Context, externalID string) (*UserPosts, error)
}

// Service defines the interface for user business logic
type Service interface {
	// UpsertProfile normalizes the username, creates-or-updates the profile,
	// and marks the user onboarded.
	UpsertProfile(ctx context.Context, req UpsertProfileRequest) (*User, error)

	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	GetUserPosts(ctx context.Context, externalID string) (*UserPosts, error)
}
