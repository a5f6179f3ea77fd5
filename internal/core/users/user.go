package users

import (
	"time"

	"Gather/internal/core/posts"
)

// User is a profile record for an identity established by the external
// auth provider. ExternalID is the provider's opaque identifier; ID is the
// internal key everything else references.
//
// PostIDs and GroupIDs are denormalized reference lists kept in step with the
// posts and groups tables by the repository transactions that mutate them.
type User struct {
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
	ID         string    `json:"id" db:"id"`
	ExternalID string    `json:"externalId" db:"external_id"`
	Username   string    `json:"username" db:"username"`
	Name       string    `json:"name" db:"name"`
	Image      string    `json:"image,omitempty" db:"image"`
	Bio        string    `json:"bio,omitempty" db:"bio"`
	Onboarded  bool      `json:"onboarded" db:"onboarded"`
	PostIDs    []string  `json:"postIds" db:"post_ids"`
	GroupIDs   []string  `json:"groupIds" db:"group_ids"`
}

// UpsertProfileRequest is the input for creating or updating a profile.
// Saving a profile is what "onboards" a user: the record is created on first
// save and the onboarded flag is set on every save.
type UpsertProfileRequest struct {
	ExternalID string `json:"externalId"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Bio        string `json:"bio,omitempty"`
	Image      string `json:"image,omitempty"`
	Path       string `json:"path,omitempty"`
}

// UserPosts is a user together with their authored posts, each post carrying
// one level of replies with reply-author summaries.
type UserPosts struct {
	User  *User             `json:"user"`
	Posts []*posts.PostView `json:"posts"`
}
