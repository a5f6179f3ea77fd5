package groups

import (
	"time"

	"Gather/internal/core/posts"
)

// Group is a community page posts can be organized under. ExternalID is the
// identity provider's organization id; ID is the internal key.
//
// PostIDs and MemberIDs are denormalized reference lists maintained by the
// repository transactions that mutate group membership and group posts.
type Group struct {
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
	ID         string    `json:"id" db:"id"`
	ExternalID string    `json:"externalId" db:"external_id"`
	Username   string    `json:"username" db:"username"`
	Name       string    `json:"name" db:"name"`
	Image      string    `json:"image,omitempty" db:"image"`
	Bio        string    `json:"bio,omitempty" db:"bio"`
	CreatedBy  string    `json:"createdBy" db:"created_by"`
	PostIDs    []string  `json:"postIds" db:"post_ids"`
	MemberIDs  []string  `json:"memberIds" db:"member_ids"`
}

// MemberView is the user summary hydrated into group detail views.
type MemberView struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Image      string `json:"image,omitempty"`
}

// GroupDetails is a group with its creator and member references expanded.
type GroupDetails struct {
	Group     *Group        `json:"group"`
	CreatedBy *MemberView   `json:"createdBy"`
	Members   []*MemberView `json:"members"`
}

// GroupPosts is a group with its post list expanded, each post carrying its
// author summary and one level of replies with reply-author summaries.
type GroupPosts struct {
	Group *Group            `json:"group"`
	Posts []*posts.PostView `json:"posts"`
}

// UserRef is the minimal user projection group operations resolve external
// ids through.
type UserRef struct {
	ID         string   `json:"id"`
	ExternalID string   `json:"externalId"`
	GroupIDs   []string `json:"groupIds"`
}

// CreateGroupRequest is the input for creating a group.
type CreateGroupRequest struct {
	ExternalID        string `json:"externalId"`
	Name              string `json:"name"`
	Username          string `json:"username"`
	Image             string `json:"image,omitempty"`
	Bio               string `json:"bio,omitempty"`
	CreatorExternalID string `json:"creatorExternalId"`
}

// ListGroupsRequest carries search and pagination parameters for listings.
// An empty SearchText matches every group.
type ListGroupsRequest struct {
	SearchText string `json:"searchText,omitempty"`
	PageNumber int    `json:"pageNumber"`
	PageSize   int    `json:"pageSize"`
	SortOrder  string `json:"sortOrder,omitempty"` // "asc" or "desc" by creation time, default "desc"
}

// GroupPage is one page of a group listing.
type GroupPage struct {
	Groups      []*Group `json:"groups"`
	HasNextPage bool     `json:"hasNextPage"`
}
