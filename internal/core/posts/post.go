package posts

import (
	"time"
)

// Post is a short text post. A post with no ParentID is a top-level entry in
// the feed; a post with a ParentID is a reply to another post.
//
// Children is a denormalized adjacency cache of the reply relation: it must
// equal the set of post ids whose ParentID is this post's ID. ParentID is the
// source of truth; every mutation that touches one side updates the other in
// the same transaction.
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ID        string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	GroupID   *string   `json:"groupId,omitempty" db:"group_id"`
	ParentID  *string   `json:"parentId,omitempty" db:"parent_id"`
	Children  []string  `json:"children" db:"children"`
}

// AuthorView is the author summary hydrated into post views.
type AuthorView struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Username   string `json:"username,omitempty"`
	Image      string `json:"image,omitempty"`
}

// GroupView is the group summary hydrated into post views.
type GroupView struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Username   string `json:"username,omitempty"`
	Image      string `json:"image,omitempty"`
}

// PostView is a post with its references expanded for API responses.
// Replies carries one level for feed views and two levels for single-post
// views; deeper levels are left nil.
type PostView struct {
	CreatedAt time.Time   `json:"createdAt"`
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	ParentID  *string     `json:"parentId,omitempty"`
	Author    *AuthorView `json:"author"`
	Group     *GroupView  `json:"group,omitempty"`
	Replies   []*PostView `json:"replies"`
}

// Feed is one page of top-level posts.
type Feed struct {
	Posts       []*PostView `json:"posts"`
	HasNextPage bool        `json:"hasNextPage"`
}

// CreatePostRequest is the input for creating a top-level post.
// GroupExternalID is optional; when it does not resolve to a group the post is
// created without one (personal feed post).
type CreatePostRequest struct {
	Content         string `json:"content"`
	AuthorID        string `json:"authorId"`
	GroupExternalID string `json:"groupExternalId,omitempty"`
	Path            string `json:"path,omitempty"`
}

// AddReplyRequest is the input for replying to an existing post.
type AddReplyRequest struct {
	ParentID string `json:"parentId"`
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
	Path     string `json:"path,omitempty"`
}

// DeleteBatch collects everything a cascading delete removes in one
// transaction: the subtree's post ids, plus the user and group documents whose
// post lists reference them. ParentID is set when the deleted root is itself a
// reply, so its id can be pulled from the parent's children list.
type DeleteBatch struct {
	PostIDs   []string
	AuthorIDs []string
	GroupIDs  []string
	ParentID  *string
}
