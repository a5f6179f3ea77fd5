package posts

import "context"

// Repository defines the data access interface for posts.
//
// Multi-document mutations (create + link author/group, reply + link parent,
// delete subtree + clean references) run inside a single database transaction
// so readers never observe a post that exists without being linked from its
// owner's or parent's list.
type Repository interface {
	// Create inserts a top-level post and appends its id to the author's
	// post list and, when GroupID is set, to the group's post list.
	Create(ctx context.Context, post *Post) (*Post, error)

	// CreateReply inserts a reply (ParentID set) and appends its id to the
	// parent post's children list. Returns ErrParentNotFound if the parent
	// was deleted between the service's existence check and the insert.
	CreateReply(ctx context.Context, reply *Post) (*Post, error)

	// GetByID retrieves a bare post without hydration.
	// Returns ErrPostNotFound on miss or malformed id.
	GetByID(ctx context.Context, id string) (*Post, error)

	// GetThread retrieves a post with author, group, and two levels of
	// replies expanded, reply authors summarized per level.
	GetThread(ctx context.Context, id string) (*PostView, error)

	// ListTopLevel retrieves one page of posts with no parent, newest first,
	// hydrated with author, group, and one reply level. Also returns the
	// total number of top-level posts for pagination.
	ListTopLevel(ctx context.Context, limit, offset int) ([]*PostView, int, error)

	// ListByParents retrieves the direct replies of every post in parentIDs.
	// One call per tree level during cascade discovery.
	ListByParents(ctx context.Context, parentIDs []string) ([]*Post, error)

	// DeleteBatch removes the collected subtree in one transaction: deletes
	// every post in batch.PostIDs, pulls those ids from each referenced
	// user's and group's post list, and pulls the root id from its parent's
	// children list when batch.ParentID is set.
	DeleteBatch(ctx context.Context, batch DeleteBatch) error

	// ResolveGroupRef resolves a group's external id to its internal id.
	// Returns "" (no error) when the group does not exist.
	ResolveGroupRef(ctx context.Context, externalID string) (string, error)
}

// Service defines the business logic interface for posts.
type Service interface {
	ListTopLevel(ctx context.Context, pageNumber, pageSize int) (*Feed, error)
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetByID(ctx context.Context, id string) (*PostView, error)
	AddReply(ctx context.Context, req AddReplyRequest) (*Post, error)
	DeleteCascade(ctx context.Context, id, path string) error
}
