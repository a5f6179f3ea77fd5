package groups

import "context"

// Repository defines the interface for group data persistence.
//
// Mutations that touch both sides of a symmetric reference (group member
// lists and user group lists, group post lists and author post lists) run in
// one database transaction.
type Repository interface {
	// Create inserts the group and appends its id to the creator's group
	// list. Returns ErrUsernameTaken on a duplicate group username.
	Create(ctx context.Context, group *Group) (*Group, error)

	// GetByExternalID retrieves a group by its provider id.
	// Returns ErrGroupNotFound on miss.
	GetByExternalID(ctx context.Context, externalID string) (*Group, error)

	// GetDetails retrieves a group with its creator and members expanded.
	// A miss returns (nil, nil): the page layer renders a placeholder
	// rather than an error for unknown groups.
	GetDetails(ctx context.Context, externalID string) (*GroupDetails, error)

	// GetGroupPosts retrieves a group by internal id with its post list
	// expanded, each post hydrated with author and one reply level.
	GetGroupPosts(ctx context.Context, id string) (*GroupPosts, error)

	// List retrieves one page of groups matching the search text, plus the
	// total number of matches for pagination.
	List(ctx context.Context, req ListGroupsRequest) ([]*Group, int, error)

	// GetUserRef resolves a user's external id to an internal reference.
	// Returns ErrUserNotFound on miss.
	GetUserRef(ctx context.Context, externalID string) (*UserRef, error)

	// AddMember appends the symmetric membership references
	// (group.member_ids and user.group_ids) by internal ids.
	AddMember(ctx context.Context, groupID, userID string) error

	// RemoveMember pulls the symmetric membership references by internal
	// ids. Absent references are a no-op, not an error.
	RemoveMember(ctx context.Context, userID, groupID string) error

	// UpdateInfo overwrites the group's name, username, and image.
	// Returns ErrGroupNotFound on miss.
	UpdateInfo(ctx context.Context, externalID, name, username, image string) (*Group, error)

	// Delete removes the group, every post tagged with it, the deleted post
	// ids from their authors' post lists, and the group id from every
	// member's group list, all in one transaction.
	Delete(ctx context.Context, externalID string) error
}

// Service defines the interface for group business logic
type Service interface {
	CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error)
	GetDetails(ctx context.Context, externalID string) (*GroupDetails, error)
	GetGroupPosts(ctx context.Context, id string) (*GroupPosts, error)
	List(ctx context.Context, req ListGroupsRequest) (*GroupPage, error)
	AddMember(ctx context.Context, groupExternalID, memberExternalID string) error
	RemoveMember(ctx context.Context, userExternalID, groupExternalID string) error
	UpdateInfo(ctx context.Context, externalID, name, username, image string) (*Group, error)
	Delete(ctx context.Context, externalID string) error
}
