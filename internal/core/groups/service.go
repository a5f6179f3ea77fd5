package groups

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultPageSize is the listing page size when the caller doesn't specify one
	DefaultPageSize = 20
)

type groupService struct {
	repo Repository
}

// NewGroupService creates a new group service
func NewGroupService(repo Repository) Service {
	return &groupService{repo: repo}
}

// CreateGroup creates a new group owned by the creator. The creator is
// recorded through CreatedBy but is not added to the member list; membership
// is an explicit AddMember call.
func (s *groupService) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	if err := validateCreateRequest(&req); err != nil {
		return nil, err
	}

	// Resolve the creator before persisting anything: a missing creator
	// must leave no group behind.
	creator, err := s.repo.GetUserRef(ctx, req.CreatorExternalID)
	if err != nil {
		return nil, err
	}

	group := &Group{
		ID:         uuid.New().String(),
		ExternalID: req.ExternalID,
		Username:   req.Username,
		Name:       req.Name,
		Image:      req.Image,
		Bio:        req.Bio,
		CreatedBy:  creator.ID,
	}

	created, err := s.repo.Create(ctx, group)
	if err != nil {
		if IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create group %s: %w", req.ExternalID, err)
	}

	return created, nil
}

// GetDetails retrieves a group with creator and members expanded.
// Unknown groups yield (nil, nil); the caller renders a placeholder.
func (s *groupService) GetDetails(ctx context.Context, externalID string) (*GroupDetails, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, nil
	}

	return s.repo.GetDetails(ctx, externalID)
}

// GetGroupPosts retrieves a group's posts with authors and reply previews
func (s *groupService) GetGroupPosts(ctx context.Context, id string) (*GroupPosts, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrGroupNotFound
	}

	return s.repo.GetGroupPosts(ctx, id)
}

// List returns one page of groups. A non-empty search text matches groups
// whose name or username contains it, case-insensitively.
func (s *groupService) List(ctx context.Context, req ListGroupsRequest) (*GroupPage, error) {
	if req.PageNumber < 1 {
		req.PageNumber = 1
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	if req.SortOrder != "asc" {
		req.SortOrder = "desc"
	}
	req.SearchText = strings.TrimSpace(req.SearchText)

	offset := (req.PageNumber - 1) * req.PageSize

	matched, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	return &GroupPage{
		Groups:      matched,
		HasNextPage: total > offset+len(matched),
	}, nil
}

// AddMember adds a user to a group's member list and the group to the user's
// group list.
func (s *groupService) AddMember(ctx context.Context, groupExternalID, memberExternalID string) error {
	group, err := s.repo.GetByExternalID(ctx, groupExternalID)
	if err != nil {
		return err
	}

	member, err := s.repo.GetUserRef(ctx, memberExternalID)
	if err != nil {
		return err
	}

	for _, id := range group.MemberIDs {
		if id == member.ID {
			return ErrAlreadyMember
		}
	}

	if err := s.repo.AddMember(ctx, group.ID, member.ID); err != nil {
		return fmt.Errorf("failed to add member to group %s: %w", groupExternalID, err)
	}

	return nil
}

// RemoveMember pulls the symmetric membership references. Removing a user who
// was never a member is a no-op.
func (s *groupService) RemoveMember(ctx context.Context, userExternalID, groupExternalID string) error {
	user, err := s.repo.GetUserRef(ctx, userExternalID)
	if err != nil {
		return err
	}

	group, err := s.repo.GetByExternalID(ctx, groupExternalID)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveMember(ctx, user.ID, group.ID); err != nil {
		return fmt.Errorf("failed to remove member from group %s: %w", groupExternalID, err)
	}

	return nil
}

// UpdateInfo overwrites the group's name, username, and image
func (s *groupService) UpdateInfo(ctx context.Context, externalID, name, username, image string) (*Group, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if username == "" {
		return nil, NewValidationError("username", "username is required")
	}

	updated, err := s.repo.UpdateInfo(ctx, externalID, name, username, image)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the group, cascading to its posts and to the membership
// references held by its members.
func (s *groupService) Delete(ctx context.Context, externalID string) error {
	if strings.TrimSpace(externalID) == "" {
		return ErrGroupNotFound
	}

	return s.repo.Delete(ctx, externalID)
}

func validateCreateRequest(req *CreateGroupRequest) error {
	req.ExternalID = strings.TrimSpace(req.ExternalID)
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Name = strings.TrimSpace(req.Name)
	req.CreatorExternalID = strings.TrimSpace(req.CreatorExternalID)

	if req.ExternalID == "" {
		return NewValidationError("externalId", "external id is required")
	}
	if req.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if req.Username == "" {
		return NewValidationError("username", "username is required")
	}
	if req.CreatorExternalID == "" {
		return NewValidationError("creatorExternalId", "creator is required")
	}

	return nil
}
