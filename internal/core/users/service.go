package users

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"Gather/internal/revalidate"

	"github.com/google/uuid"
)

// Usernames: lowercase alphanumeric plus underscores and dots, no leading or
// trailing separator. Normalized to lowercase before validation.
var usernameRegex = regexp.MustCompile(`^[a-z0-9_]([a-z0-9_.]*[a-z0-9_])?$`)

const maxUsernameLength = 30

type userService struct {
	repo     Repository
	notifier revalidate.Notifier
}

// NewUserService creates a new user service
func NewUserService(repo Repository, notifier revalidate.Notifier) Service {
	if notifier == nil {
		notifier = revalidate.NewNoopNotifier()
	}
	return &userService{repo: repo, notifier: notifier}
}

// UpsertProfile creates or updates a user's profile and marks them onboarded
func (s *userService) UpsertProfile(ctx context.Context, req UpsertProfileRequest) (*User, error) {
	if err := validateProfileRequest(&req); err != nil {
		return nil, err
	}

	user := &User{
		ID:         uuid.New().String(), // used only when the upsert inserts
		ExternalID: req.ExternalID,
		Username:   req.Username,
		Name:       req.Name,
		Bio:        req.Bio,
		Image:      req.Image,
		Onboarded:  true,
	}

	saved, err := s.repo.Upsert(ctx, user)
	if err != nil {
		if IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save profile for %s: %w", req.ExternalID, err)
	}

	// Only the profile edit page holds a cached rendering of this record.
	if req.Path == "/profile/edit" {
		s.notifier.Invalidate(ctx, req.Path)
	}

	return saved, nil
}

// GetByExternalID retrieves a user by the identity provider's id
func (s *userService) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, &ValidationError{Field: "externalId", Message: "external id is required"}
	}

	return s.repo.GetByExternalID(ctx, externalID)
}

// GetUserPosts retrieves a user with their authored posts and reply previews
func (s *userService) GetUserPosts(ctx context.Context, externalID string) (*UserPosts, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, &ValidationError{Field: "externalId", Message: "external id is required"}
	}

	result, err := s.repo.GetUserPosts(ctx, externalID)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func validateProfileRequest(req *UpsertProfileRequest) error {
	req.ExternalID = strings.TrimSpace(req.ExternalID)
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Name = strings.TrimSpace(req.Name)

	if req.ExternalID == "" {
		return &ValidationError{Field: "externalId", Message: "external id is required"}
	}
	if req.Username == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if len(req.Username) > maxUsernameLength {
		return &ValidationError{Field: "username", Message: fmt.Sprintf("username must be at most %d characters", maxUsernameLength)}
	}
	if !usernameRegex.MatchString(req.Username) {
		return &ValidationError{Field: "username", Message: "username may contain lowercase letters, digits, underscores, and dots"}
	}
	if req.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}

	return nil
}
