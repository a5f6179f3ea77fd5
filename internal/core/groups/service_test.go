package groups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGroupRepository is a mock implementation of Repository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *Group) (*Group, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Group), args.Error(1)
}

func (m *MockGroupRepository) GetByExternalID(ctx context.Context, externalID string) (*Group, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Group), args.Error(1)
}

func (m *MockGroupRepository) GetDetails(ctx context.Context, externalID string) (*GroupDetails, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GroupDetails), args.Error(1)
}

func (m *MockGroupRepository) GetGroupPosts(ctx context.Context, id string) (*GroupPosts, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GroupPosts), args.Error(1)
}

func (m *MockGroupRepository) List(ctx context.Context, req ListGroupsRequest) ([]*Group, int, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*Group), args.Int(1), args.Error(2)
}

func (m *MockGroupRepository) GetUserRef(ctx context.Context, externalID string) (*UserRef, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserRef), args.Error(1)
}

func (m *MockGroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, userID, groupID string) error {
	args := m.Called(ctx, userID, groupID)
	return args.Error(0)
}

func (m *MockGroupRepository) UpdateInfo(ctx context.Context, externalID, name, username, image string) (*Group, error) {
	args := m.Called(ctx, externalID, name, username, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Group), args.Error(1)
}

func (m *MockGroupRepository) Delete(ctx context.Context, externalID string) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}

func makeGroups(n int) []*Group {
	groups := make([]*Group, n)
	for i := range groups {
		groups[i] = &Group{ID: "group", ExternalID: "ext-group"}
	}
	return groups
}

// TestCreateGroup_Success tests group creation with a resolved creator
func TestCreateGroup_Success(t *testing.T) {
	mockRepo := new(MockGroupRepository)

	creator := &UserRef{ID: "22222222-2222-2222-2222-222222222222", ExternalID: "ext-creator"}
	mockRepo.On("GetUserRef", mock.Anything, "ext-creator").Return(creator, nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(g *Group) bool {
		return g.ExternalID == "grp-1" &&
			g.Username == "gophers" &&
			g.Name == "Gophers" &&
			g.CreatedBy == creator.ID
	})).Return(&Group{
		ID:         "33333333-3333-3333-3333-333333333333",
		ExternalID: "grp-1",
		Username:   "gophers",
		Name:       "Gophers",
		CreatedBy:  creator.ID,
	}, nil)

	service := NewGroupService(mockRepo)

	created, err := service.CreateGroup(context.Background(), CreateGroupRequest{
		ExternalID:        "grp-1",
		Username:          "Gophers",
		Name:              "Gophers",
		CreatorExternalID: "ext-creator",
	})
	require.NoError(t, err)
	assert.Equal(t, creator.ID, created.CreatedBy)
	// Creator owns the group but is not enrolled as a member
	assert.Empty(t, created.MemberIDs)

	mockRepo.AssertExpectations(t)
}

// TestCreateGroup_CreatorNotFound tests that a missing creator persists nothing
func TestCreateGroup_CreatorNotFound(t *testing.T) {
	mockRepo := new(MockGroupRepository)
	mockRepo.On("GetUserRef", mock.Anything, "ext-ghost").Return(nil, ErrUserNotFound)

	service := NewGroupService(mockRepo)

	_, err := service.CreateGroup(context.Background(), CreateGroupRequest{
		ExternalID:        "grp-1",
		Username:          "gophers",
		Name:              "Gophers",
		CreatorExternalID: "ext-ghost",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateGroup_MissingFields tests required-field validation
func TestCreateGroup_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  CreateGroupRequest
	}{
		{"missing external id", CreateGroupRequest{Username: "g", Name: "G", CreatorExternalID: "c"}},
		{"missing username", CreateGroupRequest{ExternalID: "grp-1", Name: "G", CreatorExternalID: "c"}},
		{"missing name", CreateGroupRequest{ExternalID: "grp-1", Username: "g", CreatorExternalID: "c"}},
		{"missing creator", CreateGroupRequest{ExternalID: "grp-1", Username: "g", Name: "G"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockGroupRepository)
			service := NewGroupService(mockRepo)

			_, err := service.CreateGroup(context.Background(), tt.req)
			assert.True(t, IsValidationError(err))

			mockRepo.AssertNotCalled(t, "GetUserRef", mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

// TestGetDetails_UnknownGroup tests that a miss is a nil result, not an error
func TestGetDetails_UnknownGroup(t *testing.T) {
	mockRepo := new(MockGroupRepository)
	mockRepo.On("GetDetails", mock.Anything, "grp-missing").Return(nil, nil)

	service := NewGroupService(mockRepo)

	details, err := service.GetDetails(context.Background(), "grp-missing")
	require.NoError(t, err)
	assert.Nil(t, details)
}

// TestList_Pagination tests the has-next-page arithmetic at the boundaries
func TestList_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		pageSize    int
		returned    int
		total       int
		hasNextPage bool
	}{
		{"empty", 1, 20, 0, 0, false},
		{"exactly one page", 1, 20, 20, 20, false},
		{"one more than a page", 1, 20, 20, 21, true},
		{"second of two pages", 2, 20, 20, 40, false},
		{"middle page", 2, 20, 20, 41, true},
		{"short last page", 3, 20, 5, 45, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockGroupRepository)
			mockRepo.On("List", mock.Anything, mock.MatchedBy(func(req ListGroupsRequest) bool {
				return req.PageNumber == tt.page && req.PageSize == tt.pageSize
			})).Return(makeGroups(tt.returned), tt.total, nil)

			service := NewGroupService(mockRepo)

			page, err := service.List(context.Background(), ListGroupsRequest{
				PageNumber: tt.page,
				PageSize:   tt.pageSize,
			})
			require.NoError(t, err)
			assert.Len(t, page.Groups, tt.returned)
			assert.Equal(t, tt.hasNextPage, page.HasNextPage)
		})
	}
}

// TestList_Defaults tests that zero-value paging and sort get defaults
func TestList_Defaults(t *testing.T) {
	mockRepo := new(MockGroupRepository)
	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(req ListGroupsRequest) bool {
		return req.PageNumber == 1 &&
			req.PageSize == DefaultPageSize &&
			req.SortOrder == "desc" &&
			req.SearchText == "golang"
	})).Return([]*Group{}, 0, nil)

	service := NewGroupService(mockRepo)

	_, err := service.List(context.Background(), ListGroupsRequest{SearchText: "  golang  "})
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

// TestAddMember_Success tests enrolling a new member
func TestAddMember_Success(t *testing.T) {
	mockRepo := new(MockGroupRepository)

	group := &Group{ID: "g-1", ExternalID: "grp-1"}
	member := &UserRef{ID: "u-1", ExternalID: "ext-member"}

	mockRepo.On("GetByExternalID", mock.Anything, "grp-1").Return(group, nil)
	mockRepo.On("GetUserRef", mock.Anything, "ext-member").Return(member, nil)
	mockRepo.On("AddMember", mock.Anything, "g-1", "u-1").Return(nil)

	service := NewGroupService(mockRepo)

	err := service.AddMember(context.Background(), "grp-1", "ext-member")
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

// TestAddMember_AlreadyMember tests that re-enrolling is a conflict
func TestAddMember_AlreadyMember(t *testing.T) {
	mockRepo := new(MockGroupRepository)

	group := &Group{ID: "g-1", ExternalID: "grp-1", MemberIDs: []string{"u-1"}}
	member := &UserRef{ID: "u-1", ExternalID: "ext-member"}

	mockRepo.On("GetByExternalID", mock.Anything, "grp-1").Return(group, nil)
	mockRepo.On("GetUserRef", mock.Anything, "ext-member").Return(member, nil)

	service := NewGroupService(mockRepo)

	err := service.AddMember(context.Background(), "grp-1", "ext-member")
	assert.ErrorIs(t, err, ErrAlreadyMember)

	mockRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

// TestAddMember_GroupNotFound tests enrollment into an unknown group
func TestAddMember_GroupNotFound(t *testing.T) {
	mockRepo := new(MockGroupRepository)
	mockRepo.On("GetByExternalID", mock.Anything, "grp-missing").Return(nil, ErrGroupNotFound)

	service := NewGroupService(mockRepo)

	err := service.AddMember(context.Background(), "grp-missing", "ext-member")
	assert.ErrorIs(t, err, ErrGroupNotFound)

	mockRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

// TestRemoveMember_NotAMember tests that removing an absent member is a no-op
func TestRemoveMember_NotAMember(t *testing.T) {
	mockRepo := new(MockGroupRepository)

	group := &Group{ID: "g-1", ExternalID: "grp-1"}
	user := &UserRef{ID: "u-1", ExternalID: "ext-member"}

	mockRepo.On("GetUserRef", mock.Anything, "ext-member").Return(user, nil)
	mockRepo.On("GetByExternalID", mock.Anything, "grp-1").Return(group, nil)
	mockRepo.On("RemoveMember", mock.Anything, "u-1", "g-1").Return(nil)

	service := NewGroupService(mockRepo)

	err := service.RemoveMember(context.Background(), "ext-member", "grp-1")
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

// TestUpdateInfo_NormalizesUsername tests the username lowercasing on update
func TestUpdateInfo_NormalizesUsername(t *testing.T) {
	mockRepo := new(MockGroupRepository)
	mockRepo.On("UpdateInfo", mock.Anything, "grp-1", "Gophers", "gophers", "img.png").
		Return(&Group{ID: "g-1", ExternalID: "grp-1", Name: "Gophers", Username: "gophers"}, nil)

	service := NewGroupService(mockRepo)

	updated, err := service.UpdateInfo(context.Background(), "grp-1", " Gophers ", " GOPHERS ", "img.png")
	require.NoError(t, err)
	assert.Equal(t, "gophers", updated.Username)

	mockRepo.AssertExpectations(t)
}

// TestUpdateInfo_MissingName tests required-field validation on update
func TestUpdateInfo_MissingName(t *testing.T) {
	mockRepo := new(MockGroupRepository)
	service := NewGroupService(mockRepo)

	_, err := service.UpdateInfo(context.Background(), "grp-1", "  ", "gophers", "")
	assert.True(t, IsValidationError(err))

	mockRepo.AssertNotCalled(t, "UpdateInfo", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestDelete_BlankID tests that a blank id is rejected before the repository
func TestDelete_BlankID(t *testing.T) {
	mockRepo := new(MockGroupRepository)
	service := NewGroupService(mockRepo)

	err := service.Delete(context.Background(), " ")
	assert.ErrorIs(t, err, ErrGroupNotFound)

	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
