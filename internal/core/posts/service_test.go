package posts

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock implementation of Repository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostRepository) CreateReply(ctx context.Context, reply *Post) (*Post, error) {
	args := m.Called(ctx, reply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostRepository) GetThread(ctx context.Context, id string) (*PostView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PostView), args.Error(1)
}

func (m *MockPostRepository) ListTopLevel(ctx context.Context, limit, offset int) ([]*PostView, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*PostView), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) ListByParents(ctx context.Context, parentIDs []string) ([]*Post, error) {
	args := m.Called(ctx, parentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Post), args.Error(1)
}

func (m *MockPostRepository) DeleteBatch(ctx context.Context, batch DeleteBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockPostRepository) ResolveGroupRef(ctx context.Context, externalID string) (string, error) {
	args := m.Called(ctx, externalID)
	return args.String(0), args.Error(1)
}

func makeViews(n int) []*PostView {
	views := make([]*PostView, n)
	for i := range views {
		views[i] = &PostView{ID: "post", Content: "hello"}
	}
	return views
}

// TestListTopLevel_Pagination tests the has-next-page arithmetic at the boundaries
func TestListTopLevel_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		pageSize    int
		returned    int
		total       int
		hasNextPage bool
	}{
		{"empty feed", 1, 20, 0, 0, false},
		{"exactly one page", 1, 20, 20, 20, false},
		{"one more than a page", 1, 20, 20, 21, true},
		{"second of two pages", 2, 20, 20, 40, false},
		{"short last page", 3, 20, 5, 45, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			offset := (tt.page - 1) * tt.pageSize
			mockRepo.On("ListTopLevel", mock.Anything, tt.pageSize, offset).
				Return(makeViews(tt.returned), tt.total, nil)

			service := NewPostService(mockRepo, nil)

			feed, err := service.ListTopLevel(context.Background(), tt.page, tt.pageSize)
			require.NoError(t, err)
			assert.Len(t, feed.Posts, tt.returned)
			assert.Equal(t, tt.hasNextPage, feed.HasNextPage)
		})
	}
}

// TestListTopLevel_Defaults tests that out-of-range paging falls back to defaults
func TestListTopLevel_Defaults(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("ListTopLevel", mock.Anything, DefaultPageSize, 0).
		Return([]*PostView{}, 0, nil)

	service := NewPostService(mockRepo, nil)

	_, err := service.ListTopLevel(context.Background(), 0, -5)
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

// TestCreate_Success tests top-level post creation without a group
func TestCreate_Success(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Post) bool {
		return p.Content == "hello world" &&
			p.AuthorID == "u-1" &&
			p.GroupID == nil &&
			p.ParentID == nil &&
			p.ID != ""
	})).Return(&Post{ID: "p-1", Content: "hello world", AuthorID: "u-1"}, nil)

	service := NewPostService(mockRepo, nil)

	created, err := service.Create(context.Background(), CreatePostRequest{
		Content:  "hello world",
		AuthorID: "u-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", created.ID)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "ResolveGroupRef", mock.Anything, mock.Anything)
}

// TestCreate_WithGroup tests that a resolvable group id is attached
func TestCreate_WithGroup(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("ResolveGroupRef", mock.Anything, "grp-1").Return("g-internal", nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Post) bool {
		return p.GroupID != nil && *p.GroupID == "g-internal"
	})).Return(&Post{ID: "p-1", Content: "hello", AuthorID: "u-1"}, nil)

	service := NewPostService(mockRepo, nil)

	_, err := service.Create(context.Background(), CreatePostRequest{
		Content:         "hello",
		AuthorID:        "u-1",
		GroupExternalID: "grp-1",
	})
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

// TestCreate_UnknownGroup tests that an unresolvable group is skipped, not fatal
func TestCreate_UnknownGroup(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("ResolveGroupRef", mock.Anything, "grp-ghost").Return("", nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Post) bool {
		return p.GroupID == nil
	})).Return(&Post{ID: "p-1", Content: "hello", AuthorID: "u-1"}, nil)

	service := NewPostService(mockRepo, nil)

	created, err := service.Create(context.Background(), CreatePostRequest{
		Content:         "hello",
		AuthorID:        "u-1",
		GroupExternalID: "grp-ghost",
	})
	require.NoError(t, err)
	assert.Nil(t, created.GroupID)

	mockRepo.AssertExpectations(t)
}

// TestCreate_InvalidContent tests content validation
func TestCreate_InvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t "},
		{"over limit", strings.Repeat("a", MaxContentLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			service := NewPostService(mockRepo, nil)

			_, err := service.Create(context.Background(), CreatePostRequest{
				Content:  tt.content,
				AuthorID: "u-1",
			})
			assert.True(t, IsValidationError(err), "expected validation error")

			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

// TestAddReply_Success tests that a reply is linked to its parent
func TestAddReply_Success(t *testing.T) {
	mockRepo := new(MockPostRepository)

	parent := &Post{ID: "p-parent", Content: "root", AuthorID: "u-1"}
	mockRepo.On("GetByID", mock.Anything, "p-parent").Return(parent, nil)
	mockRepo.On("CreateReply", mock.Anything, mock.MatchedBy(func(r *Post) bool {
		return r.ParentID != nil && *r.ParentID == "p-parent" && r.AuthorID == "u-2"
	})).Return(&Post{
		ID:       "p-reply",
		Content:  "a reply",
		AuthorID: "u-2",
		ParentID: &parent.ID,
	}, nil)

	service := NewPostService(mockRepo, nil)

	reply, err := service.AddReply(context.Background(), AddReplyRequest{
		ParentID: "p-parent",
		Content:  "a reply",
		AuthorID: "u-2",
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, "p-parent", *reply.ParentID)

	mockRepo.AssertExpectations(t)
}

// TestAddReply_ParentNotFound tests replying to a deleted post
func TestAddReply_ParentNotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("GetByID", mock.Anything, "p-gone").Return(nil, ErrPostNotFound)

	service := NewPostService(mockRepo, nil)

	_, err := service.AddReply(context.Background(), AddReplyRequest{
		ParentID: "p-gone",
		Content:  "a reply",
		AuthorID: "u-2",
	})
	assert.ErrorIs(t, err, ErrParentNotFound)

	mockRepo.AssertNotCalled(t, "CreateReply", mock.Anything, mock.Anything)
}

// TestDeleteCascade_Subtree tests that the whole reply tree is collected:
// a root with two replies, one of which has a reply of its own.
func TestDeleteCascade_Subtree(t *testing.T) {
	mockRepo := new(MockPostRepository)

	rootID := "p-root"
	groupID := "g-1"
	root := &Post{ID: rootID, Content: "root", AuthorID: "u-1", GroupID: &groupID}

	childA := &Post{ID: "p-a", Content: "a", AuthorID: "u-2", ParentID: &rootID}
	childB := &Post{ID: "p-b", Content: "b", AuthorID: "u-1", ParentID: &rootID}
	grandchildID := childA.ID
	grandchild := &Post{ID: "p-aa", Content: "aa", AuthorID: "u-3", ParentID: &grandchildID}

	mockRepo.On("GetByID", mock.Anything, rootID).Return(root, nil)
	mockRepo.On("ListByParents", mock.Anything, []string{rootID}).
		Return([]*Post{childA, childB}, nil)
	mockRepo.On("ListByParents", mock.Anything, []string{"p-a", "p-b"}).
		Return([]*Post{grandchild}, nil)
	mockRepo.On("ListByParents", mock.Anything, []string{"p-aa"}).
		Return([]*Post{}, nil)
	mockRepo.On("DeleteBatch", mock.Anything, mock.MatchedBy(func(batch DeleteBatch) bool {
		authors := append([]string(nil), batch.AuthorIDs...)
		sort.Strings(authors)
		return assert.ObjectsAreEqual([]string{"p-root", "p-a", "p-b", "p-aa"}, batch.PostIDs) &&
			assert.ObjectsAreEqual([]string{"u-1", "u-2", "u-3"}, authors) &&
			assert.ObjectsAreEqual([]string{"g-1"}, batch.GroupIDs) &&
			batch.ParentID == nil
	})).Return(nil)

	service := NewPostService(mockRepo, nil)

	err := service.DeleteCascade(context.Background(), rootID, "/")
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

// TestDeleteCascade_ReplySubtree tests deleting a mid-tree reply: the parent
// reference travels in the batch so the parent's children list gets cleaned.
func TestDeleteCascade_ReplySubtree(t *testing.T) {
	mockRepo := new(MockPostRepository)

	parentID := "p-parent"
	reply := &Post{ID: "p-reply", Content: "r", AuthorID: "u-2", ParentID: &parentID}

	mockRepo.On("GetByID", mock.Anything, "p-reply").Return(reply, nil)
	mockRepo.On("ListByParents", mock.Anything, []string{"p-reply"}).
		Return([]*Post{}, nil)
	mockRepo.On("DeleteBatch", mock.Anything, mock.MatchedBy(func(batch DeleteBatch) bool {
		return assert.ObjectsAreEqual([]string{"p-reply"}, batch.PostIDs) &&
			batch.ParentID != nil && *batch.ParentID == "p-parent"
	})).Return(nil)

	service := NewPostService(mockRepo, nil)

	err := service.DeleteCascade(context.Background(), "p-reply", "/")
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

// TestDeleteCascade_RootNotFound tests deleting an unknown post
func TestDeleteCascade_RootNotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("GetByID", mock.Anything, "p-gone").Return(nil, ErrPostNotFound)

	service := NewPostService(mockRepo, nil)

	err := service.DeleteCascade(context.Background(), "p-gone", "/")
	assert.ErrorIs(t, err, ErrPostNotFound)

	mockRepo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

// TestGetByID_WrapsStoreError tests that store failures surface with context
// while not-found passes through unwrapped for the handler's errors.Is checks.
func TestGetByID_WrapsStoreError(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("GetThread", mock.Anything, "p-1").Return(nil, errors.New("connection refused"))

	service := NewPostService(mockRepo, nil)

	_, err := service.GetByID(context.Background(), "p-1")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to load post p-1")
	assert.Contains(t, err.Error(), "connection refused")
}

// TestDeleteCascade_WrapsStoreError tests the same policy on the root lookup
func TestDeleteCascade_WrapsStoreError(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("GetByID", mock.Anything, "p-1").Return(nil, errors.New("connection refused"))

	service := NewPostService(mockRepo, nil)

	err := service.DeleteCascade(context.Background(), "p-1", "/")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to load post p-1")

	mockRepo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

// TestGetByID_Blank tests that a blank id short-circuits to not found
func TestGetByID_Blank(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := NewPostService(mockRepo, nil)

	_, err := service.GetByID(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrPostNotFound)

	mockRepo.AssertNotCalled(t, "GetThread", mock.Anything, mock.Anything)
}
