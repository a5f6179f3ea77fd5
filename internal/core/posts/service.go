package posts

import (
	"Gather/internal/revalidate"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultPageSize is the feed page size when the caller doesn't specify one
	DefaultPageSize = 20

	// MaxContentLength caps post content
	MaxContentLength = 10000
)

type postService struct {
	repo     Repository
	notifier revalidate.Notifier
}

// NewPostService creates a new post service
func NewPostService(repo Repository, notifier revalidate.Notifier) Service {
	if notifier == nil {
		notifier = revalidate.NewNoopNotifier()
	}
	return &postService{repo: repo, notifier: notifier}
}

// ListTopLevel returns one page of top-level posts, newest first
func (s *postService) ListTopLevel(ctx context.Context, pageNumber, pageSize int) (*Feed, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	offset := (pageNumber - 1) * pageSize

	views, total, err := s.repo.ListTopLevel(ctx, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &Feed{
		Posts:       views,
		HasNextPage: total > offset+len(views),
	}, nil
}

// Create creates a new top-level post and links it from its author's post
// list and, when the group resolves, from the group's post list.
//
// A group external id that doesn't resolve is not an error: the post is
// created without a group, matching the personal-feed path in the UI.
func (s *postService) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := validateContent(req.Content); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.AuthorID) == "" {
		return nil, NewValidationError("authorId", "author is required")
	}

	post := &Post{
		ID:       uuid.New().String(),
		Content:  req.Content,
		AuthorID: req.AuthorID,
	}

	if req.GroupExternalID != "" {
		groupID, err := s.repo.ResolveGroupRef(ctx, req.GroupExternalID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve group %s: %w", req.GroupExternalID, err)
		}
		if groupID != "" {
			post.GroupID = &groupID
		}
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.notifier.Invalidate(ctx, req.Path)

	return created, nil
}

// GetByID returns a post with author, group, and two levels of replies expanded
func (s *postService) GetByID(ctx context.Context, id string) (*PostView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrPostNotFound
	}

	view, err := s.repo.GetThread(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load post %s: %w", id, err)
	}

	return view, nil
}

// AddReply creates a reply under an existing post. Postcondition: the reply's
// id is present in the parent's children list and its ParentID equals the
// parent's id.
func (s *postService) AddReply(ctx context.Context, req AddReplyRequest) (*Post, error) {
	if err := validateContent(req.Content); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.AuthorID) == "" {
		return nil, NewValidationError("authorId", "author is required")
	}

	parent, err := s.repo.GetByID(ctx, req.ParentID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to load parent post: %w", err)
	}

	reply := &Post{
		ID:       uuid.New().String(),
		Content:  req.Content,
		AuthorID: req.AuthorID,
		ParentID: &parent.ID,
	}

	created, err := s.repo.CreateReply(ctx, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to add reply: %w", err)
	}

	s.notifier.Invalidate(ctx, req.Path)

	return created, nil
}

// DeleteCascade removes a post and its entire reply subtree, then pulls the
// deleted ids from every referencing user's and group's post list.
//
// Descendants are discovered level by level through parent-id lookups, one
// store round trip per tree level. The batch delete and reference cleanup run
// in one repository transaction.
func (s *postService) DeleteCascade(ctx context.Context, id, path string) error {
	root, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to load post %s: %w", id, err)
	}

	batch := DeleteBatch{
		PostIDs:  []string{root.ID},
		ParentID: root.ParentID,
	}

	authorSet := map[string]bool{root.AuthorID: true}
	groupSet := map[string]bool{}
	if root.GroupID != nil {
		groupSet[*root.GroupID] = true
	}

	frontier := []string{root.ID}
	for len(frontier) > 0 {
		children, err := s.repo.ListByParents(ctx, frontier)
		if err != nil {
			return fmt.Errorf("failed to collect replies: %w", err)
		}

		frontier = frontier[:0]
		for _, child := range children {
			batch.PostIDs = append(batch.PostIDs, child.ID)
			authorSet[child.AuthorID] = true
			if child.GroupID != nil {
				groupSet[*child.GroupID] = true
			}
			frontier = append(frontier, child.ID)
		}
	}

	for authorID := range authorSet {
		batch.AuthorIDs = append(batch.AuthorIDs, authorID)
	}
	for groupID := range groupSet {
		batch.GroupIDs = append(batch.GroupIDs, groupID)
	}

	if err := s.repo.DeleteBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to delete post tree: %w", err)
	}

	s.notifier.Invalidate(ctx, path)

	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentEmpty
	}
	if len(content) > MaxContentLength {
		return NewValidationError("content", fmt.Sprintf("content exceeds %d characters", MaxContentLength))
	}
	return nil
}
