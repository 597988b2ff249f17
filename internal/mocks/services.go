package mocks

import (
	"context"
	"sync"

	"github.com/article-engagement-api/internal/identity"
	"github.com/article-engagement-api/internal/models"
	"github.com/article-engagement-api/internal/service"
)

// Verify interface compliance
var (
	_ service.CommentService = (*MockCommentService)(nil)
	_ service.LikeService    = (*MockLikeService)(nil)
)

// Call records the arguments a mock service received
type Call struct {
	Method    string
	ArticleID string
	CommentID string
	Content   string
	ParentID  *string
	Caller    identity.Identity
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	mu    sync.Mutex
	Calls []Call

	ListFunc   func(ctx context.Context, articleID string, viewer identity.Identity) ([]*models.Comment, error)
	CreateFunc func(ctx context.Context, input service.CreateCommentInput, caller identity.Identity) (*models.Comment, error)
	UpdateFunc func(ctx context.Context, commentID string, caller identity.Identity, content string) (*models.Comment, error)
	DeleteFunc func(ctx context.Context, commentID string, caller identity.Identity) error
}

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{}
}

func (m *MockCommentService) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, c)
}

// LastCall returns the most recent call, or the zero Call
func (m *MockCommentService) LastCall() Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Call{}
	}
	return m.Calls[len(m.Calls)-1]
}

func (m *MockCommentService) ListByArticle(ctx context.Context, articleID string, viewer identity.Identity) ([]*models.Comment, error) {
	m.record(Call{Method: "ListByArticle", ArticleID: articleID, Caller: viewer})
	if m.ListFunc != nil {
		return m.ListFunc(ctx, articleID, viewer)
	}
	return []*models.Comment{}, nil
}

func (m *MockCommentService) Create(ctx context.Context, input service.CreateCommentInput, caller identity.Identity) (*models.Comment, error) {
	m.record(Call{Method: "Create", ArticleID: input.ArticleID, Content: input.Content, ParentID: input.ParentID, Caller: caller})
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input, caller)
	}
	return &models.Comment{
		ID:        "test-comment-id",
		ArticleID: input.ArticleID,
		AuthorID:  caller.UserID,
		Content:   input.Content,
		Status:    models.CommentStatusApproved,
	}, nil
}

func (m *MockCommentService) Update(ctx context.Context, commentID string, caller identity.Identity, content string) (*models.Comment, error) {
	m.record(Call{Method: "Update", CommentID: commentID, Content: content, Caller: caller})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, commentID, caller, content)
	}
	return &models.Comment{ID: commentID, AuthorID: caller.UserID, Content: content, IsEdited: true}, nil
}

func (m *MockCommentService) Delete(ctx context.Context, commentID string, caller identity.Identity) error {
	m.record(Call{Method: "Delete", CommentID: commentID, Caller: caller})
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, commentID, caller)
	}
	return nil
}

// MockLikeService is a mock implementation of LikeService
type MockLikeService struct {
	mu    sync.Mutex
	Calls []Call

	StateFunc  func(ctx context.Context, articleID string, caller identity.Identity) (*models.LikeState, error)
	ToggleFunc func(ctx context.Context, articleID string, caller identity.Identity) (*models.LikeState, error)
}

func NewMockLikeService() *MockLikeService {
	return &MockLikeService{}
}

func (m *MockLikeService) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, c)
}

// LastCall returns the most recent call, or the zero Call
func (m *MockLikeService) LastCall() Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Call{}
	}
	return m.Calls[len(m.Calls)-1]
}

func (m *MockLikeService) State(ctx context.Context, articleID string, caller identity.Identity) (*models.LikeState, error) {
	m.record(Call{Method: "State", ArticleID: articleID, Caller: caller})
	if m.StateFunc != nil {
		return m.StateFunc(ctx, articleID, caller)
	}
	return &models.LikeState{}, nil
}

func (m *MockLikeService) Toggle(ctx context.Context, articleID string, caller identity.Identity) (*models.LikeState, error) {
	m.record(Call{Method: "Toggle", ArticleID: articleID, Caller: caller})
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, articleID, caller)
	}
	return &models.LikeState{Liked: true, TotalLikes: 1}, nil
}
