package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/article-engagement-api/internal/models"
	"github.com/article-engagement-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
	_ repository.LikeRepository    = (*MockLikeRepository)(nil)
)

// MockCommentRepository is an in-memory CommentRepository.
// Stored rows are copied in and out so callers cannot mutate the store.
type MockCommentRepository struct {
	mu       sync.Mutex
	Comments map[string]*models.Comment

	ListError   error
	GetError    error
	CreateError error
	UpdateError error
	DeleteError error

	UpdateCalls int
	DeleteCalls int
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
	}
}

// Seed stores comments as-is, bypassing error injection
func (m *MockCommentRepository) Seed(comments ...*models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range comments {
		stored := *c
		m.Comments[c.ID] = &stored
	}
}

// Stored returns a copy of the stored row, or nil
func (m *MockCommentRepository) Stored(id string) *models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[id]
	if !ok {
		return nil
	}
	out := *c
	return &out
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}

	comments := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.ArticleID == articleID {
			out := *c
			comments = append(comments, &out)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		a, b := comments[i].CreatedAt, comments[j].CreatedAt
		if a.Valid != b.Valid {
			return a.Valid
		}
		if !a.Time.Equal(b.Time) {
			return a.Time.After(b.Time)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if comment.ParentID != nil {
		if _, ok := m.Comments[*comment.ParentID]; !ok {
			return repository.ErrInvalidReference
		}
	}
	stored := *comment
	m.Comments[comment.ID] = &stored
	return nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	stored, ok := m.Comments[comment.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Content = comment.Content
	stored.UpdatedAt = comment.UpdatedAt
	stored.IsEdited = comment.IsEdited
	*comment = *stored
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Comments, id)
	// mirrors ON DELETE SET NULL
	for _, c := range m.Comments {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
		}
	}
	return nil
}

// MockLikeRepository is an in-memory LikeRepository that enforces the
// (article, user) unique constraint like the real schema does.
type MockLikeRepository struct {
	mu    sync.Mutex
	likes []*models.Like

	ExistsError error
	InsertError error
	DeleteError error
	CountError  error

	// BeforeInsert runs before the uniqueness check; tests use it to
	// interleave a competing write
	BeforeInsert func(like *models.Like)

	InsertCalls int
	DeleteCalls int
}

func NewMockLikeRepository() *MockLikeRepository {
	return &MockLikeRepository{}
}

// Seed stores likes, bypassing error injection and the unique check
func (m *MockLikeRepository) Seed(likes ...*models.Like) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range likes {
		stored := *l
		m.likes = append(m.likes, &stored)
	}
}

// Rows returns the number of stored rows for an (article, user) pair
func (m *MockLikeRepository) Rows(articleID, userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.likes {
		if l.ArticleID == articleID && l.UserID == userID {
			n++
		}
	}
	return n
}

func (m *MockLikeRepository) indexOf(articleID, userID string) int {
	for i, l := range m.likes {
		if l.ArticleID == articleID && l.UserID == userID {
			return i
		}
	}
	return -1
}

func (m *MockLikeRepository) Exists(ctx context.Context, articleID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsError != nil {
		return false, m.ExistsError
	}
	return m.indexOf(articleID, userID) >= 0, nil
}

func (m *MockLikeRepository) Insert(ctx context.Context, like *models.Like) error {
	if m.BeforeInsert != nil {
		m.BeforeInsert(like)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.indexOf(like.ArticleID, like.UserID) >= 0 {
		return repository.ErrDuplicate
	}
	stored := *like
	m.likes = append(m.likes, &stored)
	return nil
}

func (m *MockLikeRepository) Delete(ctx context.Context, articleID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteError != nil {
		return false, m.DeleteError
	}
	i := m.indexOf(articleID, userID)
	if i < 0 {
		return false, nil
	}
	m.likes = append(m.likes[:i], m.likes[i+1:]...)
	return true, nil
}

func (m *MockLikeRepository) CountByArticle(ctx context.Context, articleID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountError != nil {
		return 0, m.CountError
	}
	n := 0
	for _, l := range m.likes {
		if l.ArticleID == articleID {
			n++
		}
	}
	return n, nil
}
