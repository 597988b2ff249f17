package repository

import (
	"context"

	"github.com/article-engagement-api/internal/database"
	"github.com/article-engagement-api/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	// ListByArticle returns the article's comments, newest first
	ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error)
	// GetByID returns (nil, nil) when no comment has the given id
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// Create inserts the comment and refreshes it with the stored row
	Create(ctx context.Context, comment *models.Comment) error
	// Update writes content, updated_at and is_edited; ErrNotFound if the row is gone
	Update(ctx context.Context, comment *models.Comment) error
	// Delete removes the row; ErrNotFound if it did not exist
	Delete(ctx context.Context, id string) error
}

// LikeRepository defines the interface for article like data operations
type LikeRepository interface {
	Exists(ctx context.Context, articleID, userID string) (bool, error)
	// Insert returns ErrDuplicate when the (article, user) pair already has a row
	Insert(ctx context.Context, like *models.Like) error
	// Delete reports whether a row was removed
	Delete(ctx context.Context, articleID, userID string) (bool, error)
	CountByArticle(ctx context.Context, articleID string) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
	Like    LikeRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(db),
		Like:    NewLikeRepo(db),
	}
}
