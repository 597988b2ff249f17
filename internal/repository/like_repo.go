package repository

import (
	"context"
	"fmt"

	"github.com/article-engagement-api/internal/database"
	"github.com/article-engagement-api/internal/models"
)

// likeRepo is the concrete implementation of LikeRepository
type likeRepo struct {
	db *database.DB
}

// NewLikeRepo creates a new like repository
func NewLikeRepo(db *database.DB) LikeRepository {
	return &likeRepo{db: db}
}

// Exists checks whether the user has liked the article
func (r *likeRepo) Exists(ctx context.Context, articleID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM article_likes WHERE article_id = $1 AND user_id = $2)",
		articleID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return exists, nil
}

// Insert adds a like row. The unique (article_id, user_id) constraint turns a
// concurrent duplicate into ErrDuplicate.
func (r *likeRepo) Insert(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO article_likes (id, article_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, like.ID, like.ArticleID, like.UserID, like.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert like: %w", translate(err))
	}
	return nil
}

// Delete removes the user's like on the article
func (r *likeRepo) Delete(ctx context.Context, articleID, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM article_likes WHERE article_id = $1 AND user_id = $2",
		articleID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	return affected > 0, nil
}

// CountByArticle returns the number of likes on an article
func (r *likeRepo) CountByArticle(ctx context.Context, articleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM article_likes WHERE article_id = $1", articleID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}
