package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/article-engagement-api/internal/database"
	"github.com/article-engagement-api/internal/models"
	"github.com/google/uuid"
)

const commentColumns = `id, article_id, author_id, author_name, author_email, parent_id, content,
	status, like_count, dislike_count, report_count, is_edited, is_pinned, created_at, updated_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	var authorName, authorEmail, parentID sql.NullString
	var likeCount, dislikeCount, reportCount sql.NullInt64
	var isEdited, isPinned sql.NullBool
	var status sql.NullString

	err := row.Scan(
		&comment.ID, &comment.ArticleID, &comment.AuthorID, &authorName, &authorEmail,
		&parentID, &comment.Content, &status, &likeCount, &dislikeCount, &reportCount,
		&isEdited, &isPinned, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.AuthorName = stringPtr(authorName)
	comment.AuthorEmail = stringPtr(authorEmail)
	comment.ParentID = stringPtr(parentID)
	comment.Status = models.CommentStatus(status.String)
	comment.LikeCount = int(likeCount.Int64)
	comment.DislikeCount = int(dislikeCount.Int64)
	comment.ReportCount = int(reportCount.Int64)
	comment.IsEdited = isEdited.Bool
	comment.IsPinned = isPinned.Bool

	return &comment, nil
}

// ListByArticle retrieves all comments of an article, most recent first
func (r *commentRepo) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC NULLS LAST, id`

	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	// ids are UUIDs; anything else cannot match a row
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", id, err)
	}

	return comment, nil
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, article_id, author_id, author_name, author_email, parent_id,
			content, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + commentColumns

	stored, err := scanComment(r.db.QueryRowContext(ctx, query,
		comment.ID, comment.ArticleID, comment.AuthorID,
		nullString(comment.AuthorName), nullString(comment.AuthorEmail), nullString(comment.ParentID),
		comment.Content, comment.Status, comment.CreatedAt, comment.UpdatedAt,
	))
	if err != nil {
		return fmt.Errorf("insert comment: %w", translate(err))
	}

	*comment = *stored
	return nil
}

// Update writes the editable fields of a comment
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments SET content = $1, updated_at = $2, is_edited = $3
		WHERE id = $4
		RETURNING ` + commentColumns

	stored, err := scanComment(r.db.QueryRowContext(ctx, query,
		comment.Content, comment.UpdatedAt, comment.IsEdited, comment.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update comment %s: %w", comment.ID, err)
	}

	*comment = *stored
	return nil
}

// Delete permanently removes a comment; replies keep existing with parent_id set to NULL
func (r *commentRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete comment %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
