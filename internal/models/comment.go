package models

import (
	"time"
)

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentStatusApproved CommentStatus = "approved"
)

// MaxCommentLength is the maximum allowed characters in a comment body
const MaxCommentLength = 1000

// Comment represents a comment on an article.
// The counters and flags below content are maintained outside this service
// and default to their zero values when absent.
type Comment struct {
	ID          string        `json:"id" db:"id"`
	ArticleID   string        `json:"articleId" db:"article_id"`
	AuthorID    string        `json:"authorId" db:"author_id"`
	AuthorName  *string       `json:"authorName" db:"author_name"`
	AuthorEmail *string       `json:"authorEmail" db:"author_email"`
	ParentID    *string       `json:"parentId" db:"parent_id"`
	Content     string        `json:"content" db:"content"`
	CreatedAt   Timestamp     `json:"createdAt" db:"created_at"`
	UpdatedAt   Timestamp     `json:"updatedAt" db:"updated_at"`
	Status      CommentStatus `json:"status" db:"status"`

	LikeCount    int  `json:"likeCount" db:"like_count"`
	DislikeCount int  `json:"dislikeCount" db:"dislike_count"`
	ReportCount  int  `json:"reportCount" db:"report_count"`
	IsEdited     bool `json:"isEdited" db:"is_edited"`
	IsPinned     bool `json:"isPinned" db:"is_pinned"`

	// IsAuthor is computed per request for the viewing identity
	IsAuthor bool `json:"isAuthor" db:"-"`
}

// Normalize converts both timestamps to their canonical UTC millisecond form
// and fills an empty status with the default
func (c *Comment) Normalize() {
	c.CreatedAt = c.CreatedAt.Canonical()
	c.UpdatedAt = c.UpdatedAt.Canonical()
	if c.Status == "" {
		c.Status = CommentStatusApproved
	}
}

// NewComment builds an approved top-level comment stamped with now
func NewComment(id, articleID, authorID, content string, now time.Time) *Comment {
	ts := NewTimestamp(now)
	return &Comment{
		ID:        id,
		ArticleID: articleID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: ts,
		UpdatedAt: ts,
		Status:    CommentStatusApproved,
	}
}
