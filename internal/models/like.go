package models

import (
	"time"
)

// Like is a single user's like on an article.
// At most one row exists per (ArticleID, UserID).
type Like struct {
	ID        string    `json:"id" db:"id"`
	ArticleID string    `json:"articleId" db:"article_id"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LikeState is the result of reading or toggling a like
type LikeState struct {
	Liked      bool `json:"liked"`
	TotalLikes int  `json:"totalLikes"`
}
