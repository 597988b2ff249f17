package service

import (
	"context"
	"time"

	"github.com/article-engagement-api/internal/config"
	"github.com/article-engagement-api/internal/identity"
	"github.com/article-engagement-api/internal/models"
	"github.com/article-engagement-api/internal/repository"
	"github.com/article-engagement-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreateCommentInput carries the fields of a new comment
type CreateCommentInput struct {
	ArticleID string
	ParentID  *string
	Content   string
}

// CommentService defines the comment operations
type CommentService interface {
	ListByArticle(ctx context.Context, articleID string, viewer identity.Identity) ([]*models.Comment, error)
	Create(ctx context.Context, input CreateCommentInput, caller identity.Identity) (*models.Comment, error)
	Update(ctx context.Context, commentID string, caller identity.Identity, content string) (*models.Comment, error)
	Delete(ctx context.Context, commentID string, caller identity.Identity) error
}

// LikeService defines the article like operations
type LikeService interface {
	State(ctx context.Context, articleID string, caller identity.Identity) (*models.LikeState, error)
	Toggle(ctx context.Context, articleID string, caller identity.Identity) (*models.LikeState, error)
}

// Services holds all service interfaces
type Services struct {
	Comment CommentService
	Like    LikeService
}

// Options tune service behaviour; zero values take defaults
type Options struct {
	// Timeout bounds the store work of one operation
	Timeout time.Duration
	// Now is the clock; defaults to time.Now
	Now func() time.Time
	// NewID generates row ids; defaults to uuid.NewString
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return NewServicesWithOptions(repos, Options{Timeout: cfg.Server.RequestTimeout}, log)
}

// NewServicesWithOptions creates all services with explicit options
func NewServicesWithOptions(repos *repository.Repositories, opts Options, log zerolog.Logger) *Services {
	opts = opts.withDefaults()
	validator := validation.NewValidator()

	return &Services{
		Comment: newCommentService(repos.Comment, validator, opts, log),
		Like:    newLikeService(repos.Like, validator, opts, log),
	}
}
