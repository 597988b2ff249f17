package service

import (
	"context"
	"errors"
	"strings"

	"github.com/article-engagement-api/internal/identity"
	"github.com/article-engagement-api/internal/metrics"
	"github.com/article-engagement-api/internal/models"
	"github.com/article-engagement-api/internal/repository"
	"github.com/article-engagement-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repo      repository.CommentRepository
	validator *validation.Validator
	opts      Options
	log       zerolog.Logger
}

func newCommentService(repo repository.CommentRepository, validator *validation.Validator, opts Options, log zerolog.Logger) *commentService {
	return &commentService{
		repo:      repo,
		validator: validator,
		opts:      opts,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

// ListByArticle returns the article's comments, most recent first
func (s *commentService) ListByArticle(ctx context.Context, articleID string, viewer identity.Identity) ([]*models.Comment, error) {
	articleID = strings.TrimSpace(articleID)
	if errs := s.validator.ValidateArticleID(articleID); len(errs) > 0 {
		return nil, s.fail("list", invalidInput(errs[0].Message))
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	timer := metrics.NewTimer()
	comments, err := s.repo.ListByArticle(ctx, articleID)
	timer.ObserveStore("comment_list")
	if err != nil {
		return nil, s.fail("list", internal("failed to load comments", err))
	}

	if comments == nil {
		comments = []*models.Comment{}
	}
	for _, c := range comments {
		c.Normalize()
		c.IsAuthor = viewer.Is(c.AuthorID)
	}

	metrics.ObserveCommentOperation("list", metrics.ResultSuccess)
	return comments, nil
}

// Create stores a new comment authored by the caller
func (s *commentService) Create(ctx context.Context, input CreateCommentInput, caller identity.Identity) (*models.Comment, error) {
	if !caller.Authenticated() {
		return nil, s.fail("create", unauthenticated())
	}

	articleID := strings.TrimSpace(input.ArticleID)
	if errs := s.validator.ValidateNewComment(articleID, input.Content, input.ParentID); len(errs) > 0 {
		return nil, s.fail("create", invalidInput(errs[0].Message))
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	if input.ParentID != nil {
		timer := metrics.NewTimer()
		parent, err := s.repo.GetByID(ctx, *input.ParentID)
		timer.ObserveStore("comment_get")
		if err != nil {
			return nil, s.fail("create", internal("failed to save comment", err))
		}
		if parent == nil || parent.ArticleID != articleID {
			return nil, s.fail("create", invalidInput("parent comment not found"))
		}
	}

	comment := models.NewComment(s.opts.NewID(), articleID, caller.UserID, strings.TrimSpace(input.Content), s.opts.Now())
	comment.ParentID = input.ParentID
	comment.AuthorName = optional(caller.Name)
	comment.AuthorEmail = optional(caller.Email)

	timer := metrics.NewTimer()
	err := s.repo.Create(ctx, comment)
	timer.ObserveStore("comment_create")
	if errors.Is(err, repository.ErrInvalidReference) {
		// parent deleted between the check and the insert
		return nil, s.fail("create", invalidInput("parent comment not found"))
	}
	if err != nil {
		return nil, s.fail("create", internal("failed to save comment", err))
	}

	comment.Normalize()
	comment.IsAuthor = true

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("article_id", comment.ArticleID).
		Str("author_id", comment.AuthorID).
		Msg("Comment created")
	metrics.ObserveCommentOperation("create", metrics.ResultSuccess)

	return comment, nil
}

// Update replaces the content of a comment owned by the caller
func (s *commentService) Update(ctx context.Context, commentID string, caller identity.Identity, content string) (*models.Comment, error) {
	if !caller.Authenticated() {
		return nil, s.fail("update", unauthenticated())
	}
	if errs := s.validator.ValidateContent(content); len(errs) > 0 {
		return nil, s.fail("update", invalidInput(errs[0].Message))
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	comment, err := s.owned(ctx, "update", commentID, caller, "you can only edit your own comments")
	if err != nil {
		return nil, err
	}

	// updated_at never moves backwards, even if the clock does. The prior
	// value is kept at full precision: truncating it could step back below it.
	now := models.NewTimestamp(s.opts.Now())
	if comment.UpdatedAt.Valid && now.Time.Before(comment.UpdatedAt.Time) {
		now = models.Timestamp{Time: comment.UpdatedAt.Time.UTC(), Valid: true}
	}

	comment.Content = strings.TrimSpace(content)
	comment.UpdatedAt = now
	comment.IsEdited = true

	timer := metrics.NewTimer()
	err = s.repo.Update(ctx, comment)
	timer.ObserveStore("comment_update")
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.fail("update", notFound("comment not found"))
	}
	if err != nil {
		return nil, s.fail("update", internal("failed to update comment", err))
	}

	comment.Normalize()
	comment.IsAuthor = true

	s.log.Info().Str("comment_id", comment.ID).Str("author_id", comment.AuthorID).Msg("Comment updated")
	metrics.ObserveCommentOperation("update", metrics.ResultSuccess)

	return comment, nil
}

// Delete permanently removes a comment owned by the caller
func (s *commentService) Delete(ctx context.Context, commentID string, caller identity.Identity) error {
	if !caller.Authenticated() {
		return s.fail("delete", unauthenticated())
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	comment, err := s.owned(ctx, "delete", commentID, caller, "you can only delete your own comments")
	if err != nil {
		return err
	}

	timer := metrics.NewTimer()
	err = s.repo.Delete(ctx, comment.ID)
	timer.ObserveStore("comment_delete")
	if errors.Is(err, repository.ErrNotFound) {
		return s.fail("delete", notFound("comment not found"))
	}
	if err != nil {
		return s.fail("delete", internal("failed to delete comment", err))
	}

	s.log.Info().Str("comment_id", comment.ID).Str("author_id", comment.AuthorID).Msg("Comment deleted")
	metrics.ObserveCommentOperation("delete", metrics.ResultSuccess)

	return nil
}

// owned loads a comment and checks that caller is its author. The check and
// the following write are separate statements; author_id is immutable so
// nothing can change ownership in between.
func (s *commentService) owned(ctx context.Context, operation, commentID string, caller identity.Identity, denied string) (*models.Comment, error) {
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return nil, s.fail(operation, notFound("comment not found"))
	}

	timer := metrics.NewTimer()
	comment, err := s.repo.GetByID(ctx, commentID)
	timer.ObserveStore("comment_get")
	if err != nil {
		return nil, s.fail(operation, internal("failed to load comment", err))
	}
	if comment == nil {
		return nil, s.fail(operation, notFound("comment not found"))
	}
	if !caller.Is(comment.AuthorID) {
		s.log.Warn().
			Str("comment_id", comment.ID).
			Str("caller_id", caller.UserID).
			Str("operation", operation).
			Msg("Rejected mutation by non-author")
		return nil, s.fail(operation, forbidden(denied))
	}
	return comment, nil
}

// fail records the failed operation and returns err unchanged
func (s *commentService) fail(operation string, err *Error) *Error {
	metrics.ObserveCommentOperation(operation, string(err.Kind))
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
