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

// likeService is the concrete implementation of LikeService
type likeService struct {
	repo      repository.LikeRepository
	validator *validation.Validator
	opts      Options
	log       zerolog.Logger
}

func newLikeService(repo repository.LikeRepository, validator *validation.Validator, opts Options, log zerolog.Logger) *likeService {
	return &likeService{
		repo:      repo,
		validator: validator,
		opts:      opts,
		log:       log.With().Str("service", "like").Logger(),
	}
}

// State returns the article's like count and whether the caller likes it.
// Anonymous callers always get liked=false.
func (s *likeService) State(ctx context.Context, articleID string, caller identity.Identity) (*models.LikeState, error) {
	articleID = strings.TrimSpace(articleID)
	if errs := s.validator.ValidateArticleID(articleID); len(errs) > 0 {
		return nil, invalidInput(errs[0].Message)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	total, err := s.count(ctx, articleID)
	if err != nil {
		return nil, internal("failed to load likes", err)
	}

	state := &models.LikeState{TotalLikes: total}
	if !caller.Authenticated() {
		return state, nil
	}

	timer := metrics.NewTimer()
	liked, err := s.repo.Exists(ctx, articleID, caller.UserID)
	timer.ObserveStore("like_exists")
	if err != nil {
		// the count is still correct; report not-liked rather than failing the read
		s.log.Warn().Err(err).
			Str("article_id", articleID).
			Str("user_id", caller.UserID).
			Msg("Failed to check own like")
		return state, nil
	}

	state.Liked = liked
	return state, nil
}

// Toggle likes the article if the caller has not, and unlikes it otherwise.
//
// The lookup and the write are separate statements. Two concurrent toggles
// by one user can both see "not liked"; the store's unique (article_id,
// user_id) constraint rejects the second insert and that conflict resolves
// to liked=true. A completed write is not undone if the final count fails.
func (s *likeService) Toggle(ctx context.Context, articleID string, caller identity.Identity) (*models.LikeState, error) {
	if !caller.Authenticated() {
		return nil, unauthenticated()
	}
	articleID = strings.TrimSpace(articleID)
	if errs := s.validator.ValidateArticleID(articleID); len(errs) > 0 {
		return nil, invalidInput(errs[0].Message)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	log := s.log.With().Str("article_id", articleID).Str("user_id", caller.UserID).Logger()

	timer := metrics.NewTimer()
	exists, err := s.repo.Exists(ctx, articleID, caller.UserID)
	timer.ObserveStore("like_exists")
	if err != nil {
		return nil, internal("failed to check like state", err)
	}

	var liked bool
	switch result := s.write(ctx, exists, articleID, caller.UserID); result.outcome {
	case writeOK:
		liked = !exists
	case writeConflict:
		log.Debug().Msg("Concurrent like detected, keeping existing row")
		metrics.LikeConflictsTotal.Inc()
		liked = true
	default:
		return nil, internal("failed to update like", result.err)
	}

	total, err := s.count(ctx, articleID)
	if err != nil {
		log.Error().Err(err).Bool("liked", liked).Msg("Like written but count failed")
		return nil, internal("failed to load likes", err)
	}

	log.Info().Bool("liked", liked).Int("total_likes", total).Msg("Like toggled")
	metrics.ObserveLikeToggle(liked)

	return &models.LikeState{Liked: liked, TotalLikes: total}, nil
}

type writeOutcome int

const (
	writeOK writeOutcome = iota
	writeConflict
	writeFailed
)

// writeResult tags the toggle write: ok, absorbed conflict, or failure
type writeResult struct {
	outcome writeOutcome
	err     error
}

func (s *likeService) write(ctx context.Context, exists bool, articleID, userID string) writeResult {
	timer := metrics.NewTimer()

	if exists {
		// zero rows deleted means a concurrent unlike won; the end state is the same
		_, err := s.repo.Delete(ctx, articleID, userID)
		timer.ObserveStore("like_delete")
		if err != nil {
			return writeResult{outcome: writeFailed, err: err}
		}
		return writeResult{outcome: writeOK}
	}

	err := s.repo.Insert(ctx, &models.Like{
		ID:        s.opts.NewID(),
		ArticleID: articleID,
		UserID:    userID,
		CreatedAt: s.opts.Now().UTC(),
	})
	timer.ObserveStore("like_insert")
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return writeResult{outcome: writeConflict, err: err}
	case err != nil:
		return writeResult{outcome: writeFailed, err: err}
	}
	return writeResult{outcome: writeOK}
}

func (s *likeService) count(ctx context.Context, articleID string) (int, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveStore("like_count")
	return s.repo.CountByArticle(ctx, articleID)
}
