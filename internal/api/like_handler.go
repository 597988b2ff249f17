package api

import (
	"net/http"
	"strings"

	"github.com/article-engagement-api/internal/middleware"
	"github.com/article-engagement-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LikeHandler handles like endpoints
type LikeHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(services *service.Services, log zerolog.Logger) *LikeHandler {
	return &LikeHandler{
		services: services,
		log:      log.With().Str("handler", "like").Logger(),
	}
}

type toggleLikeRequest struct {
	ArticleID string `json:"articleId"`
	PostID    string `json:"postId"`
}

// State handles GET /v1/likes?articleId=
func (h *LikeHandler) State(c *gin.Context) {
	articleID := articleQuery(c)
	if articleID == "" {
		badRequest(c, "articleId is required")
		return
	}

	state, err := h.services.Like.State(c.Request.Context(), articleID, middleware.GetIdentity(c))
	if err != nil {
		respondError(c, h.log, "like_state", err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Toggle handles POST /v1/likes
func (h *LikeHandler) Toggle(c *gin.Context) {
	caller := middleware.GetIdentity(c)
	if !caller.Authenticated() {
		unauthorized(c)
		return
	}

	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	articleID := strings.TrimSpace(req.ArticleID)
	if articleID == "" {
		articleID = strings.TrimSpace(req.PostID)
	}
	if articleID == "" {
		badRequest(c, "articleId is required")
		return
	}

	state, err := h.services.Like.Toggle(c.Request.Context(), articleID, caller)
	if err != nil {
		respondError(c, h.log, "toggle_like", err)
		return
	}

	c.JSON(http.StatusOK, state)
}
