package api

import (
	"net/http"
	"strings"

	"github.com/article-engagement-api/internal/middleware"
	"github.com/article-engagement-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

type createCommentRequest struct {
	ArticleID string  `json:"articleId"`
	PostID    string  `json:"postId"`
	Content   string  `json:"content"`
	ParentID  *string `json:"parentId"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// articleQuery reads articleId, falling back to the legacy postId
func articleQuery(c *gin.Context) string {
	if id := strings.TrimSpace(c.Query("articleId")); id != "" {
		return id
	}
	return strings.TrimSpace(c.Query("postId"))
}

// List handles GET /v1/comments?articleId=
func (h *CommentHandler) List(c *gin.Context) {
	articleID := articleQuery(c)
	if articleID == "" {
		badRequest(c, "articleId is required")
		return
	}

	comments, err := h.services.Comment.ListByArticle(c.Request.Context(), articleID, middleware.GetIdentity(c))
	if err != nil {
		respondError(c, h.log, "list_comments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Create handles POST /v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	caller := middleware.GetIdentity(c)
	if !caller.Authenticated() {
		unauthorized(c)
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	articleID := req.ArticleID
	if strings.TrimSpace(articleID) == "" {
		articleID = req.PostID
	}
	if strings.TrimSpace(articleID) == "" {
		badRequest(c, "articleId is required")
		return
	}

	// an empty parentId means a top-level comment
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) == "" {
		req.ParentID = nil
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), service.CreateCommentInput{
		ArticleID: articleID,
		ParentID:  req.ParentID,
		Content:   req.Content,
	}, caller)
	if err != nil {
		respondError(c, h.log, "create_comment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// Update handles PUT and PATCH /v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	caller := middleware.GetIdentity(c)
	if !caller.Authenticated() {
		unauthorized(c)
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), c.Param("id"), caller, req.Content)
	if err != nil {
		respondError(c, h.log, "update_comment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// Delete handles DELETE /v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	caller := middleware.GetIdentity(c)
	if !caller.Authenticated() {
		unauthorized(c)
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), c.Param("id"), caller); err != nil {
		respondError(c, h.log, "delete_comment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
