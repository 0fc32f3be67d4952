package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booknest/internal/domains/comment/model"
	"booknest/internal/domains/comment/service"
	"booknest/internal/domains/identity"
	"booknest/internal/shared"
	"booknest/internal/shared/middleware"
	"booknest/internal/shared/response"
	"booknest/internal/shared/utils"
)

// =====================================================
// COMMENT HANDLER
// =====================================================

type CommentHandler struct {
	commentService service.ServiceInterface
}

func NewCommentHandler(commentService service.ServiceInterface) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// parseID reads a UUID path parameter
func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id := utils.ParseStringToUUID(c.Param("id"))
	if id == uuid.Nil {
		response.FromError(c, shared.NewValidationError("Invalid "+what+" ID"))
		return uuid.Nil, false
	}
	return id, true
}

// ListComments returns the comment forest of a book
// GET /api/v1/books/:id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	bookID, ok := parseID(c, "book")
	if !ok {
		return
	}

	session := middleware.GetSession(c)
	resolve := func(targetID string) identity.Token {
		return identity.Resolve(c.Request, session, targetID)
	}

	tree, err := h.commentService.GetTree(c.Request.Context(), bookID, resolve)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, tree)
}

// CreateComment posts a comment or a reply
// POST /api/v1/books/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	// Step 1: Parse book ID
	bookID, ok := parseID(c, "book")
	if !ok {
		return
	}

	// Step 2: Bind request body
	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, shared.NewValidationError(err.Error()))
		return
	}

	// Step 3: Call service
	result, err := h.commentService.CreateComment(c.Request.Context(), bookID, middleware.GetSession(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// DeleteComment deletes the caller's own comment
// DELETE /api/v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseID(c, "comment")
	if !ok {
		return
	}

	result, err := h.commentService.DeleteComment(c.Request.Context(), commentID, middleware.GetSession(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
		"count":   result.Count,
	})
}

// ToggleLike likes or unlikes a comment
// POST /api/v1/comments/:id/like
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	commentID, ok := parseID(c, "comment")
	if !ok {
		return
	}

	liker := identity.Resolve(c.Request, middleware.GetSession(c), commentID.String())

	result, err := h.commentService.ToggleLike(c.Request.Context(), commentID, liker)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
