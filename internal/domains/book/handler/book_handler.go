package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booknest/internal/domains/book/model"
	"booknest/internal/domains/book/service"
	"booknest/internal/domains/identity"
	"booknest/internal/shared"
	"booknest/internal/shared/middleware"
	"booknest/internal/shared/response"
	"booknest/internal/shared/utils"
)

// Handler - HTTP handler for books
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{
		service: service,
	}
}

func parseBookID(c *gin.Context) (uuid.UUID, bool) {
	id := utils.ParseStringToUUID(c.Param("id"))
	if id == uuid.Nil {
		response.FromError(c, shared.NewValidationError("Invalid book ID"))
		return uuid.Nil, false
	}
	return id, true
}

// ListBooks - GET /v1/books
// Query params: page, limit, tag, q
func (h *Handler) ListBooks(c *gin.Context) {
	req := model.ListBooksRequest{
		Page:   utils.ParsePositiveInt(c.Query("page"), 1),
		Limit:  utils.ParsePositiveInt(c.Query("limit"), 20),
		Tag:    c.Query("tag"),
		Search: c.Query("q"),
	}

	data, meta, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, data, meta)
}

// GetBookDetail - GET /v1/books/:id
func (h *Handler) GetBookDetail(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	viewer := identity.Resolve(c.Request, middleware.GetSession(c), id.String())

	book, err := h.service.GetBookDetail(c.Request.Context(), id, viewer)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// CreateBook - POST /v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, shared.NewValidationError(err.Error()))
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), middleware.GetSession(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// DeleteBook - DELETE /v1/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id, middleware.GetSession(c)); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Book deleted successfully",
	})
}

// PreviewLink - POST /v1/books/preview
func (h *Handler) PreviewLink(c *gin.Context) {
	var req model.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, shared.NewValidationError(err.Error()))
		return
	}

	meta, err := h.service.PreviewLink(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, meta)
}
