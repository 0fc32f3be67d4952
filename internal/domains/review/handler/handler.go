package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booknest/internal/domains/review/model"
	"booknest/internal/domains/review/service"
	"booknest/internal/shared"
	"booknest/internal/shared/middleware"
	"booknest/internal/shared/response"
	"booknest/internal/shared/utils"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// getBookID parses the :id path parameter
func getBookID(c *gin.Context) (uuid.UUID, bool) {
	bookID := utils.ParseStringToUUID(c.Param("id"))
	if bookID == uuid.Nil {
		response.FromError(c, shared.NewValidationError("Invalid book ID"))
		return uuid.Nil, false
	}
	return bookID, true
}

// =====================================================
// ENDPOINTS
// =====================================================

// UpsertReview creates or updates the caller's review
// POST /api/v1/books/:id/reviews
func (h *ReviewHandler) UpsertReview(c *gin.Context) {
	// Step 1: Parse book ID
	bookID, ok := getBookID(c)
	if !ok {
		return
	}

	// Step 2: Bind request body
	var req model.UpsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, shared.NewValidationError(err.Error()))
		return
	}

	// Step 3: Call service
	result, err := h.reviewService.UpsertReview(c.Request.Context(), bookID, middleware.GetSession(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// Step 4: Return success
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, result)
}

// DeleteReview deletes the caller's review
// DELETE /api/v1/books/:id/reviews
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	bookID, ok := getBookID(c)
	if !ok {
		return
	}

	result, err := h.reviewService.DeleteReview(c.Request.Context(), bookID, middleware.GetSession(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Review deleted successfully",
		"summary": result.Summary,
	})
}

// ListReviews lists reviews of a book
// GET /api/v1/books/:id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	bookID, ok := getBookID(c)
	if !ok {
		return
	}

	req := model.ListReviewsRequest{
		Page:  utils.ParsePositiveInt(c.Query("page"), 1),
		Limit: utils.ParsePositiveInt(c.Query("limit"), 20),
	}

	result, err := h.reviewService.ListReviews(c.Request.Context(), bookID, middleware.GetSession(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	data := gin.H{
		"reviews": result.Reviews,
		"summary": result.Summary,
	}
	if result.MyReview != nil {
		data["my_review"] = result.MyReview
	}

	response.SuccessWithMeta(c, http.StatusOK, data, result.Meta)
}

// GetRatingSummary returns the rating summary of a book
// GET /api/v1/books/:id/rating
func (h *ReviewHandler) GetRatingSummary(c *gin.Context) {
	bookID, ok := getBookID(c)
	if !ok {
		return
	}

	summary, err := h.reviewService.GetRatingSummary(c.Request.Context(), bookID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
