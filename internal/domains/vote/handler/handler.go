package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booknest/internal/domains/identity"
	"booknest/internal/domains/vote/model"
	"booknest/internal/domains/vote/service"
	"booknest/internal/shared"
	"booknest/internal/shared/middleware"
	"booknest/internal/shared/response"
	"booknest/internal/shared/utils"
)

// =====================================================
// VOTE HANDLER
// =====================================================

type VoteHandler struct {
	voteService service.ServiceInterface
}

func NewVoteHandler(voteService service.ServiceInterface) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

// CastVote upvotes, downvotes or toggles off the caller's vote
// POST /api/v1/books/:id/vote
func (h *VoteHandler) CastVote(c *gin.Context) {
	// Step 1: Parse book ID
	bookID := utils.ParseStringToUUID(c.Param("id"))
	if bookID == uuid.Nil {
		response.FromError(c, shared.NewValidationError("Invalid book ID"))
		return
	}

	// Step 2: Bind request body
	var req model.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, shared.NewValidationError(err.Error()))
		return
	}

	// Step 3: Resolve voter
	voter := identity.Resolve(c.Request, middleware.GetSession(c), bookID.String())

	// Step 4: Call service
	result, err := h.voteService.CastVote(c.Request.Context(), bookID, voter, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetTally returns the vote tally for a book
// GET /api/v1/books/:id/votes
func (h *VoteHandler) GetTally(c *gin.Context) {
	bookID := utils.ParseStringToUUID(c.Param("id"))
	if bookID == uuid.Nil {
		response.FromError(c, shared.NewValidationError("Invalid book ID"))
		return
	}

	tally, err := h.voteService.GetTally(c.Request.Context(), bookID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, tally)
}
