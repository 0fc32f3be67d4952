package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
)

// CastVoteRequest - POST /books/:id/vote
type CastVoteRequest struct {
	Kind Kind `json:"kind" binding:"required"`
}

func (r CastVoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kind,
			validation.Required.Error("kind is required"),
			validation.In(KindUpvote, KindDownvote).Error("kind must be upvote or downvote"),
		),
	)
}

// VoteResponse carries the caller's vote after the write and the fresh tally
type VoteResponse struct {
	BookID uuid.UUID           `json:"book_id"`
	Vote   *Kind               `json:"vote"`
	Tally  aggregate.VoteTally `json:"tally"`
}
