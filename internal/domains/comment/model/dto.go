package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
)

const MaxCommentLength = 2000

// CreateCommentRequest - POST /books/:id/comments
type CreateCommentRequest struct {
	Content  string     `json:"content" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (r CreateCommentRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.RuneLength(1, MaxCommentLength).Error("content must not exceed 2000 characters"),
		),
	)
}

// CommentResponse is returned after creating a comment
type CommentResponse struct {
	Comment *Comment               `json:"comment"`
	Count   aggregate.CommentCount `json:"count"`
}

// CommentTreeResponse - GET /books/:id/comments
type CommentTreeResponse struct {
	Comments []*CommentNode `json:"comments"`
	Total    int            `json:"total"`
}

// LikeResponse carries the caller's like state after a toggle
type LikeResponse struct {
	CommentID uuid.UUID `json:"comment_id"`
	Liked     bool      `json:"liked"`
	Likes     int       `json:"likes"`
}
