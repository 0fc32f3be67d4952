package service

import (
	"context"

	"github.com/google/uuid"

	"booknest/internal/domains/comment/model"
	"booknest/internal/domains/identity"
	"booknest/internal/shared"
)

// IdentityFunc resolves the caller's identity token for a target comment
type IdentityFunc func(targetID string) identity.Token

type ServiceInterface interface {
	// CreateComment adds a top-level comment or a reply; requires a session
	CreateComment(ctx context.Context, bookID uuid.UUID, author *shared.SessionUser, req model.CreateCommentRequest) (*model.CommentResponse, error)

	// DeleteComment removes the author's own comment and returns the book's new comment count
	DeleteComment(ctx context.Context, commentID uuid.UUID, author *shared.SessionUser) (*model.CommentResponse, error)

	// GetTree returns the book's comment forest with like state
	GetTree(ctx context.Context, bookID uuid.UUID, resolve IdentityFunc) (*model.CommentTreeResponse, error)

	// ToggleLike likes or unlikes a comment
	ToggleLike(ctx context.Context, commentID uuid.UUID, liker identity.Token) (*model.LikeResponse, error)
}

// BookChecker reports whether a book exists
type BookChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
