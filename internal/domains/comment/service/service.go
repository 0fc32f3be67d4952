package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"booknest/internal/domains/comment/model"
	"booknest/internal/domains/comment/repository"
	"booknest/internal/domains/identity"
	"booknest/internal/shared"
	"booknest/pkg/logger"
)

type commentService struct {
	commentRepo repository.Repository
	books       BookChecker
}

func NewCommentService(commentRepo repository.Repository, books BookChecker) ServiceInterface {
	return &commentService{
		commentRepo: commentRepo,
		books:       books,
	}
}

// =====================================================
// CREATE COMMENT
// =====================================================

func (s *commentService) CreateComment(
	ctx context.Context,
	bookID uuid.UUID,
	author *shared.SessionUser,
	req model.CreateCommentRequest,
) (*model.CommentResponse, error) {
	if author == nil || author.AccountID == "" {
		return nil, shared.NewUnauthorizedError("Sign in to comment")
	}

	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	// Step 2: Book must exist
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return nil, shared.NewUnknownTargetError("book")
	}

	// Step 3: Parent must be a comment on the same book
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, model.ErrCommentNotFound) {
				return nil, shared.NewUnknownTargetError("parent comment")
			}
			return nil, err
		}
		if parent.BookID != bookID {
			return nil, shared.NewUnknownTargetError("parent comment")
		}
	}

	// Step 4: Save
	comment := &model.Comment{
		ID:         uuid.New(),
		BookID:     bookID,
		ParentID:   req.ParentID,
		AuthorID:   author.AccountID,
		AuthorName: author.DisplayName(),
		Content:    strings.TrimSpace(req.Content),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Step 5: Fresh count
	count, err := s.commentRepo.CountByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &model.CommentResponse{Comment: comment, Count: count}, nil
}

// =====================================================
// DELETE COMMENT
// =====================================================

func (s *commentService) DeleteComment(
	ctx context.Context,
	commentID uuid.UUID,
	author *shared.SessionUser,
) (*model.CommentResponse, error) {
	if author == nil || author.AccountID == "" {
		return nil, shared.NewUnauthorizedError("Sign in to delete comments")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return nil, shared.NewNotFoundError("comment")
		}
		return nil, err
	}

	if comment.AuthorID != author.AccountID {
		return nil, shared.NewForbiddenError("Only the author can delete this comment")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return nil, shared.NewNotFoundError("comment")
		}
		return nil, err
	}

	count, err := s.commentRepo.CountByBook(ctx, comment.BookID)
	if err != nil {
		return nil, err
	}

	logger.Info("comment deleted", map[string]interface{}{
		"comment_id": commentID.String(),
		"book_id":    comment.BookID.String(),
	})

	return &model.CommentResponse{Count: count}, nil
}

// =====================================================
// COMMENT TREE
// =====================================================

func (s *commentService) GetTree(
	ctx context.Context,
	bookID uuid.UUID,
	resolve IdentityFunc,
) (*model.CommentTreeResponse, error) {
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return nil, shared.NewNotFoundError("book")
	}

	rows, err := s.commentRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	count, err := s.commentRepo.CountByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	forest := model.BuildTree(rows)
	if len(rows) == 0 {
		return &model.CommentTreeResponse{Comments: forest, Total: count.Total}, nil
	}

	likes, err := s.commentRepo.LikeCountsByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	var liked map[uuid.UUID]bool
	if resolve != nil {
		identities := make(map[uuid.UUID]string, len(rows))
		for _, row := range rows {
			identities[row.ID] = resolve(row.ID.String()).Value
		}
		liked, err = s.commentRepo.LikedComments(ctx, bookID, identities)
		if err != nil {
			return nil, err
		}
	}

	model.Walk(forest, func(node *model.CommentNode) {
		node.Likes = likes[node.ID]
		node.Liked = liked[node.ID]
	})

	return &model.CommentTreeResponse{Comments: forest, Total: count.Total}, nil
}

// =====================================================
// LIKES
// =====================================================

func (s *commentService) ToggleLike(
	ctx context.Context,
	commentID uuid.UUID,
	liker identity.Token,
) (*model.LikeResponse, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return nil, shared.NewUnknownTargetError("comment")
		}
		return nil, err
	}

	liked, err := s.commentRepo.ToggleLike(ctx, commentID, liker.Value)
	if err != nil {
		return nil, err
	}

	likes, err := s.commentRepo.CountLikes(ctx, commentID)
	if err != nil {
		return nil, err
	}

	return &model.LikeResponse{
		CommentID: commentID,
		Liked:     liked,
		Likes:     likes,
	}, nil
}
