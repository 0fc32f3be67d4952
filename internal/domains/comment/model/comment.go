package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrCommentNotFound = errors.New("comment not found")

// Comment is one row of a book's discussion. ParentID is a weak reference:
// the parent may have been deleted, in which case the comment renders as a root.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	BookID     uuid.UUID  `json:"book_id"`
	ParentID   *uuid.UUID `json:"parent_id"`
	AuthorID   string     `json:"author_id"`
	AuthorName string     `json:"author_name"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CommentNode is a comment placed in the reply forest
type CommentNode struct {
	Comment
	Likes   int            `json:"likes"`
	Liked   bool           `json:"liked"`
	Replies []*CommentNode `json:"replies"`
}
