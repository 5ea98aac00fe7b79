package models

import "time"

// Comment represents a comment on a post. ParentID is set for replies.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"postId" gorm:"not null;index"`
	AuthorID  uint      `json:"authorId" gorm:"not null;index"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID"`
	ParentID  *uint     `json:"parentId" gorm:"index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	ParentID *uint  `json:"parentId" validate:"omitempty,min=1"`
}
