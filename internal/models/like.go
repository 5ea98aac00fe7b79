package models

import (
	"fmt"
	"time"
)

// TargetKind names the entity a like points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// LikeTarget is exactly one post or one comment. Build it with PostTarget or CommentTarget.
type LikeTarget struct {
	kind TargetKind
	id   uint
}

func PostTarget(id uint) LikeTarget    { return LikeTarget{kind: TargetPost, id: id} }
func CommentTarget(id uint) LikeTarget { return LikeTarget{kind: TargetComment, id: id} }

func (t LikeTarget) Kind() TargetKind { return t.kind }
func (t LikeTarget) ID() uint         { return t.id }

func (t LikeTarget) String() string {
	return fmt.Sprintf("%s:%d", t.kind, t.id)
}

// Like is one user's like of one target. Exactly one of PostID and CommentID is set;
// the unique indexes make (user, target) appear at most once.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_likes_user_post;uniqueIndex:idx_likes_user_comment"`
	User      User      `json:"user" gorm:"foreignKey:UserID"`
	PostID    *uint     `json:"postId" gorm:"index;uniqueIndex:idx_likes_user_post;check:chk_likes_single_target,(post_id IS NULL) <> (comment_id IS NULL)"`
	CommentID *uint     `json:"commentId" gorm:"index;uniqueIndex:idx_likes_user_comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewLike builds a like row for the given target.
func NewLike(userID uint, target LikeTarget) Like {
	id := target.ID()
	like := Like{UserID: userID}
	switch target.Kind() {
	case TargetPost:
		like.PostID = &id
	case TargetComment:
		like.CommentID = &id
	}
	return like
}

// Target reports what the like points at.
func (l Like) Target() LikeTarget {
	if l.CommentID != nil {
		return CommentTarget(*l.CommentID)
	}
	if l.PostID != nil {
		return PostTarget(*l.PostID)
	}
	return LikeTarget{}
}

// ToggleLikeResponse is returned by the like endpoints.
type ToggleLikeResponse struct {
	Message string `json:"message"`
	IsLiked bool   `json:"isLiked"`
}
