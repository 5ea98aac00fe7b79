package models

import "time"

// Privacy controls who can see a post.
type Privacy string

const (
	PrivacyPublic  Privacy = "PUBLIC"
	PrivacyPrivate Privacy = "PRIVATE"
)

// Post is a piece of user content. A post is visible to a viewer when it is
// PUBLIC or authored by that viewer.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"authorId" gorm:"not null;index"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID"`
	Content   *string   `json:"content" gorm:"type:text"`
	ImageURL  *string   `json:"imageUrl" gorm:"size:512"`
	Privacy   Privacy   `json:"privacy" gorm:"size:10;not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`

	// Read-only aggregates filled by the feed query.
	LikesCount    int64 `json:"-" gorm:"->;-:migration"`
	CommentsCount int64 `json:"-" gorm:"->;-:migration"`
}

func (p Post) VisibleTo(viewerID uint) bool {
	return p.Privacy == PrivacyPublic || p.AuthorID == viewerID
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string  `json:"content" validate:"max=5000"`
	ImageURL string  `json:"imageUrl" validate:"omitempty,max=512"`
	Privacy  Privacy `json:"privacy" validate:"omitempty,oneof=PUBLIC PRIVATE"`
}
