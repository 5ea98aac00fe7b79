package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account, signed in with a password or a linked Firebase identity.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FirstName   string    `json:"firstName" gorm:"size:50;not null"`
	LastName    string    `json:"lastName" gorm:"size:50;not null"`
	Email       string    `json:"email" gorm:"size:255;uniqueIndex;not null"` // stored lower-cased
	Password    string    `json:"-"`                                          // bcrypt hash, empty for Firebase-only accounts
	FirebaseUID *string   `json:"-" gorm:"size:128;uniqueIndex"`              // Link to Firebase User UID
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserSummary is the public projection of a user embedded in posts, comments and like lists.
type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string `json:"lastName" validate:"required,min=1,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=100,strongpassword"`
}

// LoginRequest is the email and password sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}
