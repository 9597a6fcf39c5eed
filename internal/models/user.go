package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model      `json:"-"`
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name"`
	Username        string `json:"username" gorm:"uniqueIndex"`
	Email           string `json:"email" gorm:"uniqueIndex"`
	Password        string `json:"-"` // Store hashed password, ignore for JSON serialization
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	FirebaseUID     string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

// UserCompact is the public projection of a user, safe to attach to posts,
// comments and notifications. Never carries password or email.
type UserCompact struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// ToCompact strips a user down to its public fields
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:              u.ID,
		Name:            u.Name,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
	}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Username string `json:"username" validate:"required,min=2,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
