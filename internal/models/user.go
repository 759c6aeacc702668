package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User is a profile stored in PostgreSQL. Profiles are soft-deleted only
// (gorm.Model carries DeletedAt), so notifications and posts keep valid
// sender references forever.
type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"uniqueIndex;size:30"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Visibility  string `json:"visibility" gorm:"size:20;default:'public'"` // public, followers, private
	Role        string `json:"role" gorm:"size:20;default:'user'"`         // user, admin
	Password    string `json:"-"`
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
}

// UserCompact is the public snapshot of a profile embedded in enriched
// posts and notifications.
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url"`
}

// ToCompact strips a user down to its public snapshot.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	FirstName string `json:"first_name" validate:"omitempty,max=50"`
	LastName  string `json:"last_name" validate:"omitempty,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	FirstName  string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName   string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL  string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Website    string `json:"website,omitempty" validate:"omitempty,url"`
	Location   string `json:"location,omitempty" validate:"omitempty,max=100"`
	Visibility string `json:"visibility,omitempty" validate:"omitempty,oneof=public followers private"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
