// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account that owns feedback pages.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Email verification. Users are created unverified and must exchange the
	// one-time code before they can log in.
	IsVerified       bool      `gorm:"not null;default:false" json:"is_verified"`
	VerifyCode       string    `json:"-"`
	VerifyCodeExpiry time.Time `json:"-"`

	// Legacy account-wide acceptance flag, superseded by the per-page flag on
	// FeedbackPage but still exposed through the accept-messages endpoints.
	IsAcceptingMessages bool `gorm:"not null;default:true" json:"is_accepting_messages"`

	DisplayName    string `json:"display_name"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	Twitter        string `json:"twitter"`
	GitHub         string `json:"github"`
	Website        string `json:"website"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FeedbackPages []FeedbackPage `gorm:"foreignKey:UserID" json:"feedback_pages,omitempty"`
}
