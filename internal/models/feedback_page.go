package models

import "time"

// FeedbackPage is a named, sluggable collection point for anonymous messages.
// The slug carries a unique index; the slug generator's collision loop relies
// on it as a backstop.
type FeedbackPage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Slug        string `gorm:"not null;uniqueIndex" json:"slug"`

	// IsActive gates public visibility: an inactive page is treated as not
	// found by public lookups. IsAcceptingMessages gates submissions only.
	IsActive            bool `gorm:"not null;default:true" json:"is_active"`
	IsAcceptingMessages bool `gorm:"not null;default:true" json:"is_accepting_messages"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (FeedbackPage) TableName() string {
	return "feedback_pages"
}
