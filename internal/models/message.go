package models

import "time"

// Message is an anonymous submission against a feedback page. UserID is
// denormalized to the page owner, never the sender; the sender is not
// recorded anywhere.
type Message struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Content        string       `gorm:"type:text;not null" json:"content"`
	UserID         uint         `gorm:"not null;index" json:"user_id"`
	FeedbackPageID uint         `gorm:"not null;index" json:"feedback_page_id"`
	FeedbackPage   FeedbackPage `gorm:"foreignKey:FeedbackPageID" json:"feedback_page,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
