package repository

import (
	"context"
	"errors"

	"feedbacknexus/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for anonymous messages.
type MessageRepository interface {
	Submit(ctx context.Context, slug, content string) (*models.Message, error)
	ListByPage(ctx context.Context, pageID uint) ([]models.Message, error)
	ListByOwner(ctx context.Context, userID uint) ([]models.Message, error)
	DeleteForPage(ctx context.Context, messageID, pageID uint) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Submit re-reads the page and inserts the message inside one transaction so
// a concurrent toggle cannot land a message on a page that just stopped
// accepting.
func (r *messageRepository) Submit(ctx context.Context, slug, content string) (*models.Message, error) {
	var message *models.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var page models.FeedbackPage
		if err := tx.Where("slug = ?", slug).First(&page).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Feedback page")
			}
			return models.NewInternalError(err)
		}
		if !page.IsActive {
			// Inactive pages are invisible to the public surface.
			return models.NewNotFoundError("Feedback page")
		}
		if !page.IsAcceptingMessages {
			return models.NewForbiddenError("This feedback page is not accepting messages at the moment")
		}

		message = &models.Message{
			Content:        content,
			UserID:         page.UserID,
			FeedbackPageID: page.ID,
		}
		if err := tx.Create(message).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (r *messageRepository) ListByPage(ctx context.Context, pageID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("feedback_page_id = ?", pageID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// ListByOwner returns every message across all of the owner's pages, newest
// first, with the page preloaded so callers can show which page each message
// came from.
func (r *messageRepository) ListByOwner(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Preload("FeedbackPage").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// DeleteForPage deletes a message only when it belongs to the given page.
// Callers verify page ownership first; the paired predicate here keeps a
// message ID from another page from being deletable.
func (r *messageRepository) DeleteForPage(ctx context.Context, messageID, pageID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND feedback_page_id = ?", messageID, pageID).
		Delete(&models.Message{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Message")
	}
	return nil
}
