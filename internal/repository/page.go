package repository

import (
	"context"
	"errors"

	"feedbacknexus/internal/models"

	"gorm.io/gorm"
)

// ErrSlugTaken signals a slug unique-index violation on create. The page
// service retries with a fresh suffix when it sees this.
var ErrSlugTaken = errors.New("slug already taken")

// PageRepository defines persistence operations for feedback pages.
type PageRepository interface {
	Create(ctx context.Context, page *models.FeedbackPage) error
	GetByID(ctx context.Context, id uint) (*models.FeedbackPage, error)
	GetBySlug(ctx context.Context, slug string) (*models.FeedbackPage, error)
	GetBySlugForUser(ctx context.Context, slug string, userID uint) (*models.FeedbackPage, error)
	ListByUser(ctx context.Context, userID uint) ([]models.FeedbackPage, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, page *models.FeedbackPage) error
	DeleteWithMessages(ctx context.Context, id uint) error
}

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository returns a new PageRepository implementation.
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *models.FeedbackPage) error {
	if err := r.db.WithContext(ctx).Create(page).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrSlugTaken
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pageRepository) GetByID(ctx context.Context, id uint) (*models.FeedbackPage, error) {
	var page models.FeedbackPage
	if err := r.db.WithContext(ctx).First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Feedback page")
		}
		return nil, models.NewInternalError(err)
	}
	return &page, nil
}

func (r *pageRepository) GetBySlug(ctx context.Context, slug string) (*models.FeedbackPage, error) {
	var page models.FeedbackPage
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Feedback page")
		}
		return nil, models.NewInternalError(err)
	}
	return &page, nil
}

// GetBySlugForUser scopes the lookup to the owning user. A page owned by
// someone else is indistinguishable from a missing one.
func (r *pageRepository) GetBySlugForUser(ctx context.Context, slug string, userID uint) (*models.FeedbackPage, error) {
	var page models.FeedbackPage
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND user_id = ?", slug, userID).
		First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Feedback page")
		}
		return nil, models.NewInternalError(err)
	}
	return &page, nil
}

func (r *pageRepository) ListByUser(ctx context.Context, userID uint) ([]models.FeedbackPage, error) {
	var pages []models.FeedbackPage
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return pages, nil
}

func (r *pageRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FeedbackPage{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *pageRepository) Update(ctx context.Context, page *models.FeedbackPage) error {
	if err := r.db.WithContext(ctx).Save(page).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrSlugTaken
		}
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteWithMessages removes a page and its messages in one transaction so a
// failure partway through leaves nothing orphaned.
func (r *pageRepository) DeleteWithMessages(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feedback_page_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FeedbackPage{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
