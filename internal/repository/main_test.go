package repository

import (
	"context"
	"testing"

	"feedbacknexus/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FeedbackPage{}, &models.Message{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "hashed-password",
		IsVerified: true,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}

func createTestPage(t *testing.T, db *gorm.DB, userID uint, title, slug string) *models.FeedbackPage {
	t.Helper()
	page := &models.FeedbackPage{
		Title:               title,
		Description:         "Test description",
		UserID:              userID,
		Slug:                slug,
		IsActive:            true,
		IsAcceptingMessages: true,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(page).Error)
	return page
}
