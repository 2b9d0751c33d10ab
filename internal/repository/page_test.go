package repository

import (
	"context"
	"testing"

	"feedbacknexus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "pageowner")

	page := &models.FeedbackPage{
		Title:               "My Product",
		Description:         "Tell me what you think",
		UserID:              user.ID,
		Slug:                "my-product",
		IsActive:            true,
		IsAcceptingMessages: true,
	}
	require.NoError(t, repo.Create(ctx, page))
	assert.NotZero(t, page.ID)

	got, err := repo.GetBySlug(ctx, "my-product")
	require.NoError(t, err)
	assert.Equal(t, page.ID, got.ID)
	assert.Equal(t, "My Product", got.Title)

	got, err = repo.GetByID(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "my-product", got.Slug)
}

func TestPageRepository_CreateDuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "pageowner")

	createTestPage(t, db, user.ID, "First", "taken-slug")

	err := repo.Create(ctx, &models.FeedbackPage{
		Title:       "Second",
		Description: "desc",
		UserID:      user.ID,
		Slug:        "taken-slug",
	})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestPageRepository_GetBySlug_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)

	_, err := repo.GetBySlug(context.Background(), "no-such-slug")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPageRepository_GetBySlugForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	page := createTestPage(t, db, owner.ID, "Mine", "mine")

	got, err := repo.GetBySlugForUser(ctx, "mine", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, page.ID, got.ID)

	// Another user's lookup reports not found, not forbidden.
	_, err = repo.GetBySlugForUser(ctx, "mine", other.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPageRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	createTestPage(t, db, owner.ID, "One", "one")
	createTestPage(t, db, owner.ID, "Two", "two")
	createTestPage(t, db, other.ID, "Theirs", "theirs")

	pages, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, pages, 2)

	pages, err = repo.ListByUser(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestPageRepository_SlugExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "owner")
	createTestPage(t, db, user.ID, "Page", "exists")

	exists, err := repo.SlugExists(ctx, "exists")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPageRepository_DeleteWithMessages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPageRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "owner")
	page := createTestPage(t, db, user.ID, "Doomed", "doomed")
	keep := createTestPage(t, db, user.ID, "Keep", "keep")

	for _, pid := range []uint{page.ID, keep.ID} {
		require.NoError(t, db.Create(&models.Message{
			Content:        "hello",
			UserID:         user.ID,
			FeedbackPageID: pid,
		}).Error)
	}

	require.NoError(t, repo.DeleteWithMessages(ctx, page.ID))

	_, err := repo.GetByID(ctx, page.ID)
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Where("feedback_page_id = ?", page.ID).Count(&count).Error)
	assert.Zero(t, count)

	// The sibling page's message survives.
	require.NoError(t, db.Model(&models.Message{}).Where("feedback_page_id = ?", keep.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
