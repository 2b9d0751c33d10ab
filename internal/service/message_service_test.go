package service

import (
	"context"
	"strings"
	"testing"

	"feedbacknexus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	submitFn        func(context.Context, string, string) (*models.Message, error)
	listByPageFn    func(context.Context, uint) ([]models.Message, error)
	listByOwnerFn   func(context.Context, uint) ([]models.Message, error)
	deleteForPageFn func(context.Context, uint, uint) error
}

func (s *messageRepoStub) Submit(ctx context.Context, slug, content string) (*models.Message, error) {
	return s.submitFn(ctx, slug, content)
}
func (s *messageRepoStub) ListByPage(ctx context.Context, pageID uint) ([]models.Message, error) {
	return s.listByPageFn(ctx, pageID)
}
func (s *messageRepoStub) ListByOwner(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.listByOwnerFn(ctx, userID)
}
func (s *messageRepoStub) DeleteForPage(ctx context.Context, messageID, pageID uint) error {
	return s.deleteForPageFn(ctx, messageID, pageID)
}

func TestSubmit_Validation(t *testing.T) {
	svc := NewMessageService(&messageRepoStub{}, &pageRepoStub{})
	ctx := context.Background()

	tests := []struct {
		name    string
		slug    string
		content string
	}{
		{"Empty Content", "some-page", ""},
		{"Whitespace Content", "some-page", "   "},
		{"Empty Slug", "", "hello"},
		{"Content Too Long", "some-page", strings.Repeat("a", 5001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, SubmitMessageInput{FeedbackPageSlug: tt.slug, Content: tt.content})
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestSubmit_TrimsAndPassesThrough(t *testing.T) {
	stub := &messageRepoStub{
		submitFn: func(_ context.Context, slug, content string) (*models.Message, error) {
			return &models.Message{ID: 1, Content: content, FeedbackPageID: 2, UserID: 3}, nil
		},
	}
	svc := NewMessageService(stub, &pageRepoStub{})

	msg, err := svc.Submit(context.Background(), SubmitMessageInput{
		FeedbackPageSlug: "open-page",
		Content:          "  nice work  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "nice work", msg.Content)
}

func TestSubmit_RepoErrorsPropagate(t *testing.T) {
	stub := &messageRepoStub{
		submitFn: func(_ context.Context, _, _ string) (*models.Message, error) {
			return nil, models.NewForbiddenError("This feedback page is not accepting messages at the moment")
		},
	}
	svc := NewMessageService(stub, &pageRepoStub{})

	_, err := svc.Submit(context.Background(), SubmitMessageInput{FeedbackPageSlug: "paused", Content: "hi"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestListForPage(t *testing.T) {
	pageStub := &pageRepoStub{
		getBySlugForUserFn: func(_ context.Context, slug string, userID uint) (*models.FeedbackPage, error) {
			if userID != 5 {
				return nil, models.NewNotFoundError("Feedback page")
			}
			return &models.FeedbackPage{
				ID: 9, UserID: 5, Slug: slug,
				Title: "My Page", Description: "About things",
				IsAcceptingMessages: true,
			}, nil
		},
	}
	msgStub := &messageRepoStub{
		listByPageFn: func(_ context.Context, pageID uint) ([]models.Message, error) {
			assert.EqualValues(t, 9, pageID)
			return []models.Message{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := NewMessageService(msgStub, pageStub)
	ctx := context.Background()

	result, err := svc.ListForPage(ctx, 5, "my-page")
	require.NoError(t, err)
	assert.Len(t, result.Messages, 2)
	assert.Equal(t, "My Page", result.PageTitle)
	assert.Equal(t, "About things", result.PageDescription)
	assert.True(t, result.IsAcceptingMessages)

	_, err = svc.ListForPage(ctx, 99, "my-page")
	require.Error(t, err)
}

func TestListForOwner_EmptyIsNotAnError(t *testing.T) {
	stub := &messageRepoStub{
		listByOwnerFn: func(_ context.Context, _ uint) ([]models.Message, error) {
			return nil, nil
		},
	}
	svc := NewMessageService(stub, &pageRepoStub{})

	messages, err := svc.ListForOwner(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestDelete_ScopedToOwnedPage(t *testing.T) {
	var deletedMsg, deletedPage uint
	pageStub := &pageRepoStub{
		getBySlugForUserFn: func(_ context.Context, slug string, userID uint) (*models.FeedbackPage, error) {
			if userID != 5 {
				return nil, models.NewNotFoundError("Feedback page")
			}
			return &models.FeedbackPage{ID: 9, UserID: 5, Slug: slug}, nil
		},
	}
	msgStub := &messageRepoStub{
		deleteForPageFn: func(_ context.Context, messageID, pageID uint) error {
			deletedMsg, deletedPage = messageID, pageID
			return nil
		},
	}
	svc := NewMessageService(msgStub, pageStub)
	ctx := context.Background()

	require.Error(t, svc.Delete(ctx, 99, "my-page", 42))
	assert.Zero(t, deletedMsg)

	require.NoError(t, svc.Delete(ctx, 5, "my-page", 42))
	assert.EqualValues(t, 42, deletedMsg)
	assert.EqualValues(t, 9, deletedPage)
}
