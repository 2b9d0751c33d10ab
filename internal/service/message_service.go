package service

import (
	"context"
	"strings"

	"feedbacknexus/internal/models"
	"feedbacknexus/internal/observability"
	"feedbacknexus/internal/repository"
)

const maxMessageLen = 5000

// MessageService handles anonymous submissions and owner-side message
// management.
type MessageService struct {
	messageRepo repository.MessageRepository
	pageRepo    repository.PageRepository
}

type SubmitMessageInput struct {
	FeedbackPageSlug string
	Content          string
}

// PageMessages is the owner's view of one page's inbox.
type PageMessages struct {
	Messages            []models.Message
	PageTitle           string
	PageDescription     string
	IsAcceptingMessages bool
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, pageRepo repository.PageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, pageRepo: pageRepo}
}

// Submit records an anonymous message against the page behind the slug. No
// sender identity is required or stored.
func (s *MessageService) Submit(ctx context.Context, in SubmitMessageInput) (*models.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" || in.FeedbackPageSlug == "" {
		observability.MessagesRejected.WithLabelValues("validation").Inc()
		return nil, models.NewValidationError("Content and feedback page slug are required")
	}
	if len(content) > maxMessageLen {
		observability.MessagesRejected.WithLabelValues("validation").Inc()
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}

	message, err := s.messageRepo.Submit(ctx, in.FeedbackPageSlug, content)
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok {
			switch appErr.Code {
			case "NOT_FOUND":
				observability.MessagesRejected.WithLabelValues("page_not_found").Inc()
			case "FORBIDDEN":
				observability.MessagesRejected.WithLabelValues("not_accepting").Inc()
			}
		}
		return nil, err
	}

	observability.MessagesSubmitted.Inc()
	return message, nil
}

// ListForPage returns a page's messages for its owner, newest first, along
// with the page metadata the dashboard renders beside them.
func (s *MessageService) ListForPage(ctx context.Context, userID uint, slug string) (*PageMessages, error) {
	page, err := s.pageRepo.GetBySlugForUser(ctx, slug, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByPage(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	return &PageMessages{
		Messages:            messages,
		PageTitle:           page.Title,
		PageDescription:     page.Description,
		IsAcceptingMessages: page.IsAcceptingMessages,
	}, nil
}

// ListForOwner returns every message across all of the caller's pages. An
// owner with no pages gets an empty list, not an error.
func (s *MessageService) ListForOwner(ctx context.Context, userID uint) ([]models.Message, error) {
	messages, err := s.messageRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// Delete removes one message after verifying the caller owns the page it
// belongs to.
func (s *MessageService) Delete(ctx context.Context, userID uint, slug string, messageID uint) error {
	page, err := s.pageRepo.GetBySlugForUser(ctx, slug, userID)
	if err != nil {
		return err
	}
	return s.messageRepo.DeleteForPage(ctx, messageID, page.ID)
}
