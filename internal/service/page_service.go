// Package service implements the business logic between handlers and the
// repositories.
package service

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"feedbacknexus/internal/models"
	"feedbacknexus/internal/observability"
	"feedbacknexus/internal/repository"

	"github.com/google/uuid"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000

	// slugWordLimit keeps slugs concise regardless of title length.
	slugWordLimit = 4

	// slugMaxAttempts bounds the random-suffix retry loop before falling
	// back to a uuid suffix.
	slugMaxAttempts = 4
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]`)

// PageService manages feedback pages and their slugs.
type PageService struct {
	pageRepo repository.PageRepository
}

type CreatePageInput struct {
	UserID      uint
	Title       string
	Description string
}

type UpdatePageInput struct {
	UserID              uint
	Slug                string
	Title               *string
	Description         *string
	IsActive            *bool
	IsAcceptingMessages *bool
}

// NewPageService returns a new PageService.
func NewPageService(pageRepo repository.PageRepository) *PageService {
	return &PageService{pageRepo: pageRepo}
}

// slugFromTitle derives the base slug: at most the first four words of the
// title, hyphen-joined, lowercased, with everything outside [a-z0-9-]
// removed and edge hyphens trimmed.
func slugFromTitle(title string) string {
	words := strings.Fields(title)
	if len(words) > slugWordLimit {
		words = words[:slugWordLimit]
	}
	slug := strings.ToLower(strings.Join(words, "-"))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = strings.Trim(slug, "-")
	return slug
}

const slugSuffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSlugSuffix() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = slugSuffixChars[rand.Intn(len(slugSuffixChars))]
	}
	return string(b)
}

// CreatePage creates a page with a unique slug. The base slug is tried
// as-is, then with random suffixes; a uuid suffix is the final fallback. The
// unique index on slug is the backstop against races between the attempts.
func (s *PageService) CreatePage(ctx context.Context, in CreatePageInput) (*models.FeedbackPage, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if len(description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 2000 characters)")
	}

	base := slugFromTitle(title)
	if base == "" {
		base = "page"
	}

	slug := base
	for attempt := 0; ; attempt++ {
		page := &models.FeedbackPage{
			Title:               title,
			Description:         description,
			UserID:              in.UserID,
			Slug:                slug,
			IsActive:            true,
			IsAcceptingMessages: true,
		}
		err := s.pageRepo.Create(ctx, page)
		if err == nil {
			observability.PagesCreated.Inc()
			return page, nil
		}
		if !errors.Is(err, repository.ErrSlugTaken) {
			return nil, err
		}
		if attempt < slugMaxAttempts {
			slug = base + "-" + randomSlugSuffix()
		} else if attempt == slugMaxAttempts {
			slug = base + "-" + uuid.NewString()[:8]
		} else {
			return nil, models.NewInternalError(err)
		}
	}
}

// PageSummary is the dashboard listing projection of a page. Submission
// state and ownership are deliberately left out; the dashboard fetches the
// full page when it opens one.
type PageSummary struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListPages returns summaries of the caller's pages, newest first.
func (s *PageService) ListPages(ctx context.Context, userID uint) ([]PageSummary, error) {
	pages, err := s.pageRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		summaries = append(summaries, PageSummary{
			Title:       p.Title,
			Description: p.Description,
			Slug:        p.Slug,
			IsActive:    p.IsActive,
			CreatedAt:   p.CreatedAt,
		})
	}
	return summaries, nil
}

// GetOwnedPage returns a page only if the caller owns it.
func (s *PageService) GetOwnedPage(ctx context.Context, userID uint, slug string) (*models.FeedbackPage, error) {
	return s.pageRepo.GetBySlugForUser(ctx, slug, userID)
}

// GetPublicPage resolves a slug for the anonymous surface. Inactive pages
// are reported as not found.
func (s *PageService) GetPublicPage(ctx context.Context, slug string) (*models.FeedbackPage, error) {
	page, err := s.pageRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !page.IsActive {
		return nil, models.NewNotFoundError("Feedback page")
	}
	return page, nil
}

// UpdatePage applies partial updates to a page the caller owns. The slug is
// stable: changing the title never rewrites it.
func (s *PageService) UpdatePage(ctx context.Context, in UpdatePageInput) (*models.FeedbackPage, error) {
	page, err := s.pageRepo.GetBySlugForUser(ctx, in.Slug, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		page.Title = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, models.NewValidationError("Description is required")
		}
		if len(description) > maxDescriptionLen {
			return nil, models.NewValidationError("Description too long (max 2000 characters)")
		}
		page.Description = description
	}
	if in.IsActive != nil {
		page.IsActive = *in.IsActive
	}
	if in.IsAcceptingMessages != nil {
		page.IsAcceptingMessages = *in.IsAcceptingMessages
	}

	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// ToggleAccepting flips whether a page accepts anonymous messages and
// returns the page with its new state.
func (s *PageService) ToggleAccepting(ctx context.Context, userID uint, slug string) (*models.FeedbackPage, error) {
	page, err := s.pageRepo.GetBySlugForUser(ctx, slug, userID)
	if err != nil {
		return nil, err
	}

	page.IsAcceptingMessages = !page.IsAcceptingMessages
	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// DeletePage removes a page the caller owns together with its messages.
func (s *PageService) DeletePage(ctx context.Context, userID uint, slug string) error {
	page, err := s.pageRepo.GetBySlugForUser(ctx, slug, userID)
	if err != nil {
		return err
	}
	return s.pageRepo.DeleteWithMessages(ctx, page.ID)
}
