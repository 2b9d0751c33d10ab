package server

import (
	"fmt"

	"feedbacknexus/internal/models"
	"feedbacknexus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePage handles POST /api/feedback-pages.
func (s *Server) CreatePage(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	page, err := s.pageService.CreatePage(c.Context(), service.CreatePageInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Feedback page created",
		"data":    page,
	})
}

// GetMyPages handles GET /api/feedback-pages, returning listing summaries.
func (s *Server) GetMyPages(c *fiber.Ctx) error {
	pages, err := s.pageService.ListPages(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if pages == nil {
		pages = []service.PageSummary{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Feedback pages retrieved",
		"data":    pages,
	})
}

// GetPublicPage handles GET /api/feedback-pages/:slug, the anonymous
// sender's view. Inactive pages report not found.
func (s *Server) GetPublicPage(c *fiber.Ctx) error {
	page, err := s.pageService.GetPublicPage(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	// Acceptance can flip at any moment; never serve this from a cache.
	noStore(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Feedback page retrieved",
		"data":    page,
	})
}

// UpdatePage handles PUT /api/feedback-pages/:slug.
func (s *Server) UpdatePage(c *fiber.Ctx) error {
	var req struct {
		Title               *string `json:"title"`
		Description         *string `json:"description"`
		IsActive            *bool   `json:"isActive"`
		IsAcceptingMessages *bool   `json:"isAcceptingMessages"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	page, err := s.pageService.UpdatePage(c.Context(), service.UpdatePageInput{
		UserID:              currentUserID(c),
		Slug:                c.Params("slug"),
		Title:               req.Title,
		Description:         req.Description,
		IsActive:            req.IsActive,
		IsAcceptingMessages: req.IsAcceptingMessages,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	noStore(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Feedback page updated",
		"data":    page,
	})
}

// DeletePage handles DELETE /api/feedback-pages/:slug. Messages on the page
// go with it.
func (s *Server) DeletePage(c *fiber.Ctx) error {
	if err := s.pageService.DeletePage(c.Context(), currentUserID(c), c.Params("slug")); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Feedback page deleted",
	})
}

// ToggleMessages handles POST /api/feedback-pages/:slug/toggle-messages.
func (s *Server) ToggleMessages(c *fiber.Ctx) error {
	page, err := s.pageService.ToggleAccepting(c.Context(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	noStore(c)

	state := "accepted"
	if !page.IsAcceptingMessages {
		state = "not accepted"
	}
	return c.JSON(fiber.Map{
		"success":             true,
		"message":             fmt.Sprintf("Messages are now %s", state),
		"isAcceptingMessages": page.IsAcceptingMessages,
	})
}
