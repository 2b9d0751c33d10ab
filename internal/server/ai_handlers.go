package server

import (
	"feedbacknexus/internal/models"
	"feedbacknexus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GenerateMessage handles POST /api/ai/generate.
func (s *Server) GenerateMessage(c *fiber.Ctx) error {
	var req struct {
		Prompt  string                   `json:"prompt"`
		Options service.AIMessageOptions `json:"options"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Prompt == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Prompt is required"))
	}

	content, err := s.aiService.GenerateMessage(c.Context(), req.Prompt, req.Options)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"content": content,
	})
}

// ImproveMessage handles POST /api/ai/improve.
func (s *Server) ImproveMessage(c *fiber.Ctx) error {
	var req struct {
		Message string                   `json:"message"`
		Options service.AIMessageOptions `json:"options"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Message == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message is required"))
	}

	content, err := s.aiService.ImproveMessage(c.Context(), req.Message, req.Options)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"content": content,
	})
}

// ReplySuggestions handles POST /api/ai/replies.
func (s *Server) ReplySuggestions(c *fiber.Ctx) error {
	var req struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Message == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message is required"))
	}

	suggestions, err := s.aiService.ReplySuggestions(c.Context(), req.Message, req.Count)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"suggestions": suggestions,
	})
}
