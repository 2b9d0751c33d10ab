package server

import (
	"feedbacknexus/internal/models"
	"feedbacknexus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/send-message, the anonymous submission
// endpoint. No authentication; the sender is never recorded.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		Content          string `json:"content"`
		FeedbackPageSlug string `json:"feedbackPageSlug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.Submit(c.Context(), service.SubmitMessageInput{
		FeedbackPageSlug: req.FeedbackPageSlug,
		Content:          req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message sent successfully",
		"data":    message,
	})
}

// GetPageMessages handles GET /api/feedback-pages/:slug/messages, the
// owner's per-page inbox with the page metadata alongside.
func (s *Server) GetPageMessages(c *fiber.Ctx) error {
	result, err := s.messageService.ListForPage(c.Context(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if result.Messages == nil {
		result.Messages = []models.Message{}
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"message":             "Messages retrieved",
		"data":                result.Messages,
		"pageTitle":           result.PageTitle,
		"pageDescription":     result.PageDescription,
		"isAcceptingMessages": result.IsAcceptingMessages,
	})
}

// GetAllMessages handles GET /api/getmessages, every message across the
// owner's pages. An owner with no pages gets an empty list.
func (s *Server) GetAllMessages(c *fiber.Ctx) error {
	messages, err := s.messageService.ListForOwner(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Messages retrieved",
		"data":    messages,
	})
}

// DeleteMessage handles DELETE /api/feedback-pages/:slug/messages/:messageId.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	messageID, err := s.parseID(c, "messageId", "message ID")
	if err != nil {
		return nil
	}

	if err := s.messageService.Delete(c.Context(), currentUserID(c), c.Params("slug"), messageID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message deleted successfully",
	})
}
