package server

import (
	"feedbacknexus/internal/models"
	"feedbacknexus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:username, returning public fields
// only.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile retrieved",
		"data":    profile,
	})
}

// UpdateProfile handles PUT /api/profile for the authenticated user.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		DisplayName    string `json:"displayName"`
		Bio            string `json:"bio"`
		ProfilePicture string `json:"profilePicture"`
		Twitter        string `json:"twitter"`
		GitHub         string `json:"github"`
		Website        string `json:"website"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:         currentUserID(c),
		DisplayName:    req.DisplayName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		Twitter:        req.Twitter,
		GitHub:         req.GitHub,
		Website:        req.Website,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"data": fiber.Map{
			"username":       user.Username,
			"displayName":    user.DisplayName,
			"bio":            user.Bio,
			"profilePicture": user.ProfilePicture,
			"twitter":        user.Twitter,
			"github":         user.GitHub,
			"website":        user.Website,
		},
	})
}

// GetAcceptMessages handles GET /api/accept-messages, the legacy
// account-wide flag.
func (s *Server) GetAcceptMessages(c *fiber.Ctx) error {
	accepting, err := s.userService.GetAcceptingMessages(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"isAcceptingMessages": accepting,
	})
}

// SetAcceptMessages handles POST /api/accept-messages.
func (s *Server) SetAcceptMessages(c *fiber.Ctx) error {
	var req struct {
		AcceptMessage bool `json:"acceptMessage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.SetAcceptingMessages(c.Context(), currentUserID(c), req.AcceptMessage); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status was updated",
	})
}
