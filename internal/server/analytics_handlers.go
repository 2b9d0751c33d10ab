package server

import (
	"time"

	"feedbacknexus/internal/analytics"
	"feedbacknexus/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// analyticsDays is the trailing window for the daily series.
const analyticsDays = 7

// GetAnalyticsOverview handles GET /api/analytics/overview. The messages and
// pages reads run concurrently; either failure fails the whole view.
func (s *Server) GetAnalyticsOverview(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var (
		messages []models.Message
		pages    []models.FeedbackPage
	)

	g, ctx := errgroup.WithContext(c.Context())
	g.Go(func() error {
		var err error
		messages, err = s.messageRepo.ListByOwner(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		pages, err = s.pageRepo.ListByUser(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.RespondWithAppError(c, err)
	}

	hourly := analytics.HourlySeries(messages)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Analytics retrieved",
		"data": fiber.Map{
			"totalMessages":  len(messages),
			"totalPages":     len(pages),
			"mostActiveHour": analytics.MostActiveHour(messages),
			"mostCommonPage": analytics.MostCommonPage(messages, pages),
			"dailySeries":    analytics.DailySeries(messages, analyticsDays, time.Now()),
			"hourlySeries":   hourly[:],
		},
	})
}
