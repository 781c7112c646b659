// handlers/achievements.go - Steam achievement list endpoint
package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/marek-cottingham/steam-api-token-gen-backend/models"
	"github.com/marek-cottingham/steam-api-token-gen-backend/services"
)

// AchievementAggregator is implemented by services.Aggregator.
type AchievementAggregator interface {
	Aggregate(ctx context.Context, userName, userID string) (*models.AchievementList, error)
}

type AchievementHandler struct {
	aggregator AchievementAggregator
}

func NewAchievementHandler(aggregator AchievementAggregator) *AchievementHandler {
	return &AchievementHandler{aggregator: aggregator}
}

// GetAchievementList returns every unlocked achievement of the user named by
// the userId or userName query parameter. userId wins when both are given.
// Errors are rendered by the app's error handler.
func (h *AchievementHandler) GetAchievementList(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")

	ctx := services.WithRequestID(c.UserContext(), RequestID(c))
	list, err := h.aggregator.Aggregate(ctx, c.Query("userName"), c.Query("userId"))
	if err != nil {
		return err
	}

	return c.JSON(list)
}

// RequestID returns the id assigned by the requestid middleware, if any.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
