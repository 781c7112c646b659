package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"version":   Version,
	})
}
