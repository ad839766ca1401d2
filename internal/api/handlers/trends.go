package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"brandpost/internal/service"
)

type TrendsHandler struct {
	trends *service.TrendsService
}

func NewTrendsHandler(trends *service.TrendsService) *TrendsHandler {
	return &TrendsHandler{trends: trends}
}

func (h *TrendsHandler) Trends(c *fiber.Ctx) error {
	var keywords []string
	if industry := strings.TrimSpace(c.Query("industry")); industry != "" {
		keywords = strings.Fields(industry)
	}

	return c.JSON(fiber.Map{
		"trends": h.trends.Trends(keywords),
	})
}

func (h *TrendsHandler) Suggestions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"suggestions": h.trends.Suggestions(),
	})
}
