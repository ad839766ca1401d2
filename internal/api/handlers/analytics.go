package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"brandpost/internal/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(summary)
}

func (h *AnalyticsHandler) ForPost(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid post id",
		})
	}

	post, metrics, err := h.analytics.ForPost(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"post":             post,
		"metrics":          metrics,
		"engagement_score": metrics.EngagementScore(),
	})
}

func (h *AnalyticsHandler) Rows(c *fiber.Ctx) error {
	rows, err := h.analytics.Rows(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}

	items := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		items = append(items, fiber.Map{
			"id":          row.Post.ID,
			"content":     preview(row.Post.Content),
			"status":      row.Post.Status,
			"posted_at":   row.Post.PostedAt,
			"likes":       row.Metrics.Likes,
			"comments":    row.Metrics.Comments,
			"shares":      row.Metrics.Shares,
			"impressions": row.Metrics.Impressions,
		})
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"posts": items,
	})
}

func (h *AnalyticsHandler) TopPerforming(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	ranked, err := h.analytics.TopPerforming(c.Context(), limit)
	if err != nil {
		return errorResponse(c, err)
	}

	items := make([]fiber.Map, 0, len(ranked))
	for _, rp := range ranked {
		items = append(items, fiber.Map{
			"id":               rp.Post.ID,
			"content":          preview(rp.Post.Content),
			"posted_at":        rp.Post.PostedAt,
			"likes":            rp.Analytics.Likes,
			"comments":         rp.Analytics.Comments,
			"shares":           rp.Analytics.Shares,
			"impressions":      rp.Analytics.Impressions,
			"engagement_score": rp.Analytics.EngagementScore(),
		})
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"posts": items,
	})
}
