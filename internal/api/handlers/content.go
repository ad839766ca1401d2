package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"brandpost/internal/service"
)

type ContentHandler struct {
	content *service.ContentService
}

func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func (h *ContentHandler) Generate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	post, err := h.content.GenerateDraft(c.Context(), req.Prompt)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *ContentHandler) List(c *fiber.Ctx) error {
	posts, err := h.content.List(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}

	items := make([]fiber.Map, 0, len(posts))
	for _, p := range posts {
		items = append(items, fiber.Map{
			"id":             p.ID,
			"content":        preview(p.Content),
			"hashtags":       p.Hashtags,
			"status":         p.Status,
			"scheduled_time": p.ScheduledTime,
			"posted_at":      p.PostedAt,
			"created_at":     p.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"posts": items,
	})
}

type scheduleRequest struct {
	PostID        int64      `json:"post_id"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	DelayMinutes  *int       `json:"delay_minutes"`
}

func (h *ContentHandler) Schedule(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	var err error
	var post any
	switch {
	case req.ScheduledTime != nil:
		post, err = h.content.Schedule(c.Context(), req.PostID, *req.ScheduledTime)
	case req.DelayMinutes != nil:
		post, err = h.content.ScheduleIn(c.Context(), req.PostID, time.Duration(*req.DelayMinutes)*time.Minute)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "scheduled_time or delay_minutes is required",
		})
	}
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "post scheduled",
		"post":    post,
	})
}

type postIDRequest struct {
	PostID int64 `json:"post_id"`
}

func (h *ContentHandler) Publish(c *fiber.Ctx) error {
	var req postIDRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.content.PublishNow(c.Context(), req.PostID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "publication queued",
		"post_id": req.PostID,
	})
}

func (h *ContentHandler) Cancel(c *fiber.Ctx) error {
	var req postIDRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	post, err := h.content.CancelSchedule(c.Context(), req.PostID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "schedule cancelled",
		"post":    post,
	})
}
