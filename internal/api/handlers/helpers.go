package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"brandpost/internal/domain"
)

// errorResponse maps domain errors onto HTTP statuses.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	case errors.Is(err, domain.ErrAlreadyPosted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "post is already published",
		})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}
}

const previewLength = 100

// preview truncates post content for list views.
func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}
	return content[:previewLength] + "..."
}
