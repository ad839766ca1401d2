package handlers

import (
	"github.com/gofiber/fiber/v2"

	"brandpost/internal/service"
)

type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type createProfileRequest struct {
	Name     string  `json:"name"`
	Headline *string `json:"headline"`
	About    *string `json:"about"`
}

func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	var req createProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	profile, err := h.profiles.Create(c.Context(), req.Name, req.Headline, req.About)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) Analyze(c *fiber.Ctx) error {
	analysis, err := h.profiles.Analyze(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(analysis)
}
