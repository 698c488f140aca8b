package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/services"
)

type ProfileHandler struct {
	profiles services.ProfileExtractor
	now      func() time.Time
}

func NewProfileHandler(profiles services.ProfileExtractor) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		now:      time.Now,
	}
}

// HandleExtractProfile handles POST /extract-profile
func (h *ProfileHandler) HandleExtractProfile(c *fiber.Ctx) error {
	var req models.TextRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	profile, err := h.profiles.ExtractProfile(c.UserContext(), req.Text)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(profile)
}

// HandleJobRequirements handles POST /job-requirements
func (h *ProfileHandler) HandleJobRequirements(c *fiber.Ctx) error {
	var req models.TextRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	requirements, err := h.profiles.ExtractJobRequirements(c.UserContext(), req.Text)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(requirements)
}

// HandleEmploymentGaps handles POST /employment-gaps
func (h *ProfileHandler) HandleEmploymentGaps(c *fiber.Ctx) error {
	var req models.EmploymentGapsRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(services.ComputeEmploymentGapsAt(h.now(), req.WorkHistory, req.Education))
}
