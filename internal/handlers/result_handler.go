package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/repositories"
)

type ResultHandler struct {
	analysisRepo repositories.AnalysisRepository
}

func NewResultHandler(analysisRepo repositories.AnalysisRepository) *ResultHandler {
	return &ResultHandler{analysisRepo: analysisRepo}
}

// HandleGetResult handles GET /result/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid analysis ID format")
	}

	analysis, err := h.analysisRepo.FindByID(c.UserContext(), analysisID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Analysis not found")
		}
		return errorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	response := models.ResultResponse{
		ID:     analysis.ID.String(),
		Status: string(analysis.Status),
	}

	switch analysis.Status {
	case models.StatusCompleted:
		response.Result = &models.AnalysisData{
			Profile:      analysis.Profile,
			Requirements: analysis.Requirements,
			SkillMatch:   analysis.SkillMatch,
		}
	case models.StatusFailed:
		response.ErrorMessage = analysis.ErrorMessage
	}

	return c.JSON(response)
}
