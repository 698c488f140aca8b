package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/services"
)

type RankingHandler struct {
	ranking services.RankingService
}

func NewRankingHandler(ranking services.RankingService) *RankingHandler {
	return &RankingHandler{ranking: ranking}
}

// HandleRankResumes handles POST /rank-resumes
func (h *RankingHandler) HandleRankResumes(c *fiber.Ctx) error {
	var req models.RankResumesRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if req.BatchID != "" {
		result, err := h.ranking.SearchIndexed(c.UserContext(), req.BatchID, req.JDText, req.TopK)
		if errors.Is(err, services.ErrSemanticUnavailable) {
			return errorResponse(c, fiber.StatusServiceUnavailable, err.Error())
		}
		if err != nil {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(result)
	}

	result, err := h.ranking.RankResumes(c.UserContext(), req.JDText, req.ResumeData, req.TopK)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(result)
}

// HandleHealth handles GET /health
func (h *RankingHandler) HandleHealth(c *fiber.Ctx) error {
	method := models.RankingTFIDF
	if h.ranking.SemanticAvailable(c.UserContext()) {
		method = models.RankingSemantic
	}

	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now(),
		"ranking": method,
	})
}
