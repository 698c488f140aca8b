package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/repositories"
	"alfredoptarigan/resume-extractor/internal/services"
)

type AnalyzeHandler struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	worker       services.Worker
}

func NewAnalyzeHandler(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		worker:       worker,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	docID, err := uuid.Parse(req.ResumeDocumentID)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "resume_document_id must be a valid UUID")
	}
	ctx := c.UserContext()

	doc, err := h.docRepo.FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Resume document not found")
		}
		return errorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	if doc.FileType != models.DocumentResume {
		return errorResponse(c, fiber.StatusBadRequest, "resume_document_id does not refer to a resume")
	}

	analysis := models.Analysis{
		ID:               uuid.New(),
		ResumeDocumentID: docID,
		JobDescription:   req.JobDescription,
		Status:           models.StatusQueued,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := h.analysisRepo.Create(ctx, &analysis); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create analysis job")
	}

	h.worker.EnqueueJob(analysis.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:     analysis.ID.String(),
		Status: string(analysis.Status),
	})
}
