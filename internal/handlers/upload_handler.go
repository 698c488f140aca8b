package handlers

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/repositories"
	"alfredoptarigan/resume-extractor/internal/services"
)

type UploadHandler struct {
	docRepo     repositories.DocumentRepository
	storage     services.StorageService
	extractor   services.TextExtractor
	maxFileSize int64
	log         *zap.Logger
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storage services.StorageService,
	extractor services.TextExtractor,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		docRepo:     docRepo,
		storage:     storage,
		extractor:   extractor,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandleUpload handles POST /upload. Accepts a "resume" and/or a
// "job_description" file.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "failed to parse multipart form")
	}

	var responses []models.UploadResponse

	for _, docType := range []models.DocumentType{models.DocumentResume, models.DocumentJobDescription} {
		files, exists := form.File[string(docType)]
		if !exists || len(files) == 0 {
			continue
		}

		resp, status, err := h.store(c, files[0], docType)
		if err != nil {
			return errorResponse(c, status, err.Error())
		}
		responses = append(responses, *resp)
	}

	if len(responses) == 0 {
		return errorResponse(c, fiber.StatusBadRequest,
			"No valid files uploaded. Please upload 'resume' and/or 'job_description' as PDF, DOCX or TXT files.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}

func (h *UploadHandler) store(c *fiber.Ctx, file *multipart.FileHeader, docType models.DocumentType) (*models.UploadResponse, int, error) {
	if !h.extractor.IsSupported(file.Filename) {
		return nil, fiber.StatusBadRequest, fmt.Errorf("%s: unsupported file type", docType)
	}
	if file.Size > h.maxFileSize {
		return nil, fiber.StatusBadRequest, fmt.Errorf("%s file too large. Max size: %d bytes", docType, h.maxFileSize)
	}

	data, err := readFormFile(file)
	if err != nil {
		return nil, fiber.StatusInternalServerError, err
	}

	text, err := h.extractor.ExtractText(file.Filename, data)
	if err != nil {
		return nil, fiber.StatusUnprocessableEntity, fmt.Errorf("failed to extract text from %s: %v", docType, err)
	}

	ctx := c.UserContext()
	key := services.NewStorageKey(string(docType), file.Filename)
	if err := h.storage.Save(ctx, key, data); err != nil {
		return nil, fiber.StatusInternalServerError, fmt.Errorf("failed to save %s file: %v", docType, err)
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         key,
		OriginalFileName: file.Filename,
		FileType:         docType,
		StorageKey:       key,
		SizeBytes:        int64(len(data)),
		ExtractedText:    text,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(ctx, &doc); err != nil {
		if delErr := h.storage.Delete(ctx, key); delErr != nil {
			h.log.Warn("⚠️ Failed to clean up stored file", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fiber.StatusInternalServerError, fmt.Errorf("failed to save %s document record: %v", docType, err)
	}

	h.log.Info("📄 Document uploaded", zap.Stringer("id", doc.ID), zap.String("type", string(docType)), zap.Int("text_length", len(text)))

	return &models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     string(doc.FileType),
		TextLength:   len(text),
	}, 0, nil
}
