package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/services"
)

type ExtractHandler struct {
	extractor   services.TextExtractor
	maxFileSize int64
	maxFiles    int
	log         *zap.Logger
}

func NewExtractHandler(extractor services.TextExtractor, maxFileSize int64, maxFiles int, log *zap.Logger) *ExtractHandler {
	return &ExtractHandler{
		extractor:   extractor,
		maxFileSize: maxFileSize,
		maxFiles:    maxFiles,
		log:         log,
	}
}

// HandleExtractText handles POST /extract-text
func (h *ExtractHandler) HandleExtractText(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "No file uploaded")
	}

	if !h.extractor.IsSupported(file.Filename) {
		return errorResponse(c, fiber.StatusBadRequest, "Unsupported file type. Use PDF, DOCX or TXT")
	}
	if file.Size > h.maxFileSize {
		return errorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	data, err := readFormFile(file)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	text, err := h.extractor.ExtractText(file.Filename, data)
	if err != nil {
		h.log.Warn("⚠️ Text extraction failed", zap.String("file", file.Filename), zap.Error(err))
		status := fiber.StatusUnprocessableEntity
		if errors.Is(err, services.ErrUnsupportedFileType) {
			status = fiber.StatusBadRequest
		}
		return errorResponse(c, status, fmt.Sprintf("Failed to extract text: %v", err))
	}

	return c.JSON(models.ExtractTextResponse{
		Filename:   file.Filename,
		Text:       text,
		TextLength: len(text),
	})
}

// HandleExtractMultiple handles POST /extract-multiple-texts
func (h *ExtractHandler) HandleExtractMultiple(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "failed to parse multipart form")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return errorResponse(c, fiber.StatusBadRequest, "No files uploaded")
	}
	if len(files) > h.maxFiles {
		return errorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Too many files. Max: %d", h.maxFiles))
	}

	inputs := make([]services.FileInput, 0, len(files))
	results := make(map[string]*string, len(files))
	for _, file := range files {
		if file.Size > h.maxFileSize {
			results[file.Filename] = nil
			continue
		}
		data, err := readFormFile(file)
		if err != nil {
			results[file.Filename] = nil
			continue
		}
		inputs = append(inputs, services.FileInput{Name: file.Filename, Data: data})
	}

	for name, text := range h.extractor.ExtractMultiple(c.UserContext(), inputs) {
		results[name] = text
	}

	success := 0
	for _, text := range results {
		if text != nil {
			success++
		}
	}

	return c.JSON(models.ExtractMultipleResponse{
		Results:      results,
		TotalFiles:   len(results),
		SuccessCount: success,
		FailedCount:  len(results) - success,
	})
}

func readFormFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, nil
}
