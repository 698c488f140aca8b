package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-extractor/internal/models"
)

type AnalysisRepository interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to models.AnalysisStatus) (bool, error)
	UpdateResult(ctx context.Context, id uuid.UUID, result *models.AnalysisData) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	FindPendingJobs(ctx context.Context, limit int) ([]models.Analysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	if err := r.db.WithContext(ctx).Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

// UpdateStatusIf moves the analysis from one status to another and reports
// whether it did. It is false when the analysis is missing or no longer in from.
func (r *analysisRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to models.AnalysisStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Analysis{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update status: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// UpdateResult stores the result columns and marks the analysis completed.
// Result columns go through a struct update so the JSON serializer applies.
func (r *analysisRepository) UpdateResult(ctx context.Context, id uuid.UUID, data *models.AnalysisData) error {
	result := r.db.WithContext(ctx).Model(&models.Analysis{ID: id}).
		Select("status", "profile", "requirements", "skill_match", "updated_at").
		Updates(&models.Analysis{
			Status:       models.StatusCompleted,
			Profile:      data.Profile,
			Requirements: data.Requirements,
			SkillMatch:   data.SkillMatch,
			UpdatedAt:    time.Now(),
		})

	return checkUpdate(result, "result")
}

func (r *analysisRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	result := r.db.WithContext(ctx).Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	return checkUpdate(result, "error")
}

func (r *analysisRepository) FindPendingJobs(ctx context.Context, limit int) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return analyses, nil
}

func checkUpdate(result *gorm.DB, what string) error {
	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", what, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis: %w", ErrNotFound)
	}
	return nil
}
