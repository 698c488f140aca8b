package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/repositories"
)

var ErrAnalysisNotQueued = errors.New("analysis is not queued")

type AnalyzerService interface {
	AnalyzeResume(ctx context.Context, analysisID uuid.UUID) error
}

type analyzerService struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	profiles     ProfileExtractor
	matcher      MatchCalculator
	log          *zap.Logger
}

func NewAnalyzerService(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	profiles ProfileExtractor,
	matcher MatchCalculator,
	log *zap.Logger,
) AnalyzerService {
	return &analyzerService{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		profiles:     profiles,
		matcher:      matcher,
		log:          log,
	}
}

// AnalyzeResume implements AnalyzerService. Only a queued analysis is run;
// one already claimed by another worker returns ErrAnalysisNotQueued. Any
// failure after the claim is recorded on the analysis before being returned.
func (a *analyzerService) AnalyzeResume(ctx context.Context, analysisID uuid.UUID) error {
	claimed, err := a.analysisRepo.UpdateStatusIf(ctx, analysisID, models.StatusQueued, models.StatusProcessing)
	if err != nil {
		return err
	}
	if !claimed {
		return fmt.Errorf("analysis %s: %w", analysisID, ErrAnalysisNotQueued)
	}

	log := a.log.With(zap.String("analysis_id", analysisID.String()))
	log.Info("🔄 Starting analysis")

	data, err := a.run(ctx, analysisID, log)
	if err != nil {
		if updateErr := a.analysisRepo.UpdateError(ctx, analysisID, err.Error()); updateErr != nil {
			log.Error("❌ Failed to record analysis error", zap.Error(updateErr))
		}
		return err
	}

	log.Info("💾 Saving analysis result")
	if err := a.analysisRepo.UpdateResult(ctx, analysisID, data); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	log.Info("✅ Analysis completed")
	return nil
}

func (a *analyzerService) run(ctx context.Context, analysisID uuid.UUID, log *zap.Logger) (*models.AnalysisData, error) {
	analysis, err := a.analysisRepo.FindByID(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	doc, err := a.docRepo.FindByID(ctx, analysis.ResumeDocumentID)
	if err != nil {
		return nil, fmt.Errorf("resume document not found: %w", err)
	}
	if strings.TrimSpace(doc.ExtractedText) == "" {
		return nil, fmt.Errorf("resume document %s has no text", doc.ID)
	}

	log.Info("🤖 Extracting resume profile")
	profile, err := a.profiles.ExtractProfile(ctx, doc.ExtractedText)
	if err != nil {
		return nil, fmt.Errorf("failed to extract profile: %w", err)
	}

	data := &models.AnalysisData{Profile: profile}

	if strings.TrimSpace(analysis.JobDescription) == "" {
		return data, nil
	}

	log.Info("🤖 Extracting job requirements")
	requirements, err := a.profiles.ExtractJobRequirements(ctx, analysis.JobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job requirements: %w", err)
	}

	match := a.matcher.CalculateSkillMatch(requirements.Skills, profile.Skills)
	data.Requirements = requirements
	data.SkillMatch = &match

	return data, nil
}
