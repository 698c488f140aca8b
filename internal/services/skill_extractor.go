package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/models"
)

var ErrEmptyText = errors.New("text is required")

const fallbackGapAnalysis = "Fallback analysis"

type SkillExtractor interface {
	ExtractSkills(ctx context.Context, text string) (*models.SkillExtraction, error)
	AnalyzeSkillGap(ctx context.Context, jdSkills, resumeSkills []string) *models.SkillGapAnalysis
}

type skillExtractor struct {
	llm           LLMService
	dict          *SkillDictionary
	promptBuilder *PromptBuilder
	maxRetries    int
	log           *zap.Logger
}

// NewSkillExtractor builds an extractor. llm may be nil, in which case every
// call goes straight to the keyword fallback.
func NewSkillExtractor(llm LLMService, dict *SkillDictionary, maxRetries int, log *zap.Logger) SkillExtractor {
	if dict == nil {
		dict = DefaultSkillDictionary()
	}
	return &skillExtractor{
		llm:           llm,
		dict:          dict,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		log:           log,
	}
}

// ExtractSkills implements SkillExtractor.
func (s *skillExtractor) ExtractSkills(ctx context.Context, text string) (*models.SkillExtraction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	skills, err := s.extractWithLLM(ctx, text)
	if err == nil {
		return &models.SkillExtraction{Skills: skills, Source: models.SourceLLM}, nil
	}

	s.log.Warn("⚠️ LLM skill extraction failed, using keyword fallback", zap.Error(err))

	return &models.SkillExtraction{
		Skills: s.dict.MatchKeywords(text),
		Source: models.SourceFallback,
	}, nil
}

func (s *skillExtractor) extractWithLLM(ctx context.Context, text string) ([]string, error) {
	if s.llm == nil {
		return nil, errors.New("no language model configured")
	}

	prompt := s.promptBuilder.BuildSkillExtractionPrompt(text)
	response, err := s.llm.GenerateTextWithRetry(ctx, prompt, GenerateOptions{
		Temperature: 0.3,
		MaxTokens:   200,
	}, s.maxRetries)
	if err != nil {
		return nil, err
	}

	var skills []string
	if err := parseJSONResponse(response, &skills); err != nil {
		return nil, fmt.Errorf("failed to parse skills: %w", err)
	}

	cleaned := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			cleaned = append(cleaned, skill)
		}
	}

	return cleaned, nil
}

// AnalyzeSkillGap implements SkillExtractor. It never fails: when the model is
// unavailable or answers with something unparseable the containment fallback
// is used.
func (s *skillExtractor) AnalyzeSkillGap(ctx context.Context, jdSkills, resumeSkills []string) *models.SkillGapAnalysis {
	analysis, err := s.analyzeWithLLM(ctx, jdSkills, resumeSkills)
	if err == nil {
		return analysis
	}

	s.log.Warn("⚠️ LLM skill gap analysis failed, using fallback", zap.Error(err))

	return fallbackSkillGap(jdSkills, resumeSkills)
}

func (s *skillExtractor) analyzeWithLLM(ctx context.Context, jdSkills, resumeSkills []string) (*models.SkillGapAnalysis, error) {
	if s.llm == nil {
		return nil, errors.New("no language model configured")
	}

	prompt := s.promptBuilder.BuildSkillGapPrompt(jdSkills, resumeSkills)
	response, err := s.llm.GenerateTextWithRetry(ctx, prompt, GenerateOptions{
		Temperature: 0.3,
		MaxTokens:   300,
		JSON:        true,
	}, s.maxRetries)
	if err != nil {
		return nil, err
	}

	var analysis models.SkillGapAnalysis
	if err := parseJSONResponse(response, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse skill gap: %w", err)
	}

	if analysis.MatchedSkills == nil {
		analysis.MatchedSkills = []string{}
	}
	if analysis.MissingSkills == nil {
		analysis.MissingSkills = []string{}
	}
	analysis.Source = models.SourceLLM

	return &analysis, nil
}

// fallbackSkillGap marks a required skill as matched when any resume skill
// contains it, ignoring case.
func fallbackSkillGap(jdSkills, resumeSkills []string) *models.SkillGapAnalysis {
	analysis := &models.SkillGapAnalysis{
		MatchedSkills: []string{},
		MissingSkills: []string{},
		GapAnalysis:   fallbackGapAnalysis,
		Source:        models.SourceFallback,
	}

	for _, jdSkill := range jdSkills {
		needle := strings.ToLower(jdSkill)
		found := false
		for _, resumeSkill := range resumeSkills {
			if strings.Contains(strings.ToLower(resumeSkill), needle) {
				found = true
				break
			}
		}

		if found {
			analysis.MatchedSkills = append(analysis.MatchedSkills, jdSkill)
		} else {
			analysis.MissingSkills = append(analysis.MissingSkills, jdSkill)
		}
	}

	return analysis
}
