package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/models"
)

const profileSchema = `{
  "type": "object",
  "required": ["skills", "work_history", "education"],
  "properties": {
    "skills": {"type": "array", "items": {"type": "string"}},
    "work_history": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "job_title": {"type": ["string", "null"]},
          "company": {"type": ["string", "null"]},
          "start_date": {"type": ["string", "null"]},
          "end_date": {"type": ["string", "null"]}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "degree": {"type": ["string", "null"]},
          "institution": {"type": ["string", "null"]},
          "end_date": {"type": ["string", "null"]},
          "graduation_year": {"type": ["integer", "null"]}
        }
      }
    }
  }
}`

var (
	dateToken = `(?:[A-Za-z]{3,9}\.?,?\s+\d{4}|\d{1,2}/\d{4}|\d{4}[-/]\d{2})`

	dateRangePattern = regexp.MustCompile(`(?i)(` + dateToken + `)\s*(?:-|\x{2013}|\x{2014}|to)\s*(` + dateToken + `|present|current|now)`)

	minYearsPattern = regexp.MustCompile(`(?i)(\d{1,2})\s*\+\s*(?:years?|yrs?)`)

	yearsOfExperiencePattern = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:years?|yrs?)\s+(?:of\s+)?(?:\w+\s+)?experience`)
)

type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, resumeText string) (*models.ResumeProfile, error)
	ExtractJobRequirements(ctx context.Context, jdText string) (*models.JobRequirements, error)
}

type profileExtractor struct {
	llm           LLMService
	skills        SkillExtractor
	dict          *SkillDictionary
	promptBuilder *PromptBuilder
	schema        *gojsonschema.Schema
	maxRetries    int
	log           *zap.Logger
	now           func() time.Time
}

func NewProfileExtractor(llm LLMService, skills SkillExtractor, maxRetries int, log *zap.Logger) (ProfileExtractor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(profileSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile profile schema: %w", err)
	}

	return &profileExtractor{
		llm:           llm,
		skills:        skills,
		dict:          DefaultSkillDictionary(),
		promptBuilder: NewPromptBuilder(),
		schema:        schema,
		maxRetries:    maxRetries,
		log:           log,
		now:           time.Now,
	}, nil
}

type llmProfile struct {
	Skills      []string                 `json:"skills"`
	WorkHistory []models.WorkPeriod      `json:"work_history"`
	Education   []models.EducationRecord `json:"education"`
}

// ExtractProfile implements ProfileExtractor.
func (p *profileExtractor) ExtractProfile(ctx context.Context, resumeText string) (*models.ResumeProfile, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrEmptyText
	}

	profile, err := p.extractWithLLM(ctx, resumeText)
	if err != nil {
		p.log.Warn("⚠️ LLM profile extraction failed, using fallback", zap.Error(err))
		profile = p.fallbackProfile(resumeText)
	}

	now := p.now()
	profile.TotalExperienceMonths = TotalExperienceMonths(profile.WorkHistory, now)
	profile.EmploymentGaps = ComputeEmploymentGapsAt(now, profile.WorkHistory, profile.Education)

	return profile, nil
}

func (p *profileExtractor) extractWithLLM(ctx context.Context, resumeText string) (*models.ResumeProfile, error) {
	if p.llm == nil {
		return nil, errors.New("no language model configured")
	}

	prompt := p.promptBuilder.BuildProfileExtractionPrompt(resumeText)
	response, err := p.llm.GenerateTextWithRetry(ctx, prompt, GenerateOptions{
		Temperature: 0.1,
		MaxTokens:   2048,
		JSON:        true,
	}, p.maxRetries)
	if err != nil {
		return nil, err
	}

	jsonStr := extractJSON(response)
	result, err := p.schema.Validate(gojsonschema.NewStringLoader(jsonStr))
	if err != nil {
		return nil, fmt.Errorf("failed to validate profile JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("profile does not match schema: %s", strings.Join(msgs, "; "))
	}

	var parsed llmProfile
	if err := parseJSONResponse(jsonStr, &parsed); err != nil {
		return nil, err
	}

	profile := &models.ResumeProfile{
		Skills:      nonNilStrings(parsed.Skills),
		WorkHistory: parsed.WorkHistory,
		Education:   parsed.Education,
		Source:      models.SourceLLM,
	}
	if profile.WorkHistory == nil {
		profile.WorkHistory = []models.WorkPeriod{}
	}
	if profile.Education == nil {
		profile.Education = []models.EducationRecord{}
	}

	return profile, nil
}

// fallbackProfile finds skills by keyword and treats every line carrying a
// "<date> - <date|present>" range as a job. Education is left empty.
func (p *profileExtractor) fallbackProfile(resumeText string) *models.ResumeProfile {
	return &models.ResumeProfile{
		Skills:      p.dict.MatchKeywords(resumeText),
		WorkHistory: scanDateRanges(resumeText, p.now()),
		Education:   []models.EducationRecord{},
		Source:      models.SourceFallback,
	}
}

func scanDateRanges(text string, now time.Time) []models.WorkPeriod {
	periods := []models.WorkPeriod{}

	for _, line := range strings.Split(text, "\n") {
		loc := dateRangePattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		start := strings.TrimSpace(line[loc[2]:loc[3]])
		end := strings.TrimSpace(line[loc[4]:loc[5]])
		if _, ok := ParseYearMonth(start, now); !ok {
			continue
		}

		title := strings.Trim(strings.TrimSpace(line[:loc[0]]), "|,-:()")
		if title == "" {
			title = strings.Trim(strings.TrimSpace(line[loc[1]:]), "|,-:()")
		}

		periods = append(periods, models.WorkPeriod{
			JobTitle:  strings.TrimSpace(title),
			StartDate: start,
			EndDate:   end,
		})
	}

	return periods
}

// ExtractJobRequirements implements ProfileExtractor.
func (p *profileExtractor) ExtractJobRequirements(ctx context.Context, jdText string) (*models.JobRequirements, error) {
	extraction, err := p.skills.ExtractSkills(ctx, jdText)
	if err != nil {
		return nil, err
	}

	return &models.JobRequirements{
		Skills:             extraction.Skills,
		MinYearsExperience: minYearsOfExperience(jdText),
		Source:             extraction.Source,
	}, nil
}

// minYearsOfExperience reads the first "N+ years" mention, falling back to
// "N years of experience". Zero when neither appears.
func minYearsOfExperience(text string) int {
	for _, re := range []*regexp.Regexp{minYearsPattern, yearsOfExperiencePattern} {
		if m := re.FindStringSubmatch(text); m != nil {
			years, err := strconv.Atoi(m[1])
			if err == nil {
				return years
			}
		}
	}
	return 0
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
