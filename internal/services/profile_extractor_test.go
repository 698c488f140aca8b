package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/models"
)

const fallbackResume = `Jane Doe
Software Engineer | Acme | Jan 2019 - Mar 2021
Backend Developer | Globex | 2021-10 to Present
Skills: Go, Docker, PostgreSQL`

func newTestProfileExtractor(t *testing.T, llm LLMService) *profileExtractor {
	t.Helper()

	log := zap.NewNop()
	extractor, err := NewProfileExtractor(llm, NewSkillExtractor(llm, nil, 1, log), 1, log)
	require.NoError(t, err)

	p := extractor.(*profileExtractor)
	p.now = func() time.Time { return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC) }
	return p
}

func TestExtractProfile_LLM(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{
		"professional resume parser": "```json\n" + `{
  "skills": ["Go", "Kubernetes"],
  "work_history": [
    {"job_title": "SRE", "company": "Initech", "start_date": "2020-08", "end_date": "2022-01"},
    {"job_title": "Developer", "company": "Acme", "start_date": "2019-01", "end_date": "2020-01"}
  ],
  "education": [
    {"degree": "BSc", "institution": "State", "end_date": "2018-01", "graduation_year": null}
  ]
}` + "\n```",
	}}
	p := newTestProfileExtractor(t, llm)

	profile, err := p.ExtractProfile(context.Background(), "resume text")
	require.NoError(t, err)

	assert.Equal(t, models.SourceLLM, profile.Source)
	assert.Equal(t, []string{"Go", "Kubernetes"}, profile.Skills)
	assert.Equal(t, 12+17, profile.TotalExperienceMonths)

	want := models.GapSummary{
		HasGap:         true,
		TotalGapMonths: 19,
		GapDetails: []models.Gap{
			{Type: models.GapPostCollege, Start: "2018-01", End: "2019-01", DurationMonths: 12},
			{Type: models.GapBetweenJobs, Start: "2020-01", End: "2020-08", DurationMonths: 7},
		},
	}
	if diff := cmp.Diff(want, profile.EmploymentGaps); diff != "" {
		t.Errorf("EmploymentGaps mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractProfile_SchemaViolationFallsBack(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{
		"professional resume parser": `{"skills": "Go"}`,
	}}
	p := newTestProfileExtractor(t, llm)

	profile, err := p.ExtractProfile(context.Background(), fallbackResume)
	require.NoError(t, err)

	assert.Equal(t, models.SourceFallback, profile.Source)
}

func TestExtractProfile_Fallback(t *testing.T) {
	p := newTestProfileExtractor(t, nil)

	profile, err := p.ExtractProfile(context.Background(), fallbackResume)
	require.NoError(t, err)

	assert.Equal(t, models.SourceFallback, profile.Source)
	assert.Equal(t, []string{"SQL", "Docker", "PostgreSQL"}, profile.Skills)
	assert.Equal(t, []models.WorkPeriod{
		{JobTitle: "Software Engineer | Acme", StartDate: "Jan 2019", EndDate: "Mar 2021"},
		{JobTitle: "Backend Developer | Globex", StartDate: "2021-10", EndDate: "Present"},
	}, profile.WorkHistory)
	assert.Empty(t, profile.Education)
	assert.Equal(t, 26+29, profile.TotalExperienceMonths)

	require.Len(t, profile.EmploymentGaps.GapDetails, 1)
	assert.Equal(t, models.Gap{
		Type:           models.GapBetweenJobs,
		Start:          "2021-03",
		End:            "2021-10",
		DurationMonths: 7,
	}, profile.EmploymentGaps.GapDetails[0])
}

func TestExtractProfile_EmptyText(t *testing.T) {
	p := newTestProfileExtractor(t, nil)

	_, err := p.ExtractProfile(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestExtractJobRequirements(t *testing.T) {
	p := newTestProfileExtractor(t, nil)

	reqs, err := p.ExtractJobRequirements(context.Background(), "We need 5+ years of Go and Kubernetes experience.")
	require.NoError(t, err)

	assert.Equal(t, 5, reqs.MinYearsExperience)
	assert.Equal(t, []string{"Kubernetes"}, reqs.Skills)
	assert.Equal(t, models.SourceFallback, reqs.Source)
}

func TestMinYearsOfExperience(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"3+ years with Python", 3},
		{"at least 10 + yrs", 10},
		{"7 years of professional experience", 7},
		{"4 years experience", 4},
		{"no requirement listed", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, minYearsOfExperience(tt.text))
		})
	}
}
