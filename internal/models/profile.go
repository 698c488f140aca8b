package models

type GapType string

const (
	GapPostCollege GapType = "POST_COLLEGE"
	GapBetweenJobs GapType = "BETWEEN_JOBS"
)

type ExtractionSource string

const (
	SourceLLM      ExtractionSource = "llm"
	SourceFallback ExtractionSource = "fallback"
)

// WorkPeriod is a single job entry. Dates are kept as the raw strings found in
// the resume ("2019-01", "Jan 2019", "Present") and parsed on demand.
type WorkPeriod struct {
	JobTitle  string `json:"job_title"`
	Company   string `json:"company"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type EducationRecord struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	EndDate        string `json:"end_date,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`
}

type Gap struct {
	Type           GapType `json:"type"`
	Start          string  `json:"start"`
	End            string  `json:"end"`
	DurationMonths int     `json:"duration_months"`
}

type GapSummary struct {
	HasGap         bool  `json:"has_gap"`
	TotalGapMonths int   `json:"total_gap_months"`
	GapDetails     []Gap `json:"gap_details"`
}

type ResumeProfile struct {
	Skills                []string          `json:"skills"`
	WorkHistory           []WorkPeriod      `json:"work_history"`
	Education             []EducationRecord `json:"education"`
	TotalExperienceMonths int               `json:"total_experience_months"`
	EmploymentGaps        GapSummary        `json:"employment_gaps"`
	Source                ExtractionSource  `json:"source"`
}

type JobRequirements struct {
	Skills             []string         `json:"skills"`
	MinYearsExperience int              `json:"min_years_experience"`
	Source             ExtractionSource `json:"source"`
}

type SkillExtraction struct {
	Skills []string         `json:"skills"`
	Source ExtractionSource `json:"source"`
}

type SkillGapAnalysis struct {
	MatchedSkills []string         `json:"matchedSkills"`
	MissingSkills []string         `json:"missingSkills"`
	GapAnalysis   string           `json:"gapAnalysis"`
	Source        ExtractionSource `json:"source"`
}

type SkillMatchResult struct {
	MatchScore    int      `json:"match_score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	ExtraSkills   []string `json:"extra_skills"`
	TotalRequired int      `json:"total_required"`
	TotalMatched  int      `json:"total_matched"`
}

type WeightedSkill struct {
	Skill  string  `json:"skill" validate:"required"`
	Weight float64 `json:"weight,omitempty" validate:"gte=0"`
}

type WeightedMatchResult struct {
	MatchScore    int             `json:"match_score"`
	WeightedScore int             `json:"weighted_score"`
	MatchedSkills []string        `json:"matched_skills"`
	MissingSkills []WeightedSkill `json:"missing_skills"`
	TotalWeight   float64         `json:"total_weight"`
	MatchedWeight float64         `json:"matched_weight"`
}

type RankedResume struct {
	ResumeID string  `json:"resume_id"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
}

type RankingMethod string

const (
	RankingSemantic RankingMethod = "semantic"
	RankingTFIDF    RankingMethod = "tfidf"
)

type RankingResult struct {
	Results      []RankedResume `json:"results"`
	Query        string         `json:"query"`
	TotalResumes int            `json:"total_resumes"`
	Method       RankingMethod  `json:"method"`
}
