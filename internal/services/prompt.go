package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSkillExtractionPrompt asks for a bare JSON array of technical skills.
func (pb *PromptBuilder) BuildSkillExtractionPrompt(text string) string {
	return fmt.Sprintf(`Extract technical skills from this text. Return only a JSON array of skills, no other text:

%s

Example format: ["JavaScript", "Python", "AWS"]`, text)
}

// BuildSkillGapPrompt compares required and candidate skills.
func (pb *PromptBuilder) BuildSkillGapPrompt(jdSkills, resumeSkills []string) string {
	return fmt.Sprintf(`Analyze skill gap between:
Required: %s
Candidate: %s

Return JSON with matched, missing, and analysis:
{"matchedSkills": [], "missingSkills": [], "gapAnalysis": "text"}`,
		strings.Join(jdSkills, ", "), strings.Join(resumeSkills, ", "))
}

// BuildProfileExtractionPrompt asks for skills, work history and education
// with dates normalised to YYYY-MM.
func (pb *PromptBuilder) BuildProfileExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`You are a professional resume parser. Extract the candidate's skills, work history and education from the resume below and return ONLY valid JSON.

Use exactly this structure:
{
  "skills": string[] (technical skills),
  "work_history": [{
    "job_title": string,
    "company": string,
    "start_date": string (YYYY-MM, or empty if unknown),
    "end_date": string (YYYY-MM, "Present" if ongoing, or empty if unknown)
  }],
  "education": [{
    "degree": string,
    "institution": string,
    "end_date": string (YYYY-MM, or empty if unknown),
    "graduation_year": integer (0 if unknown)
  }]
}

IMPORTANT:
- Extract information directly from the text, do not invent dates.
- If only a year is given for a job, use January of that year for start dates and December for end dates.
- Return ONLY the JSON object, no markdown, no explanation.

RESUME:
"""
%s
"""`, resumeText)
}
