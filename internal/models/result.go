package models

import "encoding/json"

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	TextLength   int    `json:"text_length"`
}

type AnalyzeRequest struct {
	ResumeDocumentID string `json:"resume_document_id" validate:"required"`
	JobDescription   string `json:"job_description"`
}

type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Result       *AnalysisData `json:"result,omitempty"`
	ErrorMessage *string       `json:"error_message,omitempty"`
}

type AnalysisData struct {
	Profile      *ResumeProfile    `json:"profile"`
	Requirements *JobRequirements  `json:"requirements,omitempty"`
	SkillMatch   *SkillMatchResult `json:"skill_match,omitempty"`
}

type ExtractSkillsRequest struct {
	Text string `json:"text" validate:"required"`
	Type string `json:"type" validate:"omitempty,oneof=resume jd job_description unknown"`
}

type ExtractSkillsResponse struct {
	Type       string           `json:"type"`
	Skills     []string         `json:"skills"`
	SkillCount int              `json:"skill_count"`
	Source     ExtractionSource `json:"source"`
}

type SkillGapRequest struct {
	JDSkills     []string `json:"jd_skills" validate:"required"`
	ResumeSkills []string `json:"resume_skills" validate:"required"`
}

// MatchSkillsRequest carries JD skills either as plain names or, when
// Weighted is set, as {skill, weight} objects.
type MatchSkillsRequest struct {
	JDSkills     json.RawMessage `json:"jd_skills" validate:"required"`
	ResumeSkills []string        `json:"resume_skills" validate:"required"`
	Weighted     bool            `json:"weighted"`
}

type TextRequest struct {
	Text string `json:"text" validate:"required"`
}

type EmploymentGapsRequest struct {
	WorkHistory []WorkPeriod      `json:"work_history"`
	Education   []EducationRecord `json:"education"`
}

// RankResumesRequest ranks either the inline resume_data or, when batch_id is
// set, the resumes previously indexed under that batch.
type RankResumesRequest struct {
	JDText     string            `json:"jd_text" validate:"required"`
	ResumeData map[string]string `json:"resume_data" validate:"required_without=BatchID,omitempty,min=1"`
	BatchID    string            `json:"batch_id" validate:"omitempty,max=128"`
	TopK       int               `json:"top_k" validate:"gte=0"`
}

type ExtractTextResponse struct {
	Filename   string `json:"filename"`
	Text       string `json:"text"`
	TextLength int    `json:"text_length"`
}

type ExtractMultipleResponse struct {
	Results      map[string]*string `json:"results"`
	TotalFiles   int                `json:"total_files"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
}
