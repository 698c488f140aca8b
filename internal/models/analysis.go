package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// Analysis is an asynchronous resume analysis job. Result columns are stored
// as JSON and only populated once the job completes.
type Analysis struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeDocumentID uuid.UUID         `gorm:"type:uuid;not null" json:"resume_document_id"`
	JobDescription   string            `gorm:"type:text" json:"job_description,omitempty"`
	Status           AnalysisStatus    `gorm:"not null;default:'queued'" json:"status"`
	Profile          *ResumeProfile    `gorm:"serializer:json;type:jsonb" json:"profile,omitempty"`
	Requirements     *JobRequirements  `gorm:"serializer:json;type:jsonb" json:"requirements,omitempty"`
	SkillMatch       *SkillMatchResult `gorm:"serializer:json;type:jsonb" json:"skill_match,omitempty"`
	ErrorMessage     *string           `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	ResumeDocument Document `gorm:"foreignKey:ResumeDocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
