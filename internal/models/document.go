package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentResume         DocumentType = "resume"
	DocumentJobDescription DocumentType = "job_description"
)

type Document struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string       `gorm:"type:text" json:"filename"`
	OriginalFileName string       `gorm:"type:text" json:"original_filename"`
	FileType         DocumentType `gorm:"type:text" json:"file_type"`
	StorageKey       string       `gorm:"type:text" json:"storage_key"`
	SizeBytes        int64        `json:"size_bytes"`
	ExtractedText    string       `gorm:"type:text" json:"-"`
	CreatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
