package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	UploadProcessing = "processing"
	UploadCompleted  = "completed"
	UploadFailed     = "failed"
)

// FileUpload tracks one snapshot spreadsheet. Filename is the provenance key
// stored in Item.SourceFiles; re-uploading the same filename reuses this
// record instead of creating a second one.
type FileUpload struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename    string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"filename"`
	UploadedAt  time.Time `gorm:"not null;index" json:"uploaded_at"`
	StylesCount int       `gorm:"not null;default:0" json:"styles_count"`
	ItemsCount  int       `gorm:"not null;default:0" json:"items_count"`
	ImagesBound int       `gorm:"not null;default:0" json:"images_bound"`
	Status      string    `gorm:"type:varchar(50);not null;default:'processing'" json:"status"`
}

func (FileUpload) TableName() string { return "file_upload" }
