package types

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusPending  = "pending"
	StatusPlaced   = "placed"
	StatusShowroom = "showroom"
	StatusWaitlist = "waitlist"
	StatusDropped  = "dropped"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPlaced, StatusShowroom, StatusWaitlist, StatusDropped:
		return true
	}
	return false
}

// Item is one color variant of a style. ID is the identity key
// "{style}_{color}" and is immutable once created; the (style, color) pair
// is globally unique through it.
type Item struct {
	ID          string         `gorm:"type:varchar(120);primaryKey" json:"id"`
	Style       string         `gorm:"type:varchar(10);not null;index" json:"style"`
	Color       string         `gorm:"type:varchar(100);not null" json:"color"`
	Division    string         `gorm:"type:varchar(100)" json:"division"`
	Outsole     string         `gorm:"type:varchar(100)" json:"outsole"`
	Gender      string         `gorm:"type:varchar(50)" json:"gender"`
	ImageURL    *string        `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	SourceFiles datatypes.JSON `gorm:"not null" json:"source_files"`
	Status      string         `gorm:"type:varchar(50);not null;default:'pending';index" json:"status"`
	RowID       *uuid.UUID     `gorm:"type:uuid;index" json:"row_id,omitempty"`
	Row         *Row           `gorm:"foreignKey:RowID;references:ID" json:"row,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string { return "item" }

func (i *Item) SourceFileList() []string {
	var files []string
	if len(i.SourceFiles) == 0 {
		return files
	}
	_ = json.Unmarshal(i.SourceFiles, &files)
	return files
}

func (i *Item) SetSourceFiles(files []string) {
	sort.Strings(files)
	raw, _ := json.Marshal(files)
	i.SourceFiles = datatypes.JSON(raw)
}

// AddSourceFile appends a provenance entry; re-adding an existing filename
// is a no-op. Reports whether the set changed.
func (i *Item) AddSourceFile(filename string) bool {
	files := i.SourceFileList()
	for _, f := range files {
		if f == filename {
			return false
		}
	}
	i.SetSourceFiles(append(files, filename))
	return true
}

// RemoveSourceFile drops a provenance entry. Reports whether the set changed.
func (i *Item) RemoveSourceFile(filename string) bool {
	files := i.SourceFileList()
	kept := files[:0]
	for _, f := range files {
		if f != filename {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(files) {
		return false
	}
	i.SetSourceFiles(append([]string(nil), kept...))
	return true
}
