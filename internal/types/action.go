package types

import (
	"time"

	"github.com/google/uuid"
)

// ItemAction is an append-only audit row written whenever an item's status
// changes through a user action.
type ItemAction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    string    `gorm:"type:varchar(120);not null;index" json:"item_id"`
	Style     string    `gorm:"type:varchar(10);not null;index" json:"style"`
	Color     string    `gorm:"type:varchar(100);not null" json:"color"`
	Action    string    `gorm:"type:varchar(50);not null" json:"action"`
	Location  string    `gorm:"type:varchar(200)" json:"location"`
	Notes     string    `gorm:"type:varchar(500)" json:"notes"`
	User      string    `gorm:"type:varchar(100);not null" json:"user"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

func (ItemAction) TableName() string { return "item_action" }
