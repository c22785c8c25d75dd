package types

import (
	"time"

	"github.com/google/uuid"
)

// Room, Shelf and Row form the strict warehouse hierarchy. Items reference a
// Row weakly through Item.RowID; deleting any level of the tree clears those
// references in the same operation.

type Room struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	Shelves     []Shelf   `gorm:"foreignKey:RoomID;references:ID" json:"shelves,omitempty"`
}

func (Room) TableName() string { return "room" }

type Shelf struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID      uuid.UUID `gorm:"type:uuid;not null;index:idx_room_shelf_name,unique" json:"room_id"`
	Name        string    `gorm:"type:varchar(100);not null;index:idx_room_shelf_name,unique" json:"name"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	Rows        []Row     `gorm:"foreignKey:ShelfID;references:ID" json:"rows,omitempty"`
}

func (Shelf) TableName() string { return "shelf" }

type Row struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShelfID     uuid.UUID `gorm:"type:uuid;not null;index:idx_shelf_row_name,unique" json:"shelf_id"`
	Name        string    `gorm:"type:varchar(100);not null;index:idx_shelf_row_name,unique" json:"name"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Row) TableName() string { return "shelf_row" }
