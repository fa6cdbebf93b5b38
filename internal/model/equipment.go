package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EquipmentStatus defines the recognized states of a piece of equipment.
type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentInUse       EquipmentStatus = "in_use"
	EquipmentCleaning    EquipmentStatus = "cleaning"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentRetired     EquipmentStatus = "retired"
)

// Equipment represents a movable piece of medical equipment.
// Assignment to a patient is a point-in-time relation tracked by
// EquipmentAssignment, not permanent ownership.
type Equipment struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	UUID   string `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Number string `gorm:"size:32;uniqueIndex;not null" json:"number"`

	Category string          `gorm:"size:64;not null;index" json:"category"`
	Status   EquipmentStatus `gorm:"size:16;not null;default:available;index" json:"status"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate assigns a surrogate UUID if none was provided.
func (e *Equipment) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	return nil
}
