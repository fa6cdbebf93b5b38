package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BedStatus defines the recognized lifecycle states of a bed.
type BedStatus string

const (
	BedAvailable   BedStatus = "available"
	BedOccupied    BedStatus = "occupied"
	BedCleaning    BedStatus = "cleaning"
	BedMaintenance BedStatus = "maintenance"
	BedOutOfOrder  BedStatus = "out_of_order"
)

// BedType classifies a bed by the level of care it supports.
type BedType string

const (
	BedTypeStandard  BedType = "standard"
	BedTypeICU       BedType = "icu"
	BedTypePrivate   BedType = "private"
	BedTypeEmergency BedType = "emergency"
)

// Bed represents a single hospital bed.
//
// Invariants maintained by the lifecycle package:
// CurrentPatientID is non-nil iff Status is occupied, and
// CleaningStarted is non-nil iff Status is cleaning.
type Bed struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	UUID   string `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Number string `gorm:"size:32;uniqueIndex;not null" json:"number"`
	RoomID int64  `gorm:"index;not null" json:"room_id"`

	Type   BedType   `gorm:"size:16;not null;default:standard" json:"type"`
	Status BedStatus `gorm:"size:16;not null;default:available;index" json:"status"`

	CurrentPatientID *int64     `gorm:"index" json:"current_patient_id,omitempty"`
	CleaningStarted  *time.Time `json:"cleaning_started,omitempty"`

	// CleaningMinutes overrides the configured default turnover
	// duration for this bed when non-zero.
	CleaningMinutes int `gorm:"not null;default:0" json:"cleaning_minutes,omitempty"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a surrogate UUID if none was provided.
func (b *Bed) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.NewString()
	}
	return nil
}

// CleaningDuration returns the turnover duration for this bed,
// falling back to def when no per-bed override is set.
func (b *Bed) CleaningDuration(def time.Duration) time.Duration {
	if b.CleaningMinutes > 0 {
		return time.Duration(b.CleaningMinutes) * time.Minute
	}
	return def
}
