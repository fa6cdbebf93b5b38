package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientStatus defines the recognized states of a patient record.
type PatientStatus string

const (
	PatientActive     PatientStatus = "active"
	PatientDischarged PatientStatus = "discharged"
)

// Patient represents a patient record. Patient rows are never
// physically deleted; discharge only flips the status and stamps
// the discharge metadata.
type Patient struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	UUID   string `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Number string `gorm:"size:32;uniqueIndex;not null" json:"number"`

	FirstName string `gorm:"size:128" json:"first_name"`
	LastName  string `gorm:"size:128" json:"last_name"`

	Status PatientStatus `gorm:"size:16;not null;default:active;index" json:"status"`

	DischargeCondition   string     `gorm:"size:256" json:"discharge_condition,omitempty"`
	DischargeDestination string     `gorm:"size:256" json:"discharge_destination,omitempty"`
	DischargedAt         *time.Time `json:"discharged_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

// BeforeCreate assigns a surrogate UUID if none was provided.
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}
	return nil
}
