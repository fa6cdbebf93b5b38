package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffStatus defines the recognized states of a staff member.
type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffInactive StaffStatus = "inactive"
	StaffOnLeave  StaffStatus = "on_leave"
)

// Staff represents a member of the hospital staff.
type Staff struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	UUID   string `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Number string `gorm:"size:32;uniqueIndex;not null" json:"number"`

	Name         string      `gorm:"size:256;not null" json:"name"`
	Role         string      `gorm:"size:64;not null;index" json:"role"`
	DepartmentID int64       `gorm:"index;not null" json:"department_id"`
	Status       StaffStatus `gorm:"size:16;not null;default:active;index" json:"status"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Department Department `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a surrogate UUID if none was provided.
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == "" {
		s.UUID = uuid.NewString()
	}
	return nil
}
