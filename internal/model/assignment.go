package model

import "time"

// StaffAssignment links a staff member to a patient they are caring
// for. Created by an admission commit; a staff member may hold any
// number of concurrent assignments.
type StaffAssignment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	StaffID   int64     `gorm:"not null;uniqueIndex:idx_staff_patient" json:"staff_id"`
	PatientID int64     `gorm:"not null;uniqueIndex:idx_staff_patient;index" json:"patient_id"`
	Role      string    `gorm:"size:64;not null" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// EquipmentAssignment links a piece of equipment to the patient
// currently using it. ReleasedAt is stamped at discharge.
type EquipmentAssignment struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	EquipmentID int64      `gorm:"not null;index" json:"equipment_id"`
	PatientID   int64      `gorm:"not null;index" json:"patient_id"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
}
