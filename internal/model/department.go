package model

import "time"

// Department represents a hospital department (ward).
type Department struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`

	// Associations
	Rooms []Room  `gorm:"foreignKey:DepartmentID" json:"-"`
	Staff []Staff `gorm:"foreignKey:DepartmentID" json:"-"`
}

// Room represents a physical room holding one or more beds.
type Room struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Number       string    `gorm:"uniqueIndex;size:32;not null" json:"number"`
	DepartmentID int64     `gorm:"index;not null" json:"department_id"`
	Floor        int       `json:"floor"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`

	// Associations
	Department Department `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Beds       []Bed      `gorm:"foreignKey:RoomID" json:"-"`
}
