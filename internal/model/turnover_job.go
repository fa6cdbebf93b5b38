package model

import "time"

// TurnoverStatus defines the states of a pending turnover job.
type TurnoverStatus string

const (
	TurnoverScheduled TurnoverStatus = "scheduled"
	TurnoverCompleted TurnoverStatus = "completed"
	TurnoverCancelled TurnoverStatus = "cancelled"
)

// TurnoverJob represents one pending cleaning-to-available
// transition. There is at most one row per bed: scheduling a new
// job for a bed replaces its previous one.
type TurnoverJob struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	BedID     int64          `gorm:"uniqueIndex;not null" json:"bed_id"`
	StartedAt time.Time      `gorm:"not null" json:"started_at"`
	Deadline  time.Time      `gorm:"not null;index" json:"deadline"`
	Status    TurnoverStatus `gorm:"size:16;not null;default:scheduled;index" json:"status"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}
