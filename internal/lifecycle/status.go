package lifecycle

import (
	"context"
	"time"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
)

// StatusReport is the read-only view of a bed's turnover progress.
type StatusReport struct {
	BedID            int64            `json:"-"`
	Number           string           `json:"number"`
	UUID             string           `json:"uuid"`
	Status           model.BedStatus  `json:"status"`
	Type             model.BedType    `json:"type"`
	CurrentPatientID *int64           `json:"current_patient_id,omitempty"`
	CleaningStarted  *time.Time       `json:"cleaning_started,omitempty"`
	RemainingSeconds int              `json:"remaining_seconds"`
	PercentComplete  float64          `json:"percent_complete"`
	ExpectedReady    *time.Time       `json:"expected_ready,omitempty"`
}

// StatusWithRemaining reads a bed and, when it is cleaning, computes
// the remaining turnover time and completion percentage. Reads never
// mutate: a bed whose remaining time has hit zero is still reported
// as cleaning until the sweeper (or an operator) completes it.
func (m *Manager) StatusWithRemaining(ctx context.Context, bedID int64) (*StatusReport, error) {
	bed, err := m.fetch(ctx, bedID)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		BedID:            bed.ID,
		Number:           bed.Number,
		UUID:             bed.UUID,
		Status:           bed.Status,
		Type:             bed.Type,
		CurrentPatientID: bed.CurrentPatientID,
		CleaningStarted:  bed.CleaningStarted,
	}

	if bed.Status != model.BedCleaning || bed.CleaningStarted == nil {
		return report, nil
	}

	duration := bed.CleaningDuration(m.defaultCleaning)
	if duration <= 0 {
		ready := *bed.CleaningStarted
		report.PercentComplete = 100
		report.ExpectedReady = &ready
		return report, nil
	}
	elapsed := time.Now().UTC().Sub(*bed.CleaningStarted)
	remaining := duration - elapsed
	if remaining < 0 {
		remaining = 0
	}

	percent := 100 * (1 - remaining.Seconds()/duration.Seconds())
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	ready := bed.CleaningStarted.Add(duration)
	report.RemainingSeconds = int(remaining.Seconds())
	report.PercentComplete = percent
	report.ExpectedReady = &ready
	return report, nil
}
