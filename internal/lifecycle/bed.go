// Package lifecycle implements the bed state machine:
//
//	available -> occupied -> cleaning -> available
//
// with available <-> maintenance / out_of_order as administrative
// side branches. Every transition is a single conditional UPDATE
// guarded by the expected current status, so two concurrent callers
// racing on the same bed cannot both succeed.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
)

// Manager drives bed status transitions.
type Manager struct {
	db              *gorm.DB
	defaultCleaning time.Duration
}

// NewManager creates a lifecycle manager. defaultCleaning is used
// for beds without a per-bed cleaning duration override.
func NewManager(db *gorm.DB, defaultCleaning time.Duration) *Manager {
	return &Manager{db: db, defaultCleaning: defaultCleaning}
}

// Tx returns a copy of the manager bound to the given transaction
// handle, so callers can include bed transitions in a larger unit.
func (m *Manager) Tx(tx *gorm.DB) *Manager {
	cp := *m
	cp.db = tx
	return &cp
}

// DefaultCleaning returns the configured default turnover duration.
func (m *Manager) DefaultCleaning() time.Duration { return m.defaultCleaning }

// Assign moves a bed from available to occupied for the given
// patient. The status guard in the WHERE clause makes this the
// single atomic check-and-set: of two concurrent Assign calls on the
// same bed, exactly one sees rows-affected=1.
func (m *Manager) Assign(ctx context.Context, bedID, patientID int64) (*model.Bed, error) {
	res := m.db.WithContext(ctx).
		Model(&model.Bed{}).
		Where("id = ? AND status = ?", bedID, model.BedAvailable).
		Updates(map[string]any{
			"status":             model.BedOccupied,
			"current_patient_id": patientID,
			"cleaning_started":   nil,
		})
	if res.Error != nil {
		return nil, apperr.Transient("bed assign failed", res.Error)
	}
	if res.RowsAffected == 0 {
		bed, err := m.fetch(ctx, bedID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.Conflict("bed %s is %s, not available", bed.Number, bed.Status)
	}
	return m.fetch(ctx, bedID)
}

// BeginCleaning moves a bed from occupied to cleaning, detaching the
// current patient and stamping the cleaning start time.
func (m *Manager) BeginCleaning(ctx context.Context, bedID int64) (*model.Bed, error) {
	now := time.Now().UTC()
	res := m.db.WithContext(ctx).
		Model(&model.Bed{}).
		Where("id = ? AND status = ?", bedID, model.BedOccupied).
		Updates(map[string]any{
			"status":             model.BedCleaning,
			"current_patient_id": nil,
			"cleaning_started":   now,
		})
	if res.Error != nil {
		return nil, apperr.Transient("begin cleaning failed", res.Error)
	}
	if res.RowsAffected == 0 {
		bed, err := m.fetch(ctx, bedID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState("bed %s is %s, not occupied", bed.Number, bed.Status)
	}
	return m.fetch(ctx, bedID)
}

// CompleteCleaning moves a bed from cleaning back to available and
// cancels any still-scheduled turnover job for it. Operators may
// call this directly to short-circuit the sweeper.
func (m *Manager) CompleteCleaning(ctx context.Context, bedID int64) (*model.Bed, error) {
	res := m.db.WithContext(ctx).
		Model(&model.Bed{}).
		Where("id = ? AND status = ?", bedID, model.BedCleaning).
		Updates(map[string]any{
			"status":           model.BedAvailable,
			"cleaning_started": nil,
		})
	if res.Error != nil {
		return nil, apperr.Transient("complete cleaning failed", res.Error)
	}
	if res.RowsAffected == 0 {
		bed, err := m.fetch(ctx, bedID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState("bed %s is %s, not cleaning", bed.Number, bed.Status)
	}

	// A still-pending job for this bed is now stale; firing on an
	// already-available bed later would be a no-op anyway, but
	// cancelling keeps the job table honest. Same statement as
	// turnover.(*Sweeper).Cancel, which this package cannot import;
	// keep the two in sync.
	if err := m.db.WithContext(ctx).
		Model(&model.TurnoverJob{}).
		Where("bed_id = ? AND status = ?", bedID, model.TurnoverScheduled).
		Update("status", model.TurnoverCancelled).Error; err != nil {
		return nil, apperr.Transient("turnover job cancel failed", err)
	}

	return m.fetch(ctx, bedID)
}

// SetMaintenance takes an available or cleaning bed out of rotation.
// An occupied bed cannot be marked: discharge the patient first.
func (m *Manager) SetMaintenance(ctx context.Context, bedID int64, target model.BedStatus) (*model.Bed, error) {
	if target != model.BedMaintenance && target != model.BedOutOfOrder {
		return nil, apperr.InvalidState("%s is not an administrative bed status", target)
	}
	res := m.db.WithContext(ctx).
		Model(&model.Bed{}).
		Where("id = ? AND status IN ?", bedID, []model.BedStatus{model.BedAvailable, model.BedCleaning}).
		Updates(map[string]any{
			"status":           target,
			"cleaning_started": nil,
		})
	if res.Error != nil {
		return nil, apperr.Transient("set maintenance failed", res.Error)
	}
	if res.RowsAffected == 0 {
		bed, err := m.fetch(ctx, bedID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState("bed %s is %s and cannot enter %s", bed.Number, bed.Status, target)
	}
	return m.fetch(ctx, bedID)
}

// ClearMaintenance returns a maintenance or out_of_order bed to
// available.
func (m *Manager) ClearMaintenance(ctx context.Context, bedID int64) (*model.Bed, error) {
	res := m.db.WithContext(ctx).
		Model(&model.Bed{}).
		Where("id = ? AND status IN ?", bedID, []model.BedStatus{model.BedMaintenance, model.BedOutOfOrder}).
		Update("status", model.BedAvailable)
	if res.Error != nil {
		return nil, apperr.Transient("clear maintenance failed", res.Error)
	}
	if res.RowsAffected == 0 {
		bed, err := m.fetch(ctx, bedID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState("bed %s is %s, not under maintenance", bed.Number, bed.Status)
	}
	return m.fetch(ctx, bedID)
}

func (m *Manager) fetch(ctx context.Context, bedID int64) (*model.Bed, error) {
	var bed model.Bed
	err := m.db.WithContext(ctx).First(&bed, bedID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("bed %d not found", bedID)
	}
	if err != nil {
		return nil, apperr.Transient("bed fetch failed", err)
	}
	return &bed, nil
}
