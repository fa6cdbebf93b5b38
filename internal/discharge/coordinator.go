// Package discharge orchestrates patient discharge as one logical
// operation: flip the patient record, push the bed into cleaning,
// release equipment, and schedule the turnover job. The mutations
// run in a single transaction so a bed inconsistency rolls the
// patient status change back rather than leaving the two diverged.
package discharge

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/lifecycle"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/metrics"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/store"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/turnover"
)

// Result is the caller-visible contract of a discharge. The external
// layer consumes it for report generation.
type Result struct {
	PatientUUID   string    `json:"patient_uuid"`
	PatientNumber string    `json:"patient_number"`
	PatientName   string    `json:"patient_name"`
	Condition     string    `json:"condition"`
	Destination   string    `json:"destination"`
	DischargedAt  time.Time `json:"discharged_at"`

	BedUUID         string    `json:"bed_uuid"`
	BedNumber       string    `json:"bed_number"`
	CleaningStarted time.Time `json:"cleaning_started"`
	ExpectedReady   time.Time `json:"expected_ready"`
}

// Coordinator drives patients out of beds.
type Coordinator struct {
	db        *gorm.DB
	store     store.Store
	lifecycle *lifecycle.Manager
	sweeper   *turnover.Sweeper
}

// NewCoordinator creates a discharge coordinator.
func NewCoordinator(db *gorm.DB, st store.Store, lc *lifecycle.Manager, sw *turnover.Sweeper) *Coordinator {
	return &Coordinator{db: db, store: st, lifecycle: lc, sweeper: sw}
}

// Discharge resolves ref (a patient number/UUID, or a bed number/UUID
// whose occupant is meant) and discharges that patient: status and
// discharge metadata on the patient, bed into cleaning, equipment
// released, turnover job scheduled. Re-discharging an already
// discharged patient fails with an invalid-state error and mutates
// nothing.
func (c *Coordinator) Discharge(ctx context.Context, ref, condition, destination string) (*Result, error) {
	patient, err := c.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var result *Result

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded update: only an active patient can be discharged,
		// so a concurrent or repeated discharge loses here.
		res := tx.Model(&model.Patient{}).
			Where("id = ? AND status = ?", patient.ID, model.PatientActive).
			Updates(map[string]any{
				"status":                model.PatientDischarged,
				"discharge_condition":   condition,
				"discharge_destination": destination,
				"discharged_at":         now,
			})
		if res.Error != nil {
			return apperr.Transient("patient discharge update failed", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("patient %s is already discharged", patient.Number)
		}

		var bed model.Bed
		err := tx.Where("current_patient_id = ? AND status = ?", patient.ID, model.BedOccupied).
			First(&bed).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("patient %s is not occupying a bed", patient.Number)
		}
		if err != nil {
			return apperr.Transient("occupied-bed lookup failed", err)
		}

		cleaned, err := c.lifecycle.Tx(tx).BeginCleaning(ctx, bed.ID)
		if err != nil {
			return err
		}

		if err := releaseEquipment(tx, patient.ID, now); err != nil {
			return err
		}

		duration := bed.CleaningDuration(c.lifecycle.DefaultCleaning())
		if _, err := c.sweeper.Tx(tx).Schedule(ctx, bed.ID, duration); err != nil {
			return err
		}

		result = &Result{
			PatientUUID:     patient.UUID,
			PatientNumber:   patient.Number,
			PatientName:     patient.FirstName + " " + patient.LastName,
			Condition:       condition,
			Destination:     destination,
			DischargedAt:    now,
			BedUUID:         cleaned.UUID,
			BedNumber:       cleaned.Number,
			CleaningStarted: *cleaned.CleaningStarted,
			ExpectedReady:   cleaned.CleaningStarted.Add(duration),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Discharges.Inc()
	return result, nil
}

// resolve accepts either a patient reference or a bed reference and
// returns the patient to discharge.
func (c *Coordinator) resolve(ctx context.Context, ref string) (*model.Patient, error) {
	patient, err := c.store.ResolvePatient(ctx, ref)
	if err == nil {
		return patient, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	bed, bedErr := c.store.ResolveBed(ctx, ref)
	if bedErr != nil {
		if apperr.IsNotFound(bedErr) {
			return nil, apperr.NotFound("no patient or bed matches %q", ref)
		}
		return nil, bedErr
	}
	if bed.CurrentPatientID == nil {
		return nil, apperr.InvalidState("bed %s has no current patient", bed.Number)
	}

	var occupant model.Patient
	err = c.store.DB().WithContext(ctx).First(&occupant, *bed.CurrentPatientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("patient %d not found", *bed.CurrentPatientID)
	}
	if err != nil {
		return nil, apperr.Transient("patient lookup failed", err)
	}
	return &occupant, nil
}

// releaseEquipment closes the patient's open equipment assignments
// and returns the units to the available pool.
func releaseEquipment(tx *gorm.DB, patientID int64, now time.Time) error {
	var open []model.EquipmentAssignment
	if err := tx.Where("patient_id = ? AND released_at IS NULL", patientID).Find(&open).Error; err != nil {
		return apperr.Transient("equipment assignment lookup failed", err)
	}
	if len(open) == 0 {
		return nil
	}

	ids := make([]int64, len(open))
	for i, a := range open {
		ids[i] = a.EquipmentID
	}

	if err := tx.Model(&model.EquipmentAssignment{}).
		Where("patient_id = ? AND released_at IS NULL", patientID).
		Update("released_at", now).Error; err != nil {
		return apperr.Transient("equipment release failed", err)
	}
	if err := tx.Model(&model.Equipment{}).
		Where("id IN ? AND status = ?", ids, model.EquipmentInUse).
		Update("status", model.EquipmentAvailable).Error; err != nil {
		return apperr.Transient("equipment status reset failed", err)
	}
	return nil
}
