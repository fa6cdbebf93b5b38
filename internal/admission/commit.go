package admission

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/metrics"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
)

// Outcome reports the commit result for one resource.
type Outcome struct {
	Ref     string `json:"ref"`
	Role    string `json:"role,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CommitResult reports a commit field by field. Each resource's
// assignment is its own unit of consistency: a stale bed does not
// roll back staff assignments that succeeded, and the caller sees
// exactly which parts of the plan took effect.
type CommitResult struct {
	Status    PlanStatus `json:"status"`
	Bed       *Outcome   `json:"bed,omitempty"`
	Staff     []Outcome  `json:"staff"`
	Equipment []Outcome  `json:"equipment"`
}

// Commit turns a plan's candidates into actual assignments,
// re-validating availability resource by resource. Assignments are
// idempotent: committing the same plan twice does not double-assign.
func (p *Planner) Commit(ctx context.Context, plan *Plan) (*CommitResult, error) {
	patient, err := p.mustActivePatient(ctx, plan)
	if err != nil {
		return nil, err
	}

	result := &CommitResult{
		Staff:     make([]Outcome, 0, len(plan.Staff)),
		Equipment: make([]Outcome, 0, len(plan.Equipment)),
	}

	if plan.Bed != nil {
		result.Bed = p.commitBed(ctx, plan.Bed, patient)
	}
	for _, cand := range plan.Staff {
		result.Staff = append(result.Staff, p.commitStaff(ctx, cand, patient))
	}
	for _, cand := range plan.Equipment {
		result.Equipment = append(result.Equipment, p.commitEquipment(ctx, cand, patient))
	}

	result.Status = aggregate(result)
	metrics.AdmissionsCommitted.WithLabelValues(string(result.Status)).Inc()
	return result, nil
}

func (p *Planner) commitBed(ctx context.Context, cand *BedCandidate, patient *model.Patient) *Outcome {
	out := &Outcome{Ref: cand.Number}
	bed, err := p.store.ResolveBed(ctx, cand.UUID)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	// A bed already occupied by this patient means the plan was
	// committed before; count that as success, not conflict.
	if bed.Status == model.BedOccupied && bed.CurrentPatientID != nil && *bed.CurrentPatientID == patient.ID {
		out.Success = true
		return out
	}
	if _, err := p.lifecycle.Assign(ctx, bed.ID, patient.ID); err != nil {
		out.Error = err.Error()
		return out
	}
	out.Success = true
	return out
}

func (p *Planner) commitStaff(ctx context.Context, cand StaffCandidate, patient *model.Patient) Outcome {
	out := Outcome{Ref: cand.Number, Role: cand.Role}
	staff, err := p.store.ResolveStaff(ctx, cand.UUID)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	if staff.Status != model.StaffActive {
		out.Error = apperr.Conflict("staff %s is %s, no longer active", staff.Number, staff.Status).Error()
		return out
	}

	assignment := model.StaffAssignment{StaffID: staff.ID, PatientID: patient.ID}
	err = p.db.WithContext(ctx).
		Where(model.StaffAssignment{StaffID: staff.ID, PatientID: patient.ID}).
		Attrs(model.StaffAssignment{Role: cand.Role, CreatedAt: time.Now().UTC()}).
		FirstOrCreate(&assignment).Error
	if err != nil {
		out.Error = apperr.Transient("staff assignment failed", err).Error()
		return out
	}
	out.Success = true
	return out
}

func (p *Planner) commitEquipment(ctx context.Context, cand EquipmentCandidate, patient *model.Patient) Outcome {
	out := Outcome{Ref: cand.Number, Role: cand.Category}
	eq, err := p.store.ResolveEquipment(ctx, cand.UUID)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	// Idempotence: an unreleased assignment of this unit to this
	// patient means a previous commit already claimed it.
	var existing model.EquipmentAssignment
	err = p.db.WithContext(ctx).
		Where("equipment_id = ? AND patient_id = ? AND released_at IS NULL", eq.ID, patient.ID).
		First(&existing).Error
	if err == nil {
		out.Success = true
		return out
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		out.Error = apperr.Transient("equipment assignment lookup failed", err).Error()
		return out
	}

	// The status claim and the assignment row are one unit: a failed
	// insert must roll the claim back, or the unit is stranded in
	// in_use with no assignment row for discharge to release.
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Equipment{}).
			Where("id = ? AND status = ?", eq.ID, model.EquipmentAvailable).
			Update("status", model.EquipmentInUse)
		if res.Error != nil {
			return apperr.Transient("equipment claim failed", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("equipment %s is no longer available", eq.Number)
		}

		record := model.EquipmentAssignment{EquipmentID: eq.ID, PatientID: patient.ID, CreatedAt: time.Now().UTC()}
		if err := tx.Create(&record).Error; err != nil {
			return apperr.Transient("equipment assignment failed", err)
		}
		return nil
	})
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Success = true
	return out
}

// aggregate folds per-resource outcomes into a commit status:
// committed when everything succeeded, failed when nothing did,
// partially_ready otherwise.
func aggregate(r *CommitResult) PlanStatus {
	total, succeeded := 0, 0
	if r.Bed != nil {
		total++
		if r.Bed.Success {
			succeeded++
		}
	}
	for _, o := range r.Staff {
		total++
		if o.Success {
			succeeded++
		}
	}
	for _, o := range r.Equipment {
		total++
		if o.Success {
			succeeded++
		}
	}

	switch {
	case succeeded == 0:
		// Covers the empty plan too: committing a plan that found
		// nothing assigns nothing.
		return StatusFailed
	case succeeded == total:
		return StatusCommitted
	default:
		return StatusPartiallyReady
	}
}
