// Package admission implements two-phase admission planning: Plan
// identifies candidate resources without reserving anything, and
// Commit turns a plan into actual assignments, re-validating each
// resource at that moment. Plans are advisory: time may pass between
// the two phases and every candidate may have been taken.
package admission

import (
	"context"

	"gorm.io/gorm"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/lifecycle"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/metrics"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/registry"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/store"
)

// PlanStatus describes how much of an admission plan (or commit)
// could be satisfied.
type PlanStatus string

const (
	StatusPlanned        PlanStatus = "planned"
	StatusPartiallyReady PlanStatus = "partially_ready"
	StatusCommitted      PlanStatus = "committed"
	StatusFailed         PlanStatus = "failed"
)

// Requirements describes what an admission needs.
// StaffRoles lists one entry per person required, so two nurses are
// requested as ["nurse", "nurse"].
type Requirements struct {
	DepartmentID   int64           `json:"department_id,omitempty"`
	BedType        model.BedType   `json:"bed_type,omitempty"`
	StaffRoles     []string        `json:"staff_roles,omitempty"`
	EquipmentNeeds []EquipmentNeed `json:"equipment_needs,omitempty"`
}

// EquipmentNeed requests Count units of a category.
type EquipmentNeed struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// BedCandidate identifies the bed a plan proposes.
type BedCandidate struct {
	UUID   string        `json:"uuid"`
	Number string        `json:"number"`
	Type   model.BedType `json:"type"`
}

// StaffCandidate identifies a staff member a plan proposes, tagged
// with the role they would fill.
type StaffCandidate struct {
	UUID   string `json:"uuid"`
	Number string `json:"number"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// EquipmentCandidate identifies an equipment unit a plan proposes.
type EquipmentCandidate struct {
	UUID     string `json:"uuid"`
	Number   string `json:"number"`
	Category string `json:"category"`
}

// Shortfall records a requirement the plan could not fully satisfy.
type Shortfall struct {
	Kind      string `json:"kind"` // bed, staff or equipment
	Role      string `json:"role,omitempty"`
	Category  string `json:"category,omitempty"`
	Requested int    `json:"requested"`
	Found     int    `json:"found"`
}

// Plan is the ephemeral result of the identification phase. It is
// never persisted; the caller holds it and decides whether to
// commit.
type Plan struct {
	PatientUUID   string               `json:"patient_uuid"`
	PatientNumber string               `json:"patient_number"`
	Status        PlanStatus           `json:"status"`
	Bed           *BedCandidate        `json:"bed"`
	Staff         []StaffCandidate     `json:"staff"`
	Equipment     []EquipmentCandidate `json:"equipment"`
	Shortfalls    []Shortfall          `json:"shortfalls,omitempty"`
}

// Planner produces and commits admission plans.
type Planner struct {
	db        *gorm.DB
	store     store.Store
	registry  *registry.Registry
	lifecycle *lifecycle.Manager
}

// NewPlanner creates an admission planner.
func NewPlanner(db *gorm.DB, st store.Store, reg *registry.Registry, lc *lifecycle.Manager) *Planner {
	return &Planner{db: db, store: st, registry: reg, lifecycle: lc}
}

// Plan identifies a candidate bed, staff and equipment for the
// patient. Missing resources are reported as shortfalls in the
// result, never raised: a partial plan is a valid outcome. Only a
// bad patient reference (or storage trouble) returns an error.
func (p *Planner) Plan(ctx context.Context, patientRef string, req Requirements) (*Plan, error) {
	patient, err := p.store.ResolvePatient(ctx, patientRef)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		PatientUUID:   patient.UUID,
		PatientNumber: patient.Number,
		Staff:         make([]StaffCandidate, 0),
		Equipment:     make([]EquipmentCandidate, 0),
	}

	// Bed: first candidate under the stable ordering wins, so
	// repeated planning over unchanged data picks the same bed.
	beds, err := p.registry.FindAvailableBeds(ctx, registry.BedFilter{
		Type:         req.BedType,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return nil, err
	}
	if len(beds) > 0 {
		plan.Bed = &BedCandidate{UUID: beds[0].UUID, Number: beds[0].Number, Type: beds[0].Type}
	} else {
		plan.Shortfalls = append(plan.Shortfalls, Shortfall{Kind: "bed", Requested: 1, Found: 0})
	}

	// Staff: group repeated roles, then identify up to the needed
	// count per role.
	staffFull := true
	for _, rc := range groupRoles(req.StaffRoles) {
		found, err := p.registry.FindQualifiedStaff(ctx, rc.role, req.DepartmentID, rc.count)
		if err != nil {
			return nil, err
		}
		for _, s := range found {
			plan.Staff = append(plan.Staff, StaffCandidate{UUID: s.UUID, Number: s.Number, Name: s.Name, Role: rc.role})
		}
		if len(found) < rc.count {
			staffFull = false
			plan.Shortfalls = append(plan.Shortfalls, Shortfall{Kind: "staff", Role: rc.role, Requested: rc.count, Found: len(found)})
		}
	}

	// Equipment: same partial-success policy.
	equipFull := true
	for _, need := range req.EquipmentNeeds {
		count := need.Count
		if count <= 0 {
			count = 1
		}
		found, err := p.registry.FindAvailableEquipment(ctx, need.Category, count)
		if err != nil {
			return nil, err
		}
		for _, e := range found {
			plan.Equipment = append(plan.Equipment, EquipmentCandidate{UUID: e.UUID, Number: e.Number, Category: e.Category})
		}
		if len(found) < count {
			equipFull = false
			plan.Shortfalls = append(plan.Shortfalls, Shortfall{Kind: "equipment", Category: need.Category, Requested: count, Found: len(found)})
		}
	}

	switch {
	case plan.Bed != nil && staffFull && equipFull:
		plan.Status = StatusPlanned
	case plan.Bed == nil && len(plan.Staff) == 0 && len(plan.Equipment) == 0:
		plan.Status = StatusFailed
	default:
		plan.Status = StatusPartiallyReady
	}

	metrics.AdmissionsPlanned.WithLabelValues(string(plan.Status)).Inc()
	return plan, nil
}

type roleCount struct {
	role  string
	count int
}

// groupRoles collapses a repeated-role list into per-role counts,
// preserving first-appearance order.
func groupRoles(roles []string) []roleCount {
	var grouped []roleCount
	index := make(map[string]int)
	for _, role := range roles {
		if role == "" {
			continue
		}
		if i, ok := index[role]; ok {
			grouped[i].count++
			continue
		}
		index[role] = len(grouped)
		grouped = append(grouped, roleCount{role: role, count: 1})
	}
	return grouped
}

// mustActivePatient re-resolves the plan's patient and rejects
// commits against discharged records.
func (p *Planner) mustActivePatient(ctx context.Context, plan *Plan) (*model.Patient, error) {
	patient, err := p.store.ResolvePatient(ctx, plan.PatientUUID)
	if err != nil {
		return nil, err
	}
	if patient.Status != model.PatientActive {
		return nil, apperr.InvalidState("patient %s is %s", patient.Number, patient.Status)
	}
	return patient, nil
}
