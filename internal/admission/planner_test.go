package admission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/db"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/lifecycle"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/registry"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/store"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func setupPlanner(t *testing.T) (*gorm.DB, *Planner) {
	t.Helper()
	gdb := newTestDB(t)
	st := store.NewGormStore(gdb)
	reg := registry.New(gdb)
	lc := lifecycle.NewManager(gdb, 30*time.Minute)
	return gdb, NewPlanner(gdb, st, reg, lc)
}

func seedPatient(t *testing.T, gdb *gorm.DB, number string) *model.Patient {
	t.Helper()
	p := &model.Patient{Number: number, FirstName: "Test", LastName: "Patient"}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func seedICUWard(t *testing.T, gdb *gorm.DB) model.Department {
	t.Helper()
	dept := model.Department{Name: "ICU"}
	require.NoError(t, gdb.Create(&dept).Error)
	room := model.Room{Number: "I-1", DepartmentID: dept.ID, Floor: 3}
	require.NoError(t, gdb.Create(&room).Error)
	bed := model.Bed{Number: "ICU-1", RoomID: room.ID, Type: model.BedTypeICU, Status: model.BedAvailable}
	require.NoError(t, gdb.Create(&bed).Error)
	return dept
}

func TestPlanAllResourcesFound(t *testing.T) {
	gdb, planner := setupPlanner(t)
	dept := seedICUWard(t, gdb)
	patient := seedPatient(t, gdb, "P100")

	staff := []model.Staff{
		{Number: "S-1", Name: "Nurse A", Role: "nurse", DepartmentID: dept.ID, Status: model.StaffActive},
		{Number: "S-2", Name: "Nurse B", Role: "nurse", DepartmentID: dept.ID, Status: model.StaffActive},
	}
	require.NoError(t, gdb.Create(&staff).Error)
	vent := model.Equipment{Number: "V-1", Category: "ventilator", Status: model.EquipmentAvailable}
	require.NoError(t, gdb.Create(&vent).Error)

	plan, err := planner.Plan(context.Background(), patient.Number, Requirements{
		BedType:        model.BedTypeICU,
		StaffRoles:     []string{"nurse", "nurse"},
		EquipmentNeeds: []EquipmentNeed{{Category: "ventilator", Count: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPlanned, plan.Status)
	require.NotNil(t, plan.Bed)
	assert.Equal(t, "ICU-1", plan.Bed.Number)
	assert.Len(t, plan.Staff, 2)
	assert.Len(t, plan.Equipment, 1)
	assert.Empty(t, plan.Shortfalls)
}

func TestPlanPartiallyReady(t *testing.T) {
	gdb, planner := setupPlanner(t)
	dept := seedICUWard(t, gdb)
	patient := seedPatient(t, gdb, "P100")

	// Only one nurse and no ventilators exist.
	nurse := model.Staff{Number: "S-1", Name: "Nurse A", Role: "nurse", DepartmentID: dept.ID, Status: model.StaffActive}
	require.NoError(t, gdb.Create(&nurse).Error)

	plan, err := planner.Plan(context.Background(), patient.Number, Requirements{
		BedType:        model.BedTypeICU,
		StaffRoles:     []string{"nurse", "nurse"},
		EquipmentNeeds: []EquipmentNeed{{Category: "ventilator", Count: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPartiallyReady, plan.Status)
	require.NotNil(t, plan.Bed, "bed candidate must still be populated")
	assert.Len(t, plan.Staff, 1)
	assert.Len(t, plan.Equipment, 0)

	require.Len(t, plan.Shortfalls, 2)
	assert.Equal(t, "staff", plan.Shortfalls[0].Kind)
	assert.Equal(t, 2, plan.Shortfalls[0].Requested)
	assert.Equal(t, 1, plan.Shortfalls[0].Found)
	assert.Equal(t, "equipment", plan.Shortfalls[1].Kind)
	assert.Equal(t, 0, plan.Shortfalls[1].Found)
}

func TestPlanBedMissingContinuesForStaff(t *testing.T) {
	gdb, planner := setupPlanner(t)
	dept := seedICUWard(t, gdb)
	patient := seedPatient(t, gdb, "P100")

	nurse := model.Staff{Number: "S-1", Name: "Nurse A", Role: "nurse", DepartmentID: dept.ID, Status: model.StaffActive}
	require.NoError(t, gdb.Create(&nurse).Error)

	// No emergency beds exist, but planning still reports the nurse.
	plan, err := planner.Plan(context.Background(), patient.Number, Requirements{
		BedType:    model.BedTypeEmergency,
		StaffRoles: []string{"nurse"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPartiallyReady, plan.Status)
	assert.Nil(t, plan.Bed)
	assert.Len(t, plan.Staff, 1)
}

func TestPlanFailedWhenNothingFound(t *testing.T) {
	gdb, planner := setupPlanner(t)
	patient := seedPatient(t, gdb, "P100")

	plan, err := planner.Plan(context.Background(), patient.Number, Requirements{
		StaffRoles:     []string{"nurse"},
		EquipmentNeeds: []EquipmentNeed{{Category: "ventilator", Count: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, plan.Status)
	assert.Nil(t, plan.Bed)
	assert.Empty(t, plan.Staff)
	assert.Empty(t, plan.Equipment)
}

func TestPlanUnknownPatient(t *testing.T) {
	_, planner := setupPlanner(t)

	_, err := planner.Plan(context.Background(), "P999", Requirements{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCommitAssignsEverything(t *testing.T) {
	gdb, planner := setupPlanner(t)
	dept := seedICUWard(t, gdb)
	patient := seedPatient(t, gdb, "P100")
	ctx := context.Background()

	nurse := model.Staff{Number: "S-1", Name: "Nurse A", Role: "nurse", DepartmentID: dept.ID, Status: model.StaffActive}
	require.NoError(t, gdb.Create(&nurse).Error)
	vent := model.Equipment{Number: "V-1", Category: "ventilator", Status: model.EquipmentAvailable}
	require.NoError(t, gdb.Create(&vent).Error)

	plan, err := planner.Plan(ctx, patient.Number, Requirements{
		BedType:        model.BedTypeICU,
		StaffRoles:     []string{"nurse"},
		EquipmentNeeds: []EquipmentNeed{{Category: "ventilator", Count: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPlanned, plan.Status)

	result, err := planner.Commit(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, result.Status)
	require.NotNil(t, result.Bed)
	assert.True(t, result.Bed.Success)

	var bed model.Bed
	require.NoError(t, gdb.Where("number = ?", "ICU-1").First(&bed).Error)
	assert.Equal(t, model.BedOccupied, bed.Status)
	require.NotNil(t, bed.CurrentPatientID)
	assert.Equal(t, patient.ID, *bed.CurrentPatientID)

	var assignments int64
	gdb.Model(&model.StaffAssignment{}).Where("patient_id = ?", patient.ID).Count(&assignments)
	assert.Equal(t, int64(1), assignments)

	var eq model.Equipment
	require.NoError(t, gdb.First(&eq, vent.ID).Error)
	assert.Equal(t, model.EquipmentInUse, eq.Status)
}

func TestCommitStaleBedReportsPartialSuccess(t *testing.T) {
	gdb, planner := setupPlanner(t)
	dept := seedICUWard(t, gdb)
	patient := seedPatient(t, gdb, "P100")
	rival := seedPatient(t, gdb, "P200")
	ctx := context.Background()

	nurse := model.Staff{Number: "S-1", Name: "Nurse A", Role: "nurse", DepartmentID: dept.ID, Status: model.StaffActive}
	require.NoError(t, gdb.Create(&nurse).Error)

	plan, err := planner.Plan(ctx, patient.Number, Requirements{
		BedType:    model.BedTypeICU,
		StaffRoles: []string{"nurse"},
	})
	require.NoError(t, err)

	// The bed is taken between plan and commit.
	lc := lifecycle.NewManager(gdb, 30*time.Minute)
	var bed model.Bed
	require.NoError(t, gdb.Where("number = ?", "ICU-1").First(&bed).Error)
	_, err = lc.Assign(ctx, bed.ID, rival.ID)
	require.NoError(t, err)

	result, err := planner.Commit(ctx, plan)
	require.NoError(t, err, "a stale plan is reported, not raised")
	assert.Equal(t, StatusPartiallyReady, result.Status)
	require.NotNil(t, result.Bed)
	assert.False(t, result.Bed.Success)
	assert.Contains(t, result.Bed.Error, "not available")

	// Staff assignment proceeded despite the stale bed.
	require.Len(t, result.Staff, 1)
	assert.True(t, result.Staff[0].Success)

	// The rival's occupancy was not corrupted.
	require.NoError(t, gdb.Where("number = ?", "ICU-1").First(&bed).Error)
	require.NotNil(t, bed.CurrentPatientID)
	assert.Equal(t, rival.ID, *bed.CurrentPatientID)
}

func TestCommitIsIdempotent(t *testing.T) {
	gdb, planner := setupPlanner(t)
	dept := seedICUWard(t, gdb)
	patient := seedPatient(t, gdb, "P100")
	ctx := context.Background()

	nurse := model.Staff{Number: "S-1", Name: "Nurse A", Role: "nurse", DepartmentID: dept.ID, Status: model.StaffActive}
	require.NoError(t, gdb.Create(&nurse).Error)
	vent := model.Equipment{Number: "V-1", Category: "ventilator", Status: model.EquipmentAvailable}
	require.NoError(t, gdb.Create(&vent).Error)

	plan, err := planner.Plan(ctx, patient.Number, Requirements{
		BedType:        model.BedTypeICU,
		StaffRoles:     []string{"nurse"},
		EquipmentNeeds: []EquipmentNeed{{Category: "ventilator", Count: 1}},
	})
	require.NoError(t, err)

	first, err := planner.Commit(ctx, plan)
	require.NoError(t, err)
	require.Equal(t, StatusCommitted, first.Status)

	second, err := planner.Commit(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, second.Status, "re-committing the same plan must not conflict with itself")

	var assignments int64
	gdb.Model(&model.StaffAssignment{}).Where("patient_id = ?", patient.ID).Count(&assignments)
	assert.Equal(t, int64(1), assignments, "no duplicate staff assignment")

	var eqAssignments int64
	gdb.Model(&model.EquipmentAssignment{}).Where("patient_id = ?", patient.ID).Count(&eqAssignments)
	assert.Equal(t, int64(1), eqAssignments, "no duplicate equipment assignment")
}

func TestCommitEquipmentInsertFailureRollsBackClaim(t *testing.T) {
	gdb, planner := setupPlanner(t)
	seedICUWard(t, gdb)
	patient := seedPatient(t, gdb, "P100")
	ctx := context.Background()

	vent := model.Equipment{Number: "V-1", Category: "ventilator", Status: model.EquipmentAvailable}
	require.NoError(t, gdb.Create(&vent).Error)

	plan, err := planner.Plan(ctx, patient.Number, Requirements{
		BedType:        model.BedTypeICU,
		EquipmentNeeds: []EquipmentNeed{{Category: "ventilator", Count: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPlanned, plan.Status)

	// Make the assignment insert fail after the status claim.
	failInserts := errors.New("disk full")
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").
		Register("fail_equipment_assignments", func(db *gorm.DB) {
			if db.Statement.Schema != nil && db.Statement.Schema.Table == "equipment_assignments" {
				db.AddError(failInserts)
			}
		}))

	result, err := planner.Commit(ctx, plan)
	require.NoError(t, err)
	require.Len(t, result.Equipment, 1)
	assert.False(t, result.Equipment[0].Success)

	// The claim must have rolled back with the failed insert: the
	// unit is back in the pool, not stranded in in_use with no
	// assignment row for a discharge to release.
	var eq model.Equipment
	require.NoError(t, gdb.First(&eq, vent.ID).Error)
	assert.Equal(t, model.EquipmentAvailable, eq.Status)

	var assignments int64
	gdb.Model(&model.EquipmentAssignment{}).Where("patient_id = ?", patient.ID).Count(&assignments)
	assert.Equal(t, int64(0), assignments)

	// Once storage recovers, retrying the same plan converges.
	require.NoError(t, gdb.Callback().Create().Remove("fail_equipment_assignments"))

	retry, err := planner.Commit(ctx, plan)
	require.NoError(t, err)
	require.Len(t, retry.Equipment, 1)
	assert.True(t, retry.Equipment[0].Success)

	require.NoError(t, gdb.First(&eq, vent.ID).Error)
	assert.Equal(t, model.EquipmentInUse, eq.Status)
	gdb.Model(&model.EquipmentAssignment{}).Where("patient_id = ?", patient.ID).Count(&assignments)
	assert.Equal(t, int64(1), assignments)
}

func TestCommitEmptyPlanReportsFailed(t *testing.T) {
	gdb, planner := setupPlanner(t)
	patient := seedPatient(t, gdb, "P100")
	ctx := context.Background()

	plan, err := planner.Plan(ctx, patient.Number, Requirements{
		StaffRoles: []string{"nurse"},
	})
	require.NoError(t, err)
	require.Equal(t, StatusFailed, plan.Status)

	result, err := planner.Commit(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, result.Status, "a plan that found nothing commits nothing")
	assert.Nil(t, result.Bed)
	assert.Empty(t, result.Staff)
	assert.Empty(t, result.Equipment)
}

func TestCommitDischargedPatientRejected(t *testing.T) {
	gdb, planner := setupPlanner(t)
	seedICUWard(t, gdb)
	patient := seedPatient(t, gdb, "P100")
	ctx := context.Background()

	plan, err := planner.Plan(ctx, patient.Number, Requirements{BedType: model.BedTypeICU})
	require.NoError(t, err)

	require.NoError(t, gdb.Model(&model.Patient{}).Where("id = ?", patient.ID).
		Update("status", model.PatientDischarged).Error)

	_, err = planner.Commit(ctx, plan)
	assert.True(t, apperr.IsInvalidState(err))
}
