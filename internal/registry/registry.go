// Package registry answers availability queries over beds, staff and
// equipment. Queries never mutate state, never reserve anything, and
// the absence of matching resources is an empty result, not an error.
package registry

import (
	"context"

	"gorm.io/gorm"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
)

// BedFilter narrows an available-bed query. Zero values mean "any".
type BedFilter struct {
	Type         model.BedType
	DepartmentID int64
}

// Registry provides read-only resource availability queries.
type Registry struct {
	db *gorm.DB
}

// New creates a Registry over the given database handle.
func New(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// FindAvailableBeds returns beds with status=available matching the
// filter, ordered by bed number. The ordering is stable so repeated
// calls under no intervening mutation return identical results,
// which keeps planning deterministic.
func (r *Registry) FindAvailableBeds(ctx context.Context, filter BedFilter) ([]model.Bed, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Bed{}).
		Where("beds.status = ?", model.BedAvailable)

	if filter.Type != "" {
		q = q.Where("beds.type = ?", filter.Type)
	}
	if filter.DepartmentID != 0 {
		q = q.Joins("JOIN rooms ON rooms.id = beds.room_id").
			Where("rooms.department_id = ?", filter.DepartmentID)
	}

	beds := make([]model.Bed, 0)
	if err := q.Order("beds.number ASC").Find(&beds).Error; err != nil {
		return nil, apperr.Transient("available-bed query failed", err)
	}
	return beds, nil
}

// FindQualifiedStaff returns up to maxCount active staff with the
// given role, optionally restricted to a department. Staff are
// identified, not reserved: the same member may appear in multiple
// concurrent plans.
func (r *Registry) FindQualifiedStaff(ctx context.Context, role string, departmentID int64, maxCount int) ([]model.Staff, error) {
	q := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", role, model.StaffActive)
	if departmentID != 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	if maxCount > 0 {
		q = q.Limit(maxCount)
	}

	staff := make([]model.Staff, 0)
	if err := q.Order("number ASC").Find(&staff).Error; err != nil {
		return nil, apperr.Transient("qualified-staff query failed", err)
	}
	return staff, nil
}

// FindAvailableEquipment returns up to count available equipment
// units in the given category.
func (r *Registry) FindAvailableEquipment(ctx context.Context, category string, count int) ([]model.Equipment, error) {
	q := r.db.WithContext(ctx).
		Where("category = ? AND status = ?", category, model.EquipmentAvailable)
	if count > 0 {
		q = q.Limit(count)
	}

	equipment := make([]model.Equipment, 0)
	if err := q.Order("number ASC").Find(&equipment).Error; err != nil {
		return nil, apperr.Transient("available-equipment query failed", err)
	}
	return equipment, nil
}
