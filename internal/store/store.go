package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
)

// Store resolves external identifiers to rows. Callers may pass
// either a human-assignable number ("302A", "P100") or a surrogate
// UUID; both are accepted interchangeably.
type Store interface {
	DB() *gorm.DB
	ResolveBed(ctx context.Context, ref string) (*model.Bed, error)
	ResolvePatient(ctx context.Context, ref string) (*model.Patient, error)
	ResolveStaff(ctx context.Context, ref string) (*model.Staff, error)
	ResolveEquipment(ctx context.Context, ref string) (*model.Equipment, error)
	CreatePatient(ctx context.Context, p *model.Patient) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// refColumn picks the lookup column for a reference: UUID-shaped
// references resolve against the uuid column, anything else against
// the number column.
func refColumn(ref string) string {
	if _, err := uuid.Parse(ref); err == nil {
		return "uuid = ?"
	}
	return "number = ?"
}

func (s *gormStore) ResolveBed(ctx context.Context, ref string) (*model.Bed, error) {
	var bed model.Bed
	err := s.db.WithContext(ctx).Where(refColumn(ref), ref).First(&bed).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("bed %q not found", ref)
	}
	if err != nil {
		return nil, apperr.Transient("bed lookup failed", err)
	}
	return &bed, nil
}

func (s *gormStore) ResolvePatient(ctx context.Context, ref string) (*model.Patient, error) {
	var patient model.Patient
	err := s.db.WithContext(ctx).Where(refColumn(ref), ref).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("patient %q not found", ref)
	}
	if err != nil {
		return nil, apperr.Transient("patient lookup failed", err)
	}
	return &patient, nil
}

func (s *gormStore) ResolveStaff(ctx context.Context, ref string) (*model.Staff, error) {
	var staff model.Staff
	err := s.db.WithContext(ctx).Where(refColumn(ref), ref).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("staff %q not found", ref)
	}
	if err != nil {
		return nil, apperr.Transient("staff lookup failed", err)
	}
	return &staff, nil
}

func (s *gormStore) ResolveEquipment(ctx context.Context, ref string) (*model.Equipment, error) {
	var eq model.Equipment
	err := s.db.WithContext(ctx).Where(refColumn(ref), ref).First(&eq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("equipment %q not found", ref)
	}
	if err != nil {
		return nil, apperr.Transient("equipment lookup failed", err)
	}
	return &eq, nil
}

func (s *gormStore) CreatePatient(ctx context.Context, p *model.Patient) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("patient number %q already registered", p.Number)
		}
		return apperr.Transient("patient create failed", err)
	}
	return nil
}
