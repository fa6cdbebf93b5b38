package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestRefColumn(t *testing.T) {
	testCases := []struct {
		name     string
		ref      string
		expected string
	}{
		{"bed number", "302A", "number = ?"},
		{"patient number", "P100", "number = ?"},
		{"uuid", "7b0c2e6a-4f7d-4f3e-9a1b-2c3d4e5f6a7b", "uuid = ?"},
		{"almost a uuid", "7b0c2e6a-4f7d-4f3e-9a1b", "number = ?"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, refColumn(tc.ref))
		})
	}
}

func TestResolveBedByNumber(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "beds" WHERE number = $1`)).
		WithArgs("302A", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uuid", "number", "status"}).
			AddRow(7, "7b0c2e6a-4f7d-4f3e-9a1b-2c3d4e5f6a7b", "302A", "available"))

	bed, err := st.ResolveBed(context.Background(), "302A")
	require.NoError(t, err)
	assert.Equal(t, int64(7), bed.ID)
	assert.Equal(t, "302A", bed.Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveBedByUUID(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	const id = "7b0c2e6a-4f7d-4f3e-9a1b-2c3d4e5f6a7b"
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "beds" WHERE uuid = $1`)).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uuid", "number", "status"}).
			AddRow(7, id, "302A", "available"))

	bed, err := st.ResolveBed(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, bed.UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveBedNotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "beds" WHERE number = $1`)).
		WithArgs("999Z", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := st.ResolveBed(context.Background(), "999Z")
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolvePatientByNumber(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "patients" WHERE number = $1`)).
		WithArgs("P100", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uuid", "number", "status"}).
			AddRow(3, "11111111-2222-3333-4444-555555555555", "P100", "active"))

	patient, err := st.ResolvePatient(context.Background(), "P100")
	require.NoError(t, err)
	assert.Equal(t, "P100", patient.Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolvePatientNotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "patients" WHERE number = $1`)).
		WithArgs("P999", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := st.ResolvePatient(context.Background(), "P999")
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveStaffByNumber(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "staffs" WHERE number = $1`)).
		WithArgs("S-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uuid", "number", "role", "status"}).
			AddRow(5, "11111111-2222-3333-4444-555555555555", "S-1", "nurse", "active"))

	staff, err := st.ResolveStaff(context.Background(), "S-1")
	require.NoError(t, err)
	assert.Equal(t, "nurse", staff.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveEquipmentNotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "equipment" WHERE number = $1`)).
		WithArgs("V-9", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := st.ResolveEquipment(context.Background(), "V-9")
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
