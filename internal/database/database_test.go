package database

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestConstraintStatements(t *testing.T) {
	stmts := constraintStatements()
	require.Len(t, stmts, 2*len(checkConstraints()))

	assert.Contains(t, stmts, "ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check")
	assert.Contains(t, stmts, "ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK "+
		"(status IN ('pending', 'confirmed', 'ongoing', 'completed', 'cancelled'))")
	assert.Contains(t, stmts, "ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('partner', 'customer'))")
	assert.Contains(t, stmts, "ALTER TABLE bookings ADD CONSTRAINT bookings_dates_check CHECK (end_date > start_date)")
}

func TestApplyConstraints(t *testing.T) {
	db, mock := newMockDB(t)
	stmts := constraintStatements()[:2]

	mock.ExpectBegin()
	for _, stmt := range stmts {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	require.NoError(t, applyConstraints(db, stmts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyConstraints_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	stmts := constraintStatements()[:2]

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(stmts[0])).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(stmts[1])).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := applyConstraints(db, stmts)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
