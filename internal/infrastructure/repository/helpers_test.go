package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fastighet/internal/domain/ticket"
	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/infrastructure/migration"
	"fastighet/internal/shared/biztime"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(migration.AutoMigrateModels()...))
	return db
}

// fixClock pins biztime to at for the rest of the test.
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	restore := biztime.SetClock(func() time.Time { return at })
	t.Cleanup(restore)
}

func newTestTicket(t *testing.T, reporterID, propertyID uint, title string) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(reporterID, propertyID, title, "Water is dripping from the ceiling", vo.PriorityMedium, nil, nil)
	require.NoError(t, err)
	return tk
}

func uintPtr(v uint) *uint { return &v }
