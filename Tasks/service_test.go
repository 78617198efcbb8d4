package Tasks

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Aegis/Models"
	"Aegis/Recurrence"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(openTestDB(t))
}

func createDailyTemplate(t *testing.T, db *gorm.DB, assigneeID uint, points int) *Models.TaskTemplate {
	t.Helper()
	template := &Models.TaskTemplate{
		Title:      "File daily compliance report",
		AssigneeID: assigneeID,
		Points:     points,
		Priority:   "normal",
		Recurrence: Models.RecurrenceDaily,
		IsActive:   true,
	}
	require.NoError(t, db.Create(template).Error)
	return template
}

func createWeeklyTemplate(t *testing.T, db *gorm.DB, assigneeID uint, points int, days []int) *Models.TaskTemplate {
	t.Helper()
	template := &Models.TaskTemplate{
		Title:      "Reconcile accounts",
		AssigneeID: assigneeID,
		Points:     points,
		Priority:   "high",
		Recurrence: Models.RecurrenceWeekly,
		IsActive:   true,
	}
	require.NoError(t, template.SetWeekdays(days))
	require.NoError(t, db.Create(template).Error)
	return template
}

func anchoredDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, Recurrence.Location())
}

func countTasks(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&Models.TaskInstance{}).Count(&count).Error)
	return count
}

func countEntries(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&Models.LedgerEntry{}).Count(&count).Error)
	return count
}
