package Controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Aegis/Models"
	"Aegis/Recurrence"
	"Aegis/Tasks"
)

// testApp wires the workflow routes without the auth middleware; the
// handlers under test assume authorization already happened upstream.
func testApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))

	service := Tasks.NewService(db)
	templateController := NewTemplateController(db, service)
	taskController := NewTaskController(db, service)

	app := fiber.New()
	app.Post("/api/templates/:id/generate", templateController.GenerateTask)
	app.Get("/api/tasks", taskController.GetTasks)
	app.Post("/api/tasks/:id/complete", taskController.CompleteTask)
	app.Post("/api/tasks/:id/audit", taskController.AuditTask)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest("POST", path, &reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

func seedDailyTemplate(t *testing.T, db *gorm.DB) *Models.TaskTemplate {
	t.Helper()
	template := &Models.TaskTemplate{
		Title:      "Submit VAT declaration",
		AssigneeID: 7,
		Points:     25,
		Priority:   "high",
		Recurrence: Models.RecurrenceDaily,
		IsActive:   true,
	}
	require.NoError(t, db.Create(template).Error)
	return template
}

func TestGenerateEndpointDuplicateConflict(t *testing.T) {
	app, db := testApp(t)
	seedDailyTemplate(t, db)

	status, _ := postJSON(t, app, "/api/templates/1/generate", nil)
	assert.Equal(t, fiber.StatusCreated, status)

	status, payload := postJSON(t, app, "/api/templates/1/generate", nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, true, payload["duplicate"])
	assert.NotNil(t, payload["existing_task"])

	status, _ = postJSON(t, app, "/api/templates/1/generate?force=true", nil)
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestGenerateEndpointNotFound(t *testing.T) {
	app, _ := testApp(t)

	status, payload := postJSON(t, app, "/api/templates/99/generate", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.NotEmpty(t, payload["error"])
}

func TestGenerateEndpointConfigurationError(t *testing.T) {
	app, db := testApp(t)
	template := &Models.TaskTemplate{
		Title:      "Weekly reconciliation",
		AssigneeID: 7,
		Points:     25,
		Recurrence: Models.RecurrenceWeekly,
		IsActive:   true,
	}
	require.NoError(t, template.SetWeekdays([]int{}))
	require.NoError(t, db.Create(template).Error)

	status, payload := postJSON(t, app, "/api/templates/1/generate", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.NotEmpty(t, payload["error"])
}

func TestAuditEndpointStatusMapping(t *testing.T) {
	app, db := testApp(t)
	seedDailyTemplate(t, db)

	status, _ := postJSON(t, app, "/api/templates/1/generate", nil)
	require.Equal(t, fiber.StatusCreated, status)

	// Auditing a pending task is a state conflict.
	status, _ = postJSON(t, app, "/api/tasks/1/audit", AuditInput{Outcome: "approved"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = postJSON(t, app, "/api/tasks/1/complete", CompleteInput{Note: "filed with the tax office"})
	require.Equal(t, fiber.StatusOK, status)

	// Missing observation on a penalty outcome fails validation before
	// any mutation.
	status, _ = postJSON(t, app, "/api/tasks/1/audit", AuditInput{Outcome: "not_done"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, payload := postJSON(t, app, "/api/tasks/1/audit", AuditInput{Outcome: "not_done", Observation: "no filing found"})
	require.Equal(t, fiber.StatusOK, status)
	entry := payload["ledger_entry"].(map[string]interface{})
	assert.InDelta(t, -125, entry["delta"].(float64), 1e-9)

	// The losing second audit observes the state conflict.
	status, _ = postJSON(t, app, "/api/tasks/1/audit", AuditInput{Outcome: "approved"})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestTaskListDerivedOverdueFlag(t *testing.T) {
	app, db := testApp(t)
	template := seedDailyTemplate(t, db)

	// A task already past its due time reads as overdue at display
	// time; no stored transition ever happens.
	past := Recurrence.Today().AddDate(0, 0, -3)
	templateID := template.ID
	task := Models.TaskInstance{
		TemplateID: &templateID,
		AssigneeID: 7,
		Title:      template.Title,
		Points:     template.Points,
		DueAt:      Recurrence.EndOfDay(past),
		DueDay:     Recurrence.DayKey(past),
		Status:     Models.StatusPending,
	}
	require.NoError(t, db.Create(&task).Error)

	req := httptest.NewRequest("GET", "/api/tasks?assignee_id=7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var views []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, true, views[0]["overdue"])
	assert.Equal(t, string(Models.StatusPending), views[0]["status"], "overdue is derived, the stored status stays pending")
}
