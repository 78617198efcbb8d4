package Controllers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Aegis/Models"
	"Aegis/Recurrence"
	"Aegis/Tasks"
	"Aegis/middleware"
)

const proofDir = "ProofUploads"

// Proof images wider than this get downscaled before saving.
const maxProofWidth = 1280

// TaskController handles the task workflow endpoints.
type TaskController struct {
	DB      *gorm.DB
	Service *Tasks.Service
}

func NewTaskController(db *gorm.DB, service *Tasks.Service) *TaskController {
	return &TaskController{DB: db, Service: service}
}

type CompleteInput struct {
	Note       string `json:"note" validate:"required"`
	ProofImage string `json:"proof_image"` // optional base64 JPEG/PNG
}

type AuditInput struct {
	Outcome     string `json:"outcome" validate:"required,oneof=approved wrong_execution not_done"`
	Observation string `json:"observation"`
}

// taskView decorates a task with its derived display state.
type taskView struct {
	Models.TaskInstance
	Overdue bool `json:"overdue"`
}

func viewOf(task Models.TaskInstance, now time.Time) taskView {
	return taskView{TaskInstance: task, Overdue: task.IsOverdue(now)}
}

// GetTasks lists tasks, optionally filtered by assignee, status or due
// day. The overdue flag is computed per read against the anchored clock.
func (c *TaskController) GetTasks(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.TaskInstance{})
	if assignee := ctx.Query("assignee_id"); assignee != "" {
		query = query.Where("assignee_id = ?", assignee)
	}
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if day := ctx.Query("due_day"); day != "" {
		query = query.Where("due_day = ?", day)
	}

	var tasks []Models.TaskInstance
	if result := query.Order("due_at").Find(&tasks); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tasks"})
	}

	now := time.Now().In(Recurrence.Location())
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, viewOf(task, now))
	}
	return ctx.JSON(views)
}

// GetTask retrieves one task by ID.
func (c *TaskController) GetTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}
	var task Models.TaskInstance
	if result := c.DB.First(&task, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	return ctx.JSON(viewOf(task, time.Now().In(Recurrence.Location())))
}

// CompleteTask submits a pending task for audit with a note and an
// optional proof image.
func (c *TaskController) CompleteTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var input CompleteInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if messages := validateStruct(input); messages != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": messages})
	}

	proofPath := ""
	if input.ProofImage != "" {
		proofPath, err = saveProofImage(uint(id), input.ProofImage)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("Could not process proof image: %v", err)})
		}
	}

	task, err := c.Service.Complete(uint(id), input.Note, proofPath)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(viewOf(*task, time.Now().In(Recurrence.Location())))
}

// AuditTask applies a supervisor decision and returns the task together
// with the ledger entry the audit produced.
func (c *TaskController) AuditTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var input AuditInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if messages := validateStruct(input); messages != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": messages})
	}

	var auditorID uint
	if user, ok := middleware.CurrentUser(ctx); ok {
		auditorID = user.ID
	}

	task, entry, err := c.Service.Audit(uint(id), Tasks.AuditOutcome(input.Outcome), input.Observation, auditorID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"task":         viewOf(*task, time.Now().In(Recurrence.Location())),
		"ledger_entry": entry,
	})
}

// ReopenTask returns a rejected task to pending for another attempt.
func (c *TaskController) ReopenTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}
	task, err := c.Service.Reopen(uint(id))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(viewOf(*task, time.Now().In(Recurrence.Location())))
}

// saveProofImage decodes a base64 image, downscales oversized ones and
// writes it under ProofUploads, returning the stored path.
func saveProofImage(taskID uint, encoded string) (string, error) {
	// Tolerate data-URL prefixes from browser clients.
	if comma := strings.Index(encoded, ","); comma != -1 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[comma+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	if img.Bounds().Dx() > maxProofWidth {
		img = imaging.Resize(img, maxProofWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(proofDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("task_%d_%s.jpg", taskID, time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(proofDir, filename)
	if err := imaging.Save(img, path); err != nil {
		return "", err
	}
	return path, nil
}
