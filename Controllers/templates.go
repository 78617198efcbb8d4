package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Aegis/Models"
	"Aegis/Recurrence"
	"Aegis/Tasks"
	"Aegis/middleware"
)

// TemplateController handles recurrence template endpoints.
type TemplateController struct {
	DB      *gorm.DB
	Service *Tasks.Service
}

func NewTemplateController(db *gorm.DB, service *Tasks.Service) *TemplateController {
	return &TemplateController{DB: db, Service: service}
}

type TemplateInput struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	AssigneeID   uint   `json:"assignee_id" validate:"required"`
	Points       int    `json:"points" validate:"required,gt=0"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low normal high critical"`
	Recurrence   string `json:"recurrence" validate:"required,oneof=none daily weekly monthly_by_day specific_date"`
	Weekdays     []int  `json:"weekdays" validate:"omitempty,dive,min=0,max=6"`
	MonthDay     int    `json:"month_day" validate:"omitempty,min=1,max=31"`
	StartDate    string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	SkipWeekends bool   `json:"skip_weekends"`
}

// checkRecurrence enforces the cross-field rules validator tags cannot
// express: weekly needs a non-empty day set, monthly needs a month day,
// the date-anchored kinds need an anchor.
func (input *TemplateInput) checkRecurrence() string {
	switch Models.RecurrenceKind(input.Recurrence) {
	case Models.RecurrenceWeekly:
		if len(input.Weekdays) == 0 {
			return "weekly recurrence requires at least one weekday"
		}
	case Models.RecurrenceMonthlyByDay:
		if input.MonthDay == 0 {
			return "monthly recurrence requires month_day"
		}
	case Models.RecurrenceNone, Models.RecurrenceSpecificDate:
		if input.StartDate == "" {
			return "this recurrence kind requires start_date"
		}
	}
	return ""
}

func (input *TemplateInput) apply(template *Models.TaskTemplate) error {
	template.Title = input.Title
	template.Description = input.Description
	template.AssigneeID = input.AssigneeID
	template.Points = input.Points
	if input.Priority != "" {
		template.Priority = input.Priority
	}
	template.Recurrence = Models.RecurrenceKind(input.Recurrence)
	template.MonthDay = input.MonthDay
	template.StartDate = input.StartDate
	template.SkipWeekends = input.SkipWeekends
	return template.SetWeekdays(input.Weekdays)
}

// CreateTemplate registers a new recurring obligation.
func (c *TemplateController) CreateTemplate(ctx *fiber.Ctx) error {
	var input TemplateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if messages := validateStruct(input); messages != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": messages})
	}
	if message := input.checkRecurrence(); message != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
	}

	template := Models.TaskTemplate{IsActive: true}
	if user, ok := middleware.CurrentUser(ctx); ok {
		template.CreatedByID = user.ID
	}
	if err := input.apply(&template); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if result := c.DB.Create(&template); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create template"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(template)
}

// GetTemplates lists all templates.
func (c *TemplateController) GetTemplates(ctx *fiber.Ctx) error {
	var templates []Models.TaskTemplate
	if result := c.DB.Find(&templates); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve templates"})
	}
	return ctx.JSON(templates)
}

// GetTemplate retrieves a single template by ID.
func (c *TemplateController) GetTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}
	var template Models.TaskTemplate
	if result := c.DB.First(&template, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}
	return ctx.JSON(template)
}

// UpdateTemplate edits a template. Already-generated tasks keep their
// snapshots; edits only affect future generations.
func (c *TemplateController) UpdateTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}
	var template Models.TaskTemplate
	if result := c.DB.First(&template, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	var input TemplateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if messages := validateStruct(input); messages != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": messages})
	}
	if message := input.checkRecurrence(); message != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
	}
	if err := input.apply(&template); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if result := c.DB.Save(&template); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update template"})
	}
	return ctx.JSON(template)
}

// ToggleTemplate flips the active flag; inactive templates never
// auto-generate.
func (c *TemplateController) ToggleTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}
	var template Models.TaskTemplate
	if result := c.DB.First(&template, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	template.IsActive = !template.IsActive
	if result := c.DB.Save(&template); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to toggle template"})
	}
	return ctx.JSON(template)
}

// DeleteTemplate removes a template. Generated tasks survive with the
// template reference detached so audit history is preserved.
func (c *TemplateController) DeleteTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}
	if err := c.Service.DeleteTemplate(uint(id)); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "Template deleted, generated tasks detached"})
}

// GenerateTask expands a template into a task due at the next resolved
// date from today. force=true overrides the same-day duplicate signal.
func (c *TemplateController) GenerateTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}
	force, _ := strconv.ParseBool(ctx.Query("force"))

	task, err := c.Service.Generate(uint(id), Recurrence.Today(), force)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(task)
}
