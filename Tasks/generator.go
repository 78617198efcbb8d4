package Tasks

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"Aegis/Models"
	"Aegis/Recurrence"
)

// Service bundles the task workflow operations around one database
// handle. All compound writes run inside a single transaction.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Generate expands a template into a task instance due at the next
// resolved date at or after asOf. At most one non-forced generation
// succeeds per template, assignee and calendar day; a second attempt
// returns a DuplicateError referencing the existing instance and leaves
// the database untouched. force=true skips the duplicate check.
func (s *Service) Generate(templateID uint, asOf time.Time, force bool) (*Models.TaskInstance, error) {
	var template Models.TaskTemplate
	if err := s.DB.First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("template %d: %w", templateID, ErrNotFound)
		}
		return nil, err
	}
	if !template.IsActive {
		return nil, fmt.Errorf("template %d is disabled: %w", templateID, ErrInvalidState)
	}

	due, err := Recurrence.NextDueDate(&template, asOf)
	if err != nil {
		return nil, err
	}
	dueDay := Recurrence.DayKey(due)

	// Duplicate-check-then-insert must be atomic so concurrent calls
	// for the same template and day let exactly one through.
	var created *Models.TaskInstance
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if !force {
			var existing Models.TaskInstance
			lookup := tx.Where("template_id = ? AND assignee_id = ? AND due_day = ?",
				template.ID, template.AssigneeID, dueDay).First(&existing)
			if lookup.Error == nil {
				return &DuplicateError{Existing: &existing}
			}
			if !errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
				return lookup.Error
			}
		}

		templateRef := template.ID
		task := Models.TaskInstance{
			TemplateID:  &templateRef,
			AssigneeID:  template.AssigneeID,
			Title:       template.Title,
			Description: template.Description,
			Points:      template.Points,
			Priority:    template.Priority,
			DueAt:       Recurrence.EndOfDay(due),
			DueDay:      dueDay,
			Status:      Models.StatusPending,
			Attempt:     0,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		now := time.Now().In(Recurrence.Location())
		if err := tx.Model(&Models.TaskTemplate{}).
			Where("id = ?", template.ID).
			Update("last_run_at", now).Error; err != nil {
			return err
		}

		created = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteTemplate removes a template while preserving generated history:
// task instances keep their rows with the template reference detached,
// in the same transaction as the delete.
func (s *Service) DeleteTemplate(templateID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var template Models.TaskTemplate
		if err := tx.First(&template, templateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("template %d: %w", templateID, ErrNotFound)
			}
			return err
		}
		if err := tx.Model(&Models.TaskInstance{}).
			Where("template_id = ?", templateID).
			Update("template_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&template).Error
	})
}
