package Tasks

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"Aegis/Models"
	"Aegis/Recurrence"
)

// Complete moves a pending task (first attempt or reopened) to
// awaiting_audit, storing the collaborator's note and proof and stamping
// the completion time. Any other starting state is ErrInvalidState.
func (s *Service) Complete(taskID uint, note, proofPath string) (*Models.TaskInstance, error) {
	var task Models.TaskInstance
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
			}
			return err
		}

		now := time.Now().In(Recurrence.Location())
		result := tx.Model(&Models.TaskInstance{}).
			Where("id = ? AND status = ?", taskID, Models.StatusPending).
			Updates(map[string]interface{}{
				"status":          Models.StatusAwaitingAudit,
				"completion_note": note,
				"proof_path":      proofPath,
				"completed_at":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("task %d is %s, only pending tasks can be completed: %w",
				taskID, task.Status, ErrInvalidState)
		}
		return tx.First(&task, taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Audit applies a supervisor decision to an awaiting_audit task and
// appends the matching ledger entry in the same transaction, so a ledger
// entry never exists without an audited task or vice versa. The guarded
// update lets exactly one of two concurrent audits win; the loser sees
// ErrInvalidState. An observation is mandatory for every non-approving
// outcome, enforced here rather than at the presentation layer.
func (s *Service) Audit(taskID uint, outcome AuditOutcome, observation string, auditorID uint) (*Models.TaskInstance, *Models.LedgerEntry, error) {
	if !ValidOutcome(outcome) {
		return nil, nil, fmt.Errorf("unknown audit outcome %q: %w", outcome, ErrValidation)
	}
	if outcome != OutcomeApproved && observation == "" {
		return nil, nil, fmt.Errorf("an observation is mandatory when the outcome is %s: %w",
			outcome, ErrValidation)
	}

	var task Models.TaskInstance
	var entry Models.LedgerEntry
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
			}
			return err
		}

		now := time.Now().In(Recurrence.Location())
		result := tx.Model(&Models.TaskInstance{}).
			Where("id = ? AND status = ?", taskID, Models.StatusAwaitingAudit).
			Updates(map[string]interface{}{
				"status":        Models.TaskStatus(outcome),
				"observation":   observation,
				"audited_by_id": auditorID,
				"audited_at":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("task %d is %s, only awaiting_audit tasks can be audited: %w",
				taskID, task.Status, ErrInvalidState)
		}

		taskRef := task.ID
		entry = Models.LedgerEntry{
			UserID:      task.AssigneeID,
			TaskID:      &taskRef,
			Delta:       ResolvePoints(outcome, task.Points),
			Kind:        EntryKindFor(outcome),
			Description: fmt.Sprintf("%s: %s", task.Title, outcome),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.First(&task, taskID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &task, &entry, nil
}

// Reopen returns a rejected task (wrong_execution or not_done) to
// pending for another attempt, bumping the attempt counter by exactly
// one and clearing the previous submission.
func (s *Service) Reopen(taskID uint) (*Models.TaskInstance, error) {
	var task Models.TaskInstance
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
			}
			return err
		}

		result := tx.Model(&Models.TaskInstance{}).
			Where("id = ? AND status IN ?", taskID,
				[]Models.TaskStatus{Models.StatusWrongExecution, Models.StatusNotDone}).
			Updates(map[string]interface{}{
				"status":          Models.StatusPending,
				"attempt":         gorm.Expr("attempt + 1"),
				"completion_note": "",
				"proof_path":      "",
				"completed_at":    nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("task %d is %s, only rejected tasks can be reopened: %w",
				taskID, task.Status, ErrInvalidState)
		}
		return tx.First(&task, taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}
