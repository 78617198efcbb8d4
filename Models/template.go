package Models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecurrenceKind string

const (
	RecurrenceNone         RecurrenceKind = "none"
	RecurrenceDaily        RecurrenceKind = "daily"
	RecurrenceWeekly       RecurrenceKind = "weekly"
	RecurrenceMonthlyByDay RecurrenceKind = "monthly_by_day"
	RecurrenceSpecificDate RecurrenceKind = "specific_date"
)

// TaskTemplate is a recurring obligation definition. Generated task
// instances snapshot its fields, so later edits never rewrite history.
type TaskTemplate struct {
	gorm.Model
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	CreatedByID uint           `json:"created_by_id" gorm:"index"`
	AssigneeID  uint           `json:"assignee_id" gorm:"not null;index"`
	Points      int            `json:"points" gorm:"not null"`
	Priority    string         `json:"priority" gorm:"type:varchar(20);default:normal"`
	Recurrence  RecurrenceKind `json:"recurrence" gorm:"type:varchar(20);not null"`

	// Weekdays is a JSON array of weekday numbers (Sunday = 0), only
	// meaningful for weekly recurrence.
	Weekdays datatypes.JSON `json:"weekdays"`
	// MonthDay is the 1-31 day of month for monthly_by_day recurrence.
	MonthDay int `json:"month_day"`
	// StartDate is the anchor date ("2006-01-02") used verbatim by the
	// none and specific_date kinds.
	StartDate    string `json:"start_date"`
	SkipWeekends bool   `json:"skip_weekends"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	LastRunAt *time.Time `json:"last_run_at"`
}

// WeekdaySet decodes the stored weekday list.
func (t *TaskTemplate) WeekdaySet() ([]time.Weekday, error) {
	if len(t.Weekdays) == 0 {
		return nil, nil
	}
	var raw []int
	if err := json.Unmarshal(t.Weekdays, &raw); err != nil {
		return nil, err
	}
	days := make([]time.Weekday, 0, len(raw))
	for _, d := range raw {
		days = append(days, time.Weekday(d))
	}
	return days, nil
}

// SetWeekdays encodes the weekday list into the JSON column.
func (t *TaskTemplate) SetWeekdays(days []int) error {
	encoded, err := json.Marshal(days)
	if err != nil {
		return err
	}
	t.Weekdays = encoded
	return nil
}
