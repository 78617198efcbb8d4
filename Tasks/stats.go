package Tasks

import (
	"fmt"
	"time"

	"Aegis/Models"
	"Aegis/Recurrence"
)

// StatsWindow selects the aggregation span for user statistics.
type StatsWindow string

const (
	WindowDay   StatsWindow = "day"
	WindowWeek  StatsWindow = "week"
	WindowMonth StatsWindow = "month"
)

// UserStats is a read-side aggregate over tasks and ledger entries for
// one window. It is recomputed on every query; nothing here is stored.
//
// Reliability and Efficiency are nil when the window holds no audits or
// no potential points respectively: "no data" must not read as zero.
type UserStats struct {
	UserID uint      `json:"user_id"`
	Window string    `json:"window"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`

	RealizedPoints  int `json:"realized_points"`
	GainedPoints    int `json:"gained_points"`
	PenaltyPoints   int `json:"penalty_points"`
	PotentialPoints int `json:"potential_points"`

	TasksDue      int `json:"tasks_due"`
	TasksAudited  int `json:"tasks_audited"`
	TasksApproved int `json:"tasks_approved"`

	Reliability *float64 `json:"reliability"`
	Efficiency  *float64 `json:"efficiency"`
}

// UserStats aggregates one user's window ending on asOf's day: the day
// itself, the ISO week (Monday through Sunday) containing it, or its
// calendar month.
func (s *Service) UserStats(userID uint, window StatsWindow, asOf time.Time) (*UserStats, error) {
	from, to, err := windowBounds(window, asOf)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		UserID: userID,
		Window: string(window),
		From:   from,
		To:     to,
	}

	// Audits are counted off the ledger: one entry per audit, sign
	// matching the outcome, so the ledger alone answers reliability.
	var entries []Models.LedgerEntry
	if err := s.DB.Where("user_id = ? AND created_at >= ? AND created_at < ?",
		userID, from, to).Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, entry := range entries {
		stats.RealizedPoints += entry.Delta
		if entry.Kind == Models.EntryGain {
			stats.GainedPoints += entry.Delta
			stats.TasksApproved++
		} else {
			stats.PenaltyPoints += entry.Delta
		}
		stats.TasksAudited++
	}

	var tasks []Models.TaskInstance
	if err := s.DB.Where("assignee_id = ? AND due_day >= ? AND due_day < ?",
		userID, Recurrence.DayKey(from), Recurrence.DayKey(to)).Find(&tasks).Error; err != nil {
		return nil, err
	}
	for _, task := range tasks {
		stats.TasksDue++
		stats.PotentialPoints += task.Points
	}

	if stats.TasksAudited > 0 {
		reliability := float64(stats.TasksApproved) / float64(stats.TasksAudited)
		stats.Reliability = &reliability
	}
	if stats.PotentialPoints > 0 {
		efficiency := float64(stats.RealizedPoints) / float64(stats.PotentialPoints)
		stats.Efficiency = &efficiency
	}
	return stats, nil
}

// windowBounds returns the half-open [from, to) interval containing
// asOf's civil day.
func windowBounds(window StatsWindow, asOf time.Time) (time.Time, time.Time, error) {
	day := Recurrence.DayOf(asOf)
	switch window {
	case WindowDay:
		return day, day.AddDate(0, 0, 1), nil
	case WindowWeek:
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), nil
	case WindowMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, Recurrence.Location())
		return start, start.AddDate(0, 1, 0), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown stats window %q: %w", window, ErrValidation)
}
