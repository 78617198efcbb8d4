package Recurrence

import (
	"errors"
	"fmt"
	"time"

	"Aegis/Models"
)

// ErrConfiguration marks recurrence parameters that cannot resolve to a
// valid date. Generation for such a template is skipped and reported,
// never silently defaulted.
var ErrConfiguration = errors.New("recurrence configuration cannot resolve to a date")

// NextDueDate computes the next due day for a template at or after asOf.
// asOf is passed explicitly (never read from the wall clock here) so the
// same inputs always resolve to the same date.
//
// Month days beyond the target month's length clamp to its last day
// (day 31 in April resolves to April 30).
func NextDueDate(template *Models.TaskTemplate, asOf time.Time) (time.Time, error) {
	asOf = DayOf(asOf)

	switch template.Recurrence {
	case Models.RecurrenceDaily:
		return asOf, nil

	case Models.RecurrenceWeekly:
		return nextWeeklyDate(template, asOf)

	case Models.RecurrenceMonthlyByDay:
		due, err := nextMonthlyDate(template, asOf)
		if err != nil {
			return time.Time{}, err
		}
		return applyWeekendSkip(due, template.SkipWeekends), nil

	case Models.RecurrenceNone, Models.RecurrenceSpecificDate:
		due, err := anchorDate(template)
		if err != nil {
			return time.Time{}, err
		}
		return applyWeekendSkip(due, template.SkipWeekends), nil
	}

	return time.Time{}, fmt.Errorf("template %d has unknown recurrence %q: %w",
		template.ID, template.Recurrence, ErrConfiguration)
}

// nextWeeklyDate scans up to 7 days forward from asOf for the first day
// in the template's weekday set. An empty set is a configuration error,
// never defaulted.
func nextWeeklyDate(template *Models.TaskTemplate, asOf time.Time) (time.Time, error) {
	days, err := template.WeekdaySet()
	if err != nil {
		return time.Time{}, fmt.Errorf("template %d has an unreadable weekday set: %w",
			template.ID, ErrConfiguration)
	}
	if len(days) == 0 {
		return time.Time{}, fmt.Errorf("template %d is weekly with an empty weekday set: %w",
			template.ID, ErrConfiguration)
	}

	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return time.Time{}, fmt.Errorf("template %d has weekday %d outside 0-6: %w",
				template.ID, int(d), ErrConfiguration)
		}
		set[d] = true
	}

	for offset := 0; offset < 7; offset++ {
		candidate := asOf.AddDate(0, 0, offset)
		if set[candidate.Weekday()] {
			return candidate, nil
		}
	}
	// Unreachable with a non-empty valid set.
	return time.Time{}, fmt.Errorf("template %d: no weekday matched within 7 days: %w",
		template.ID, ErrConfiguration)
}

// nextMonthlyDate picks the template's month-day in asOf's month when it
// has not yet passed, otherwise in the following month.
func nextMonthlyDate(template *Models.TaskTemplate, asOf time.Time) (time.Time, error) {
	if template.MonthDay < 1 || template.MonthDay > 31 {
		return time.Time{}, fmt.Errorf("template %d has month day %d outside 1-31: %w",
			template.ID, template.MonthDay, ErrConfiguration)
	}

	candidate := clampedMonthDate(asOf.Year(), asOf.Month(), template.MonthDay)
	if candidate.Before(asOf) {
		next := asOf.AddDate(0, 1, -asOf.Day()+1) // first of next month
		candidate = clampedMonthDate(next.Year(), next.Month(), template.MonthDay)
	}
	return candidate, nil
}

func anchorDate(template *Models.TaskTemplate) (time.Time, error) {
	anchor, err := time.ParseInLocation(DayFormat, template.StartDate, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("template %d has no usable anchor date %q: %w",
			template.ID, template.StartDate, ErrConfiguration)
	}
	return anchor, nil
}

// clampedMonthDate builds year-month-day, pulling day back to the month's
// last day when it overflows.
func clampedMonthDate(year int, month time.Month, day int) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, Location())
}

// applyWeekendSkip rolls a Saturday or Sunday due date forward to the
// next Monday.
func applyWeekendSkip(due time.Time, skip bool) time.Time {
	if !skip {
		return due
	}
	switch due.Weekday() {
	case time.Saturday:
		return due.AddDate(0, 0, 2)
	case time.Sunday:
		return due.AddDate(0, 0, 1)
	}
	return due
}
