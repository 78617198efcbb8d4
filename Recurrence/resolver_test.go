package Recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Aegis/Models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, Location())
}

func weeklyTemplate(t *testing.T, days []int) *Models.TaskTemplate {
	t.Helper()
	template := &Models.TaskTemplate{Recurrence: Models.RecurrenceWeekly}
	require.NoError(t, template.SetWeekdays(days))
	return template
}

func TestNextDueDateDaily(t *testing.T) {
	template := &Models.TaskTemplate{Recurrence: Models.RecurrenceDaily}
	asOf := day(2025, time.March, 4)

	due, err := NextDueDate(template, asOf)
	require.NoError(t, err)
	assert.Equal(t, asOf, due)
}

func TestNextDueDateWeekly(t *testing.T) {
	// 2025-03-04 is a Tuesday; Mon/Wed/Fri should resolve to Wednesday the 5th.
	template := weeklyTemplate(t, []int{int(time.Monday), int(time.Wednesday), int(time.Friday)})

	due, err := NextDueDate(template, day(2025, time.March, 4))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.March, 5), due)
	assert.Equal(t, time.Wednesday, due.Weekday())
}

func TestNextDueDateWeeklySameDay(t *testing.T) {
	template := weeklyTemplate(t, []int{int(time.Tuesday)})

	due, err := NextDueDate(template, day(2025, time.March, 4))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.March, 4), due, "a matching as-of day resolves to itself")
}

func TestNextDueDateWeeklyWithinSevenDays(t *testing.T) {
	// Every day set and every starting weekday resolves within 7 days to
	// a day inside the set.
	sets := [][]int{
		{int(time.Sunday)},
		{int(time.Saturday)},
		{int(time.Monday), int(time.Thursday)},
		{0, 1, 2, 3, 4, 5, 6},
	}
	for _, set := range sets {
		template := weeklyTemplate(t, set)
		inSet := make(map[time.Weekday]bool)
		for _, d := range set {
			inSet[time.Weekday(d)] = true
		}
		for offset := 0; offset < 7; offset++ {
			asOf := day(2025, time.June, 1).AddDate(0, 0, offset)
			due, err := NextDueDate(template, asOf)
			require.NoError(t, err)
			assert.True(t, inSet[due.Weekday()], "resolved weekday must be in the set")
			assert.False(t, due.Before(asOf))
			assert.Less(t, int(due.Sub(asOf).Hours()), 7*24)
		}
	}
}

func TestNextDueDateWeeklyEmptySet(t *testing.T) {
	template := weeklyTemplate(t, []int{})

	_, err := NextDueDate(template, day(2025, time.March, 4))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration), "empty day set must be a configuration error, never defaulted")
}

func TestNextDueDateWeeklyInvalidWeekday(t *testing.T) {
	template := weeklyTemplate(t, []int{9})

	_, err := NextDueDate(template, day(2025, time.March, 4))
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestNextDueDateMonthlyNotYetPassed(t *testing.T) {
	template := &Models.TaskTemplate{Recurrence: Models.RecurrenceMonthlyByDay, MonthDay: 15}

	due, err := NextDueDate(template, day(2025, time.March, 4))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.March, 15), due)
}

func TestNextDueDateMonthlyPassed(t *testing.T) {
	template := &Models.TaskTemplate{Recurrence: Models.RecurrenceMonthlyByDay, MonthDay: 2}

	due, err := NextDueDate(template, day(2025, time.March, 4))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.April, 2), due)
}

func TestNextDueDateMonthlySameDay(t *testing.T) {
	template := &Models.TaskTemplate{Recurrence: Models.RecurrenceMonthlyByDay, MonthDay: 4}

	due, err := NextDueDate(template, day(2025, time.March, 4))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.March, 4), due)
}

func TestNextDueDateMonthlyClampsShortMonth(t *testing.T) {
	template := &Models.TaskTemplate{Recurrence: Models.RecurrenceMonthlyByDay, MonthDay: 31}

	// April has 30 days; day 31 clamps to the 30th.
	due, err := NextDueDate(template, day(2025, time.April, 10))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.April, 30), due)

	// February 2025 clamps to the 28th.
	due, err = NextDueDate(template, day(2025, time.February, 1))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.February, 28), due)
}

func TestNextDueDateMonthlyInvalidDay(t *testing.T) {
	for _, monthDay := range []int{0, 32, -1} {
		template := &Models.TaskTemplate{Recurrence: Models.RecurrenceMonthlyByDay, MonthDay: monthDay}
		_, err := NextDueDate(template, day(2025, time.March, 4))
		assert.True(t, errors.Is(err, ErrConfiguration), "month day %d", monthDay)
	}
}

func TestNextDueDateSpecificDate(t *testing.T) {
	template := &Models.TaskTemplate{Recurrence: Models.RecurrenceSpecificDate, StartDate: "2025-07-09"}

	due, err := NextDueDate(template, day(2025, time.March, 4))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.July, 9), due, "anchor date is used verbatim")
}

func TestNextDueDateNoneMissingAnchor(t *testing.T) {
	template := &Models.TaskTemplate{Recurrence: Models.RecurrenceNone}

	_, err := NextDueDate(template, day(2025, time.March, 4))
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestWeekendSkip(t *testing.T) {
	// 2025-07-05 is a Saturday, 2025-07-06 a Sunday.
	saturday := &Models.TaskTemplate{Recurrence: Models.RecurrenceSpecificDate, StartDate: "2025-07-05", SkipWeekends: true}
	sunday := &Models.TaskTemplate{Recurrence: Models.RecurrenceSpecificDate, StartDate: "2025-07-06", SkipWeekends: true}

	due, err := NextDueDate(saturday, day(2025, time.July, 1))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.July, 7), due)
	assert.Equal(t, time.Monday, due.Weekday())

	due, err = NextDueDate(sunday, day(2025, time.July, 1))
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.July, 7), due)
}

func TestWeekendSkipNeverResolvesToWeekend(t *testing.T) {
	// Monthly templates with skip enabled never land on Saturday or
	// Sunday for any month day and any as-of day of a month.
	for monthDay := 1; monthDay <= 31; monthDay++ {
		template := &Models.TaskTemplate{
			Recurrence:   Models.RecurrenceMonthlyByDay,
			MonthDay:     monthDay,
			SkipWeekends: true,
		}
		for asOfDay := 1; asOfDay <= 28; asOfDay++ {
			due, err := NextDueDate(template, day(2025, time.May, asOfDay))
			require.NoError(t, err)
			assert.NotEqual(t, time.Saturday, due.Weekday())
			assert.NotEqual(t, time.Sunday, due.Weekday())
		}
	}
}

func TestWeekendSkipDisabled(t *testing.T) {
	template := &Models.TaskTemplate{Recurrence: Models.RecurrenceSpecificDate, StartDate: "2025-07-05"}

	due, err := NextDueDate(template, day(2025, time.July, 1))
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, due.Weekday())
}

func TestDayHelpers(t *testing.T) {
	noon := time.Date(2025, time.March, 4, 12, 30, 0, 0, Location())

	assert.Equal(t, day(2025, time.March, 4), DayOf(noon))
	assert.Equal(t, "2025-03-04", DayKey(noon))

	end := EndOfDay(noon)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, "2025-03-04", DayKey(end))

	parsed, err := ParseDay("2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.March, 4), parsed)

	_, err = ParseDay("04/03/2025")
	assert.Error(t, err)
}
