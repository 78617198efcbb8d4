package Recurrence

import (
	"log"
	"os"
	"sync"
	"time"
)

const DayFormat = "2006-01-02"

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location returns the single civil-calendar anchor for all date
// arithmetic, loaded from TIMEZONE (default Africa/Cairo). Every caller
// derives "today" from this anchor so that resolution never drifts with
// machine or client clocks.
func Location() *time.Location {
	locOnce.Do(func() {
		name := os.Getenv("TIMEZONE")
		if name == "" {
			name = "Africa/Cairo"
		}
		var err error
		loc, err = time.LoadLocation(name)
		if err != nil {
			log.Printf("Invalid TIMEZONE %q, falling back to UTC: %v", name, err)
			loc = time.UTC
		}
	})
	return loc
}

// Today returns midnight of the current civil day in the anchor timezone.
func Today() time.Time {
	return DayOf(time.Now())
}

// DayOf truncates t to midnight of its civil day in the anchor timezone.
func DayOf(t time.Time) time.Time {
	t = t.In(Location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location())
}

// DayKey renders t's civil day in the form stored on task instances.
func DayKey(t time.Time) string {
	return t.In(Location()).Format(DayFormat)
}

// EndOfDay returns the last second of t's civil day; generated tasks are
// due by end of day, so this becomes the instance's due timestamp.
func EndOfDay(t time.Time) time.Time {
	day := DayOf(t)
	return day.Add(24*time.Hour - time.Second)
}

// ParseDay parses a "2006-01-02" day in the anchor timezone.
func ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, day, Location())
}
