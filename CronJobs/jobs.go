package CronJobs

import (
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"Aegis/Models"
	"Aegis/Recurrence"
	"Aegis/Tasks"
)

// Generator runs the daily template expansion: every active template is
// resolved against today in the anchor timezone and generated without
// force, so reruns of the same day are harmless duplicate signals.
type Generator struct {
	cronScheduler  *cron.Cron
	db             *gorm.DB
	service        *Tasks.Service
	schedule       string
	runImmediately bool
	jobID          cron.EntryID
}

// NewGenerator creates a generation scheduler. schedule uses the
// six-field cron format; "0 0 6 * * *" runs daily at 6:00 AM.
func NewGenerator(db *gorm.DB, schedule string, runImmediately bool) *Generator {
	return &Generator{
		cronScheduler:  cron.New(cron.WithSeconds(), cron.WithLocation(Recurrence.Location())),
		db:             db,
		service:        Tasks.NewService(db),
		schedule:       schedule,
		runImmediately: runImmediately,
	}
}

// Start schedules the daily run.
func (g *Generator) Start() error {
	var err error
	g.jobID, err = g.cronScheduler.AddFunc(g.schedule, func() {
		log.Println("Running scheduled task generation")
		g.runGeneration()
	})
	if err != nil {
		return fmt.Errorf("error scheduling generation job: %w", err)
	}

	g.cronScheduler.Start()
	log.Printf("Task generation scheduler started with schedule %q", g.schedule)

	if g.runImmediately {
		log.Println("Running initial task generation")
		g.runGeneration()
	}
	return nil
}

// Stop terminates the scheduler.
func (g *Generator) Stop() {
	if g.cronScheduler != nil {
		g.cronScheduler.Stop()
		log.Println("Task generation scheduler stopped")
	}
}

// UpdateSchedule swaps the cron expression at runtime.
func (g *Generator) UpdateSchedule(schedule string) error {
	g.cronScheduler.Remove(g.jobID)

	var err error
	g.jobID, err = g.cronScheduler.AddFunc(schedule, func() {
		log.Println("Running scheduled task generation")
		g.runGeneration()
	})
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}
	g.schedule = schedule
	log.Printf("Task generation schedule updated to %q", schedule)
	return nil
}

// RunManualCheck triggers a generation run outside the schedule.
func (g *Generator) RunManualCheck() {
	log.Println("Running manual task generation")
	g.runGeneration()
}

// runGeneration expands every active template for today. A template
// whose recurrence cannot resolve is skipped and reported; it never
// aborts the rest of the run.
func (g *Generator) runGeneration() {
	var templates []Models.TaskTemplate
	if err := g.db.Where("is_active = ?", true).Find(&templates).Error; err != nil {
		log.Printf("Error fetching active templates: %v", err)
		return
	}

	today := Recurrence.Today()
	created, duplicates, skipped := 0, 0, 0
	for _, template := range templates {
		task, err := g.service.Generate(template.ID, today, false)
		switch {
		case err == nil:
			created++
			log.Printf("Generated task %d (%s) due %s", task.ID, task.Title, task.DueDay)
		case errors.Is(err, Tasks.ErrDuplicateGeneration):
			duplicates++
		case errors.Is(err, Recurrence.ErrConfiguration):
			skipped++
			log.Printf("Skipping template %d: %v", template.ID, err)
		default:
			skipped++
			log.Printf("Error generating from template %d: %v", template.ID, err)
		}
	}
	log.Printf("Generation run finished: %d created, %d already covered, %d skipped",
		created, duplicates, skipped)
}
