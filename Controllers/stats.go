package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Aegis/Recurrence"
	"Aegis/Tasks"
)

// StatsController serves the per-user aggregate views. Everything here
// is recomputed per query from tasks and ledger entries.
type StatsController struct {
	DB      *gorm.DB
	Service *Tasks.Service
}

func NewStatsController(db *gorm.DB, service *Tasks.Service) *StatsController {
	return &StatsController{DB: db, Service: service}
}

// GetUserStats returns one user's window aggregate. window defaults to
// day; an explicit as_of day ("2006-01-02") pins the window for
// deterministic reads, otherwise today in the anchor timezone is used.
func (c *StatsController) GetUserStats(ctx *fiber.Ctx) error {
	userID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	window := Tasks.StatsWindow(ctx.Query("window", string(Tasks.WindowDay)))

	asOf := Recurrence.Today()
	if day := ctx.Query("as_of"); day != "" {
		parsed, err := Recurrence.ParseDay(day)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "as_of must be formatted as 2006-01-02"})
		}
		asOf = parsed
	}

	stats, err := c.Service.UserStats(uint(userID), window, asOf)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(stats)
}
