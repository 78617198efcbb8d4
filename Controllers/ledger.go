package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Aegis/Models"
)

// LedgerController exposes read-only access to the point ledger.
type LedgerController struct {
	DB *gorm.DB
}

func NewLedgerController(db *gorm.DB) *LedgerController {
	return &LedgerController{DB: db}
}

// GetEntries lists ledger entries, newest first, optionally filtered by
// user. The ledger is append-only; there are no write endpoints.
func (c *LedgerController) GetEntries(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.LedgerEntry{})
	if userID := ctx.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var entries []Models.LedgerEntry
	if result := query.Order("created_at DESC").Find(&entries); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve ledger entries"})
	}
	return ctx.JSON(entries)
}

// GetBalance sums a user's full ledger; the sum over entries is the
// authoritative score, never a stored counter.
func (c *LedgerController) GetBalance(ctx *fiber.Ctx) error {
	userID := ctx.Params("id")

	var balance int64
	c.DB.Model(&Models.LedgerEntry{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").Scan(&balance)

	return ctx.JSON(fiber.Map{
		"user_id": userID,
		"balance": balance,
	})
}
