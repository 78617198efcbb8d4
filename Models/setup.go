package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", dbPath, err)
	}
	DB = connection

	if err := Migrate(DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

// Migrate runs the schema migrations in dependency order.
func Migrate(db *gorm.DB) error {
	// 1. Models with no dependencies
	if err := db.AutoMigrate(&User{}); err != nil {
		return err
	}

	// 2. Models referencing users
	if err := db.AutoMigrate(&TaskTemplate{}); err != nil {
		return err
	}

	// 3. Models referencing templates and users
	if err := db.AutoMigrate(&TaskInstance{}, &LedgerEntry{}); err != nil {
		return err
	}

	return SetupTaskIndexes(db)
}

// SetupTaskIndexes creates the lookup index used by the generation duplicate
// check. Not unique: forced regeneration legitimately creates a second
// instance for the same template and day.
func SetupTaskIndexes(db *gorm.DB) error {
	return db.Exec("CREATE INDEX IF NOT EXISTS idx_task_template_assignee_day ON task_instances (template_id, assignee_id, due_day)").Error
}
