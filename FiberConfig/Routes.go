package FiberConfig

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"Aegis/Controllers"
	"Aegis/Models"
	"Aegis/Tasks"
	"Aegis/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	taskService := Tasks.NewService(db)
	templateController := Controllers.NewTemplateController(db, taskService)
	taskController := Controllers.NewTaskController(db, taskService)
	ledgerController := Controllers.NewLedgerController(db)
	statsController := Controllers.NewStatsController(db, taskService)

	// Session and user management
	app.Post("/api/Login", Controllers.Login)
	app.Post("/api/Logout", Controllers.Logout)
	app.Post("/api/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)
	app.Get("/api/FetchUsers", middleware.Verify(4), Controllers.FetchUsers)

	api := app.Group("/api")

	// Template routes (supervisors)
	templates := api.Group("/templates", middleware.Verify(3))
	templates.Get("/", templateController.GetTemplates)
	templates.Post("/", templateController.CreateTemplate)
	templates.Get("/:id", templateController.GetTemplate)
	templates.Put("/:id", templateController.UpdateTemplate)
	templates.Patch("/:id/toggle", templateController.ToggleTemplate)
	templates.Delete("/:id", templateController.DeleteTemplate)
	templates.Post("/:id/generate", templateController.GenerateTask)

	// Task workflow routes
	tasks := api.Group("/tasks", middleware.Verify(1))
	tasks.Get("/", taskController.GetTasks)
	tasks.Get("/:id", taskController.GetTask)
	tasks.Post("/:id/complete", taskController.CompleteTask)
	tasks.Post("/:id/reopen", taskController.ReopenTask)
	tasks.Post("/:id/audit", middleware.Verify(3), taskController.AuditTask)

	// Read-only collaborator surface
	api.Get("/ledger", middleware.Verify(1), ledgerController.GetEntries)
	api.Get("/ledger/balance/:id", middleware.Verify(1), ledgerController.GetBalance)
	api.Get("/stats/user/:id", middleware.Verify(1), statsController.GetUserStats)
}

func FiberConfig() {
	log.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB)

	// Serve stored completion proofs
	app.Static("/ProofUploads", "./ProofUploads", fiber.Static{Compress: true, CacheDuration: time.Second * 10})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
