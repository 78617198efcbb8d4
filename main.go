package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"Aegis/CronJobs"
	"Aegis/FiberConfig"
	"Aegis/Models"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	Models.Connect()

	schedule := os.Getenv("GENERATION_SCHEDULE")
	if schedule == "" {
		schedule = "0 0 6 * * *"
	}
	generator := CronJobs.NewGenerator(Models.DB, schedule, true)
	if err := generator.Start(); err != nil {
		log.Fatalf("Failed to start generation scheduler: %v", err)
	}
	defer generator.Stop()

	FiberConfig.FiberConfig()
}
