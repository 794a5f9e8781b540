// Command remind runs one review reminder batch and exits. Intended for a
// daily cron entry alongside the login-triggered runs.
package main

import (
	"log"
	"os"

	"go-hradmin/internal/config"
	"go-hradmin/internal/mail"
	"go-hradmin/internal/repository"
	"go-hradmin/internal/service"
	"go-hradmin/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db := database.ConnectDB(cfg.Database)
	logger := log.New(os.Stdout, "", log.LstdFlags)

	reviewService := service.NewReviewService(
		repository.NewReviewRepo(db),
		repository.NewEmployeeRepo(db),
		mail.NewSMTPSender(cfg.SMTP),
		service.SystemClock(),
		cfg.Reviews.CCDepartmentID,
		logger,
	)

	if err := reviewService.SendReminder(); err != nil {
		log.Fatalf("Reminder run failed: %v", err)
	}
	log.Println("Reminder run complete")
}
