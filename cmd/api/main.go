package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-hradmin/internal/config"
	"go-hradmin/internal/handler"
	"go-hradmin/internal/mail"
	"go-hradmin/internal/middleware"
	"go-hradmin/internal/model"
	"go-hradmin/internal/repository"
	"go-hradmin/internal/service"
	"go-hradmin/internal/ws"
	"go-hradmin/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
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
	if cfg.JWT.Secret != "" {
		os.Setenv("JWT_SECRET", cfg.JWT.Secret)
	}

	db := database.ConnectDB(cfg.Database)
	if err := db.AutoMigrate(
		&model.Department{},
		&model.Employee{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Review{},
		&model.ReviewReminderLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	hub := ws.NewHub()
	go hub.Run()

	sender := mail.NewSMTPSender(cfg.SMTP)

	employeeRepo := repository.NewEmployeeRepo(db)
	departmentRepo := repository.NewDepartmentRepo(db)
	poRepo := repository.NewPurchaseOrderRepo(db)
	reviewRepo := repository.NewReviewRepo(db)

	poService := service.NewPurchaseOrderService(poRepo, departmentRepo, sender, hub, logger)
	reviewService := service.NewReviewService(
		reviewRepo, employeeRepo, sender, service.SystemClock(), cfg.Reviews.CCDepartmentID, logger)

	worker := service.NewReminderWorker(reviewService, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)

	authService := service.NewAuthService(employeeRepo, worker)

	authHandler := handler.NewAuthHandler(authService)
	poHandler := handler.NewPurchaseOrderHandler(poService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	app := fiber.New(fiber.Config{AppName: "go-hradmin"})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")
	api.Post("/auth/login", authHandler.Login)

	supervisorRoles := []string{model.RoleRegularSupervisor, model.RoleHRSupervisor, model.RoleCEO}

	po := api.Group("/purchase-orders", middleware.RequireAuth())
	po.Post("/", poHandler.Create)
	po.Get("/search", poHandler.Search)
	po.Get("/supervisor", middleware.RequireRole(supervisorRoles...), poHandler.SearchSupervisor)
	po.Get("/department", middleware.RequireRole(supervisorRoles...), poHandler.SearchDepartment)
	po.Post("/supervisor/item-decision", middleware.RequireRole(supervisorRoles...), poHandler.ItemDecision)
	po.Post("/supervisor/close", middleware.RequireRole(supervisorRoles...), poHandler.Close)
	po.Put("/:poNumber", poHandler.Update)
	po.Get("/:poNumber", poHandler.GetDetails)

	reviews := api.Group("/reviews", middleware.RequireAuth())
	reviews.Post("/", middleware.RequireRole(supervisorRoles...), reviewHandler.Create)
	reviews.Get("/pending", middleware.RequireRole(supervisorRoles...), reviewHandler.GetPending)
	reviews.Get("/employee", reviewHandler.GetEmployeeReviews)
	reviews.Put("/:id/read", reviewHandler.MarkAsRead)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() {
			hub.Unregister <- c
		}()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server listening on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
