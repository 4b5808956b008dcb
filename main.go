package main

import (
	"context"
	"khatabook/config"
	"khatabook/database"
	"khatabook/realtime"
	"khatabook/routers"
	"khatabook/utils"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Share events across instances when Redis is configured
	if config.AppConfig.RedisURL != "" {
		relay, err := realtime.NewRedisRelay(ctx, config.AppConfig.RedisURL, config.AppConfig.RedisChannel)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		relay.Attach(ctx, realtime.Default)
		defer relay.Close()
	}

	scheduler, err := utils.InitializeReconcileScheduler()
	if err != nil {
		log.Fatalf("Failed to start reconcile scheduler: %v", err)
	}
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:   "khatabook",
		BodyLimit: 20 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.CorsOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	routers.SetupRoutes(app)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Fatal(err)
	}
}
