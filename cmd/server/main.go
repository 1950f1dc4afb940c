package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/example/seidik/internal/config"
	"github.com/example/seidik/internal/database"
	"github.com/example/seidik/internal/routes"
	"github.com/example/seidik/internal/services"
	"github.com/example/seidik/internal/utils"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg.DatabaseURL)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	blacklist := services.NewRedisBlacklist(redisClient)

	app := fiber.New(fiber.Config{
		AppName:      "Seidik Backend",
		ErrorHandler: utils.ErrorHandler,
		BodyLimit:    32 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, blacklist)

	log.Printf("starting server on port %s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
