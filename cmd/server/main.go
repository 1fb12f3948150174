// Package main is the entry point for the ledger service.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"bancor/internal/config"
	"bancor/internal/events"
	"bancor/internal/events/kafka"
	"bancor/internal/repositories"
	"bancor/internal/repositories/cache"
	"bancor/internal/routes"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close database connection: %v", err)
			}
		}
	}()
	log.Println("Connected to database")

	// Redis account cache is optional; without it every account read goes
	// to the database.
	var accountCache *cache.AccountCache
	if host := config.GetEnv("REDIS_HOST", ""); host != "" {
		client := cache.NewRedisClient(&cache.RedisConfig{
			Host:     host,
			Port:     config.GetEnv("REDIS_PORT", "6379"),
			Password: config.GetEnv("REDIS_PASSWORD", ""),
			DB:       config.GetIntEnv("REDIS_DB", 0),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unreachable, running without account cache: %v", err)
		} else {
			ttl := time.Duration(config.GetIntEnv("CACHE_TTL_SECONDS", 300)) * time.Second
			accountCache = cache.NewAccountCache(client, ttl)
			log.Println("Connected to redis")
		}
		cancel()
		defer client.Close()
	}

	// Kafka event publisher is optional; without brokers events are dropped.
	var publisher events.Publisher = events.NoopPublisher{}
	if brokers := config.GetEnv("KAFKA_BROKERS", ""); brokers != "" {
		kafkaPublisher := kafka.NewPublisher(strings.Split(brokers, ","), config.GetEnv("KAFKA_TOPIC", "ledger-events"))
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Println("Kafka event publisher enabled")
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Idempotency-Key",
		AllowMethods: "GET,POST,HEAD",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/v1/transfers", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("TRANSFER_RATE_LIMIT", 60),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, db, accountCache, publisher)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
