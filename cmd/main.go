package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"campusdesk/backend/internal/alerts"
	"campusdesk/backend/internal/api/handler"
	"campusdesk/backend/internal/lifecycle"
	"campusdesk/backend/internal/live"
	"campusdesk/backend/internal/mailer"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/router"
	"campusdesk/backend/internal/storage"
	"campusdesk/backend/internal/uploads"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=user password=password dbname=campusdesk port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     getenv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Complaint{},
		&models.AuditTrailEntry{},
		&models.TicketComment{},
		&models.Department{},
		&models.User{},
		&models.RateLimitConfig{},
		&models.BlockedIP{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting CampusDesk Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	baseURL := getenv("APP_BASE_URL", "http://localhost:8080")

	uploadStore, err := uploads.NewStore(baseURL)
	if err != nil {
		log.Fatalf("Failed to prepare upload storage: %v", err)
	}

	mail := mailer.NewClient()
	tg := alerts.NewTelegramAlerter()
	lc := lifecycle.NewService(s, mail, tg, baseURL)

	hub := live.NewHub(s)
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(lc, s, hub, uploadStore)
	router.RegisterRoutes(r, h, s, uploadStore.Dir)

	server := &http.Server{
		Addr:           ":" + getenv("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
