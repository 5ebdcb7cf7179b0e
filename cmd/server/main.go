package main

import (
	"log"
	"strings"
	"time"

	"invoice-analytics-backend/internal/config"
	"invoice-analytics-backend/internal/logger"
	"invoice-analytics-backend/internal/models"
	"invoice-analytics-backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg := config.Load()
	if err := logger.Setup(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}

	db := config.InitDB(cfg)

	if err := db.AutoMigrate(
		&models.Vendor{},
		&models.Customer{},
		&models.Invoice{},
		&models.LineItem{},
		&models.Payment{},
		&models.SeedRun{},
	); err != nil {
		logger.Fatal(err, "migration failed")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger())
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.FrontendURL, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, cfg)

	srvLog := logger.WithComponent("server")
	srvLog.Info().Str("port", cfg.Port).Msg("starting API server")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal(err, "server exited")
	}
}
