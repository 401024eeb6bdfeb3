package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/darthvader-ux740/speakconfident/internal/ai"
	"github.com/darthvader-ux740/speakconfident/internal/api"
	"github.com/darthvader-ux740/speakconfident/internal/config"
	"github.com/darthvader-ux740/speakconfident/internal/db"
	"github.com/darthvader-ux740/speakconfident/internal/repository"
	"github.com/darthvader-ux740/speakconfident/internal/stt"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// History storage is optional: without DATABASE_URL the service still
	// analyzes, it just doesn't persist results.
	var repo repository.AnalysisRepository
	if cfg.DatabaseURL != "" {
		log.Printf("Initializing database connection...")
		if err := db.Init(cfg.DatabaseURL); err != nil {
			log.Printf("Warning: failed to initialize database: %v. Continuing without history storage.", err)
		} else {
			repo = repository.NewPostgresRepository(db.DB)
			log.Println("Database and repository initialized successfully")
		}
	} else {
		log.Println("DATABASE_URL not set, running without history storage")
	}

	transcriber, err := stt.CreateProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create STT provider: %v", err)
	}
	log.Printf("STT provider initialized: %s", transcriber.Name())

	evaluator := ai.NewClient(cfg.OpenAIKey, cfg.OpenAIModel)

	r := gin.Default()
	r.Use(api.CORSMiddleware(cfg))

	api.NewHandler(cfg, transcriber, evaluator, repo).RegisterRoutes(r)

	log.Printf("speakconfident backend running on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
