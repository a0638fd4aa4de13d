package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/syahz/apps-be/internal/config"
	"github.com/syahz/apps-be/internal/db"
	"github.com/syahz/apps-be/internal/handler"
	"github.com/syahz/apps-be/internal/router"
	"github.com/syahz/apps-be/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[BOOT] no .env file loaded: %v", err)
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if cfg.SuperRootUserName != "" && cfg.SuperRootPassword != "" {
		if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
			log.Fatalf("failed to ensure admin user: %v", err)
		}
	}

	translator := service.NewAITranslator(
		cfg.TranslatorAPIKey,
		cfg.TranslatorBaseURL,
		cfg.TranslatorModel,
		cfg.TranslatorTimeout,
	)

	api := handler.NewAPI(db.DB, translator, cfg.UploadDir, cfg.UploadURLPath)
	r := router.Setup(router.Options{
		API:           api,
		SessionSecret: cfg.SessionSecret,
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
	})

	log.Printf("[BOOT] listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
