package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"knockknock/internal/api"
	"knockknock/internal/api/handlers"
	"knockknock/internal/api/middleware"
	"knockknock/internal/engine/ingest"
	"knockknock/internal/pkg/logger"
	"knockknock/internal/platform/config"
	"knockknock/internal/platform/database"
	"knockknock/internal/platform/mail"
	"knockknock/internal/platform/repositories"
	"knockknock/internal/platform/textgen"
)

func main() {
	// Local .env overrides, if present. Viper picks the values up from
	// the environment.
	godotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.Seed.Demo {
		if err := database.SeedDemoData(db); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepository(db)
	mappingRepo := repositories.NewAccountMappingRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	eventRepo := repositories.NewLeadEventRepository(db)
	outreachRepo := repositories.NewOutreachRepository(db)

	// Collaborators
	sender := mail.NewSender(cfg.Email)
	generator := textgen.NewGenerator(cfg.TextGen)

	// Pipeline
	resolver := ingest.NewResolver(tenantRepo, mappingRepo)
	composer := ingest.NewComposer(generator)
	service := ingest.NewService(leadRepo, eventRepo, outreachRepo, resolver, composer, sender)

	// Handlers
	webhookHandler := handlers.NewWebhookHandler(service)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(cfg.Webhook.APIKey)

	router := api.NewRouter(&api.Dependencies{
		WebhookHandler:   webhookHandler,
		HealthHandler:    healthHandler,
		APIKeyMiddleware: apiKeyMiddleware,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
