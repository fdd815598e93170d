package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/rentrackgo/internal/ai"
	"github.com/xelth-com/rentrackgo/internal/classify"
	"github.com/xelth-com/rentrackgo/internal/config"
	"github.com/xelth-com/rentrackgo/internal/contracts"
	"github.com/xelth-com/rentrackgo/internal/correlate"
	"github.com/xelth-com/rentrackgo/internal/database"
	"github.com/xelth-com/rentrackgo/internal/handlers"
	"github.com/xelth-com/rentrackgo/internal/models"
	"github.com/xelth-com/rentrackgo/internal/repo"
	"github.com/xelth-com/rentrackgo/internal/services/pos"
	syncsvc "github.com/xelth-com/rentrackgo/internal/sync"
	"github.com/xelth-com/rentrackgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema (Critical for Zero-Config)
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},

		// Tracking side
		&models.TrackedItem{},
		&models.ScanEvent{},

		// POS catalog side
		&models.EquipmentDefinition{},

		// Engine output
		&models.CorrelationRecord{},
		&models.IdentifierTransition{},

		// Contract reconciliation
		&models.Contract{},
		&models.ContractLine{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Build engine services
	store := repo.NewStore(db)
	classifier := classify.NewClassifier(store, cfg.Engine.QuarantineCategories, cfg.Engine.BatchSize)
	matcher := correlate.NewMatcher(store, cfg.Engine.QuarantineCategories)
	reconciler := contracts.NewReconciler(db)
	coordinator := syncsvc.NewCoordinator(db, cfg.Sync)

	hub := websocket.NewHub()
	go hub.Run()

	// Optional Gemini triage for the correlation review queue
	var triage *ai.TriageService
	if cfg.AI.GeminiAPIKey != "" {
		triage, err = ai.NewTriageService(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			log.Printf("⚠️ AI triage disabled: %v", err)
			triage = nil
		} else {
			log.Println("✅ AI triage service ready")
			defer triage.Close()
		}
	}

	// 5. Start POS catalog feed (Background)
	feed := pos.NewFeedService(db, store, pos.Config{
		URL:          cfg.POS.URL,
		Database:     cfg.POS.Database,
		Username:     cfg.POS.Username,
		Password:     cfg.POS.Password,
		SyncInterval: cfg.POS.SyncInterval,
	}, cfg.Engine.QuarantineCategories)
	feed.Start()

	// 6. Set up HTTP router
	router := handlers.NewRouter(db, cfg, handlers.Deps{
		Store:       store,
		Classifier:  classifier,
		Matcher:     matcher,
		Reconciler:  reconciler,
		Coordinator: coordinator,
		Hub:         hub,
		Triage:      triage,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop POS feed
	feed.Stop()

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
