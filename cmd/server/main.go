package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marksportal/internal/auth"
	"marksportal/internal/gateway"
	"marksportal/internal/marks"
	"marksportal/internal/shared"
	"marksportal/internal/store"
)

func main() {
	log.Println("INFO: Starting Marks Portal Service...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("INFO: No .env file found, using system environment variables")
	}

	cfg, err := shared.LoadServiceConfig("marks-portal")
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if err := shared.ValidateServiceConfig(cfg); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}

	// 1. Connect MongoDB and bootstrap the uniqueness indexes
	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: MongoDB connection failed: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	if err := shared.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("FATAL: Failed to ensure indexes: %v", err)
	}

	// 2. Wire Stores and Services
	users := store.NewMongoUsers(db)
	marksStore := store.NewMongoMarks(db)
	authSvc := auth.NewService(users, cfg.Security)
	marksSvc := marks.NewService(users, marksStore)

	// 3. Setup Routes and Middleware
	router := gateway.SetupRoutes(authSvc, marksSvc, cfg.CORS)

	// 4. Configure Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Marks Portal listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down Marks Portal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: HTTP server shutdown error: %v", err)
	}

	log.Println("INFO: Marks Portal stopped.")
}
