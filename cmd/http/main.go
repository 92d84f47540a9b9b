package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bakepos/server/internal/config"
	"github.com/bakepos/server/internal/handler"
	"github.com/bakepos/server/internal/metrics"
	"github.com/bakepos/server/internal/repository"
	"github.com/bakepos/server/internal/service"
	"github.com/bakepos/server/internal/service/media"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Database
	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("Connected to database")

	// 3. Setup Logic
	store := repository.NewStore(dbPool)

	authService := service.NewAuthService(store, []byte(cfg.JWTSecret))
	catalogService := service.NewCatalogService(store)
	carts := service.NewCartManager()
	checkoutService := service.NewCheckoutService(store, carts)
	reportService := service.NewReportService(store)

	mediaClient := media.NewClient(media.Config{
		APIURL:    cfg.Media.APIURL,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
	})

	m := metrics.NewServerMetrics("http")
	h := handler.NewHandler(authService, catalogService, carts, checkoutService, reportService, mediaClient, m)

	// 4. Setup Server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: h,
	}

	// 5. Run Server with Graceful Shutdown
	go func() {
		fmt.Printf("Starting server on port %s\n", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down server...")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	fmt.Println("Server exiting")
}
