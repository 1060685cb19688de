package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/lifelink/blood-donation/request-service/internal/adapters/handler"
	"github.com/lifelink/blood-donation/request-service/internal/adapters/messaging"
	"github.com/lifelink/blood-donation/request-service/internal/adapters/middleware"
	"github.com/lifelink/blood-donation/request-service/internal/adapters/repository"
	"github.com/lifelink/blood-donation/request-service/internal/config"
	"github.com/lifelink/blood-donation/request-service/internal/core/services"
	"github.com/lifelink/blood-donation/request-service/internal/metrics"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open request database: %v", err)
	}
	defer db.Close()

	donorDB, err := sql.Open("postgres", cfg.DonorDatabaseURL)
	if err != nil {
		log.Fatalf("failed to open donor database: %v", err)
	}
	defer donorDB.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.NotificationQueue)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer broker.Close()

	m := metrics.New()

	requestRepo := repository.NewSQLRequestRepository(db)
	donorDirectory := repository.NewSQLDonorDirectory(donorDB)

	matcher := services.NewMatchingService(donorDirectory, m, cfg.DirectoryTimeout)
	dispatcher := services.NewNotificationDispatcher(broker, m, cfg.NotifyMaxInFlight, cfg.NotifySendTimeout)
	lifecycle := services.NewLifecycleService(requestRepo, donorDirectory, m, cfg.DirectoryTimeout)
	orchestrator := services.NewRequestOrchestrator(requestRepo, matcher, dispatcher, lifecycle, m)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, redisClient)
	requestHandler := handler.NewRequestHandler(orchestrator)
	healthHandler := handler.NewHealthHandler(db, donorDB, redisClient)

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)
	mux.Handle("/metrics", promhttp.Handler())

	// API endpoints
	mux.HandleFunc("POST /api/v1/requests", authMiddleware.RequireAuth(requestHandler.Create))
	mux.HandleFunc("GET /api/v1/requests", authMiddleware.RequireAuth(requestHandler.List))
	mux.HandleFunc("GET /api/v1/requests/completed", authMiddleware.RequireAuth(requestHandler.ListCompleted))
	mux.HandleFunc("GET /api/v1/requests/{id}", authMiddleware.RequireAuth(requestHandler.Get))
	mux.HandleFunc("PATCH /api/v1/requests/{id}/accept", authMiddleware.RequireAuth(requestHandler.Accept))
	mux.HandleFunc("PATCH /api/v1/requests/{id}/status", authMiddleware.RequireAuth(requestHandler.UpdateStatus))
	mux.HandleFunc("DELETE /api/v1/requests/{id}", authMiddleware.RequireAuth(requestHandler.Delete))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.CORSMiddleware(cfg.AllowedOrigins)(mux),
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Could not start server: %s\n", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.NotifySendTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// Drain in-flight notification fan-outs before the broker closes.
	dispatcher.Wait()
}
