package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-recruitment-tracker/config"
	_ "go-recruitment-tracker/docs" // Important for Swagger
	v1 "go-recruitment-tracker/internal/delivery/http/v1"
	"go-recruitment-tracker/internal/repository/postgres"
	"go-recruitment-tracker/internal/usecase"
	"go-recruitment-tracker/pkg/auth"
	"go-recruitment-tracker/pkg/database"
	"go-recruitment-tracker/pkg/logger"
	"go-recruitment-tracker/pkg/redis"
	"go-recruitment-tracker/pkg/storage"
	"go-recruitment-tracker/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           Recruitment Tracker API
// @version         1.0
// @description     Candidate tracking API with transactional aggregate creation, append-only audit history and bulk import.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting recruitment tracker", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiting; falls back to in-memory when absent)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	}
	defer redis.Close()

	// 5. Setup Resume Storage
	resumeStore, err := storage.NewResumeStore(context.Background(), storage.Config{
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
	})
	if err != nil {
		logger.Log.Error("Failed to initialize resume storage", "error", err)
		os.Exit(1)
	}
	if !resumeStore.IsConfigured() {
		logger.Log.Warn("Resume storage not fully configured - resume uploads will be unavailable")
	}

	// 6. Setup Repositories
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	skillRepo := postgres.NewSkillRepository(dbPool)
	applicationRepo := postgres.NewJobApplicationRepository(dbPool)
	interviewRepo := postgres.NewInterviewStageRepository(dbPool)
	historyRepo := postgres.NewHistoryRepository(dbPool)

	// 7. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, skillRepo, applicationRepo, interviewRepo, validate)
	bulkUC := usecase.NewBulkUsecase(candidateUC)
	historyUC := usecase.NewHistoryUsecase(historyRepo)

	// 8. Setup Auth Provider (JWKS, optional for RS256 tokens)
	var jwksProvider *auth.Provider
	if cfg.JWKSUrl != "" {
		jwksProvider = auth.NewProvider(cfg.JWKSUrl)
	}

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC:  candidateUC,
		BulkUC:       bulkUC,
		HistoryUC:    historyUC,
		ResumeStore:  resumeStore,
		JWKSProvider: jwksProvider,
		Config:       cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
