package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/uigenlabs/uigen-backend/internal/api"
	generationapi "github.com/uigenlabs/uigen-backend/internal/api/generation"
	"github.com/uigenlabs/uigen-backend/internal/cache"
	"github.com/uigenlabs/uigen-backend/internal/config"
	"github.com/uigenlabs/uigen-backend/internal/integration/callback"
	"github.com/uigenlabs/uigen-backend/internal/integration/openai"
	"github.com/uigenlabs/uigen-backend/internal/pkg/validator"
	"github.com/uigenlabs/uigen-backend/internal/repository"
	"github.com/uigenlabs/uigen-backend/internal/usecase/generation"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	generationRepo := repository.NewGenerationPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize connectors
	callbackConnector := callback.NewConnector(cfg.CallbackCfg, logger)

	var aiConnector generation.AIConnector
	if cfg.EnableMocks {
		logger.Info("Using mock AI connector")
		aiConnector = openai.NewMockConnector(logger)
	} else {
		logger.Info("Using OpenAI connector",
			zap.String("base_url", cfg.OpenAICfg.BaseURL),
			zap.String("model", cfg.OpenAICfg.Model),
		)
		aiConnector = openai.NewConnector(cfg.OpenAICfg, logger)
	}

	// Initialize snippet cache and validator
	snippetCache := cache.NewSnippetCache(cfg.CacheCfg)
	generationValidator := validator.NewValidator(cfg.GenerationCfg)

	// Initialize use case
	generationUC := generation.NewUsecase(
		generationRepo,
		snippetCache,
		aiConnector,
		generationValidator,
		cfg.OpenAICfg,
		logger,
	)
	logger.Info("Use case initialized")

	// Setup API handler and router
	generationHandler := generationapi.NewHandler(generationUC, callbackConnector)
	router := api.SetupRouter(generationHandler, cfg.RateLimitCfg, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
