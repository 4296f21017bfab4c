package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/sam171002/Text-2-SQL/internal/api"
	"github.com/sam171002/Text-2-SQL/internal/auth"
	"github.com/sam171002/Text-2-SQL/internal/config"
	"github.com/sam171002/Text-2-SQL/internal/llm"
	"github.com/sam171002/Text-2-SQL/internal/observability"
	"github.com/sam171002/Text-2-SQL/internal/pipeline"
	"github.com/sam171002/Text-2-SQL/internal/query"
	"github.com/sam171002/Text-2-SQL/internal/schema"
	"github.com/sam171002/Text-2-SQL/internal/sqlgen"
	s3store "github.com/sam171002/Text-2-SQL/internal/storage/s3"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("text2sql-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	source, err := schemaSource(cfg)
	if err != nil {
		logger.Error("failed to configure schema source", slog.Any("error", err))
		os.Exit(1)
	}
	registry, err := schema.NewRegistry(source)
	if err != nil {
		logger.Error("failed to build schema registry", slog.Any("error", err))
		os.Exit(1)
	}

	model, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.Model.BaseURL,
		APIKey:      cfg.Model.APIKey,
		Model:       cfg.Model.Model,
		Temperature: cfg.Model.Temperature,
		Timeout:     cfg.Model.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize model client", slog.Any("error", err))
		os.Exit(1)
	}

	generator := &sqlgen.Generator{
		Model:    model,
		Rewriter: sqlgen.Rewriter{RowCap: cfg.Generation.RowCap},
		Prompt: sqlgen.PromptSpec{
			RowCap:  cfg.Generation.RowCap,
			Dialect: cfg.Generation.Dialect,
		},
		MaxAttempts: cfg.Generation.MaxAttempts,
		Logger:      logger,
	}

	dsn, err := cfg.Database.DSN()
	if err != nil {
		logger.Error("failed to build database dsn", slog.Any("error", err))
		os.Exit(1)
	}
	executor := &query.Executor{
		Driver:          cfg.Database.Driver,
		DSN:             dsn,
		MaxConnAttempts: cfg.Database.MaxConnAttempts,
		RetryDelay:      cfg.Database.ConnRetryDelay,
		Logger:          logger,
	}

	pipe, err := pipeline.New(registry, generator, executor, logger)
	if err != nil {
		logger.Error("failed to assemble pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	deps := api.Dependencies{
		Logger:   logger,
		Pipeline: pipe,
		Readiness: api.CombineReadinessChecks(
			api.CheckDatabaseConfig(cfg),
			api.CheckModelConfig(cfg),
		),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.APIKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

func schemaSource(cfg config.Config) (schema.Source, error) {
	switch cfg.Schema.Source {
	case "object":
		store, err := s3store.New(context.Background(), s3store.Config{
			Endpoint:        cfg.ObjectStore.Endpoint,
			Region:          cfg.ObjectStore.Region,
			Bucket:          cfg.ObjectStore.Bucket,
			AccessKeyID:     cfg.ObjectStore.AccessKeyID,
			SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
			UseSSL:          cfg.ObjectStore.UseSSL,
			Prefix:          cfg.ObjectStore.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return schema.ObjectSource{Store: store, Key: cfg.Schema.ObjectKey}, nil
	default:
		return schema.FileSource{Path: cfg.Schema.Path}, nil
	}
}
