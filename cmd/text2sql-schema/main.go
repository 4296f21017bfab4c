// Command text2sql-schema extracts the live database schema and writes
// the artifact the API server prompts with, either to a local file or
// to the configured object store.
package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/sam171002/Text-2-SQL/internal/config"
	"github.com/sam171002/Text-2-SQL/internal/observability"
	"github.com/sam171002/Text-2-SQL/internal/schema"
	"github.com/sam171002/Text-2-SQL/internal/storage"
	s3store "github.com/sam171002/Text-2-SQL/internal/storage/s3"
)

func main() {
	_ = godotenv.Load()

	output := flag.String("output", "", "Write the artifact to this file instead of the configured target")
	upload := flag.Bool("upload", false, "Upload the artifact to the object store")
	createBucket := flag.Bool("create-bucket", false, "Create the bucket if it does not exist")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout for extraction")
	flag.Parse()

	cfg, err := config.LoadFromEnv("text2sql-schema")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, logger, *output, *upload, *createBucket); err != nil {
		logger.Error("schema extraction failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, output string, upload, createBucket bool) error {
	dsn, err := cfg.Database.DSN()
	if err != nil {
		return fmt.Errorf("build database dsn: %w", err)
	}
	db, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	desc, err := schema.Extract(ctx, db)
	if err != nil {
		return err
	}
	logger.Info("schema extracted", slog.Int("tables", len(desc.Tables())))

	payload, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	if upload {
		store, err := s3store.New(ctx, s3store.Config{
			Endpoint:         cfg.ObjectStore.Endpoint,
			Region:           cfg.ObjectStore.Region,
			Bucket:           cfg.ObjectStore.Bucket,
			AccessKeyID:      cfg.ObjectStore.AccessKeyID,
			SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
			UseSSL:           cfg.ObjectStore.UseSSL,
			Prefix:           cfg.ObjectStore.Prefix,
			AutoCreateBucket: createBucket,
		})
		if err != nil {
			return fmt.Errorf("initialize object store: %w", err)
		}
		info, err := store.Put(ctx, cfg.Schema.ObjectKey, bytes.NewReader(payload), int64(len(payload)), storage.PutOptions{ContentType: "application/json"})
		if err != nil {
			return fmt.Errorf("upload artifact: %w", err)
		}
		logger.Info("artifact uploaded", slog.String("key", info.Key), slog.Int64("size", info.Size))
		return nil
	}

	path := output
	if path == "" {
		path = cfg.Schema.Path
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	logger.Info("artifact written", slog.String("path", path), slog.Int("size", len(payload)))
	return nil
}
