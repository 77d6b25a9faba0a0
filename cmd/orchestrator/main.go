// Command orchestrator runs the natural-language-to-SQL query service:
// it wires configuration, the database pool, the schema extractor and
// index, the LLM engine, the SQL firewall, the rate/timeout limiter, the
// executor, and the audit recorder into the HTTP gateway.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"

	"github.com/sqlpilot/orchestrator/pkg/api"
	"github.com/sqlpilot/orchestrator/pkg/audit"
	"github.com/sqlpilot/orchestrator/pkg/catalog"
	"github.com/sqlpilot/orchestrator/pkg/config"
	"github.com/sqlpilot/orchestrator/pkg/database"
	"github.com/sqlpilot/orchestrator/pkg/firewall"
	"github.com/sqlpilot/orchestrator/pkg/limiter"
	"github.com/sqlpilot/orchestrator/pkg/llmengine"
	"github.com/sqlpilot/orchestrator/pkg/pipeline"
	"github.com/sqlpilot/orchestrator/pkg/queryexec"
	"github.com/sqlpilot/orchestrator/pkg/retriever"
	"github.com/sqlpilot/orchestrator/pkg/schemaindex"
	"github.com/sqlpilot/orchestrator/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "./config.yaml"), "path to config.yaml")
	envPath := flag.String("env-file", getEnv("ENV_FILE", "./.env"), "path to .env file")
	flag.Parse()

	log.Printf("starting %s", version.Full())

	if err := godotenv.Load(*envPath); err != nil {
		log.Printf("warning: could not load %s: %v (continuing with existing environment)", *envPath, err)
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, database.Config{
		URL:             settings.Database.URL,
		MaxConns:        settings.Database.MaxConns,
		MinConns:        settings.Database.MinConns,
		MaxConnLifetime: settings.Database.MaxConnLifetime,
		MaxConnIdleTime: settings.Database.MaxConnIdleTime,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()
	slog.Info("connected to PostgreSQL")

	if err := runMigrations(settings.Database.URL); err != nil {
		log.Fatalf("failed to run audit schema migrations: %v", err)
	}
	slog.Info("audit schema migrations applied")

	engine := llmengine.New(llmengine.Config{
		APIKey:              settings.LLM.APIKey,
		BaseURL:             settings.LLM.Endpoint,
		ChatModel:           settings.LLM.ChatModel,
		EmbeddingModel:      settings.LLM.EmbeddingModel,
		EmbeddingDimensions: settings.LLM.EmbeddingDimensions,
	})

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host: settings.Qdrant.Host,
		Port: settings.Qdrant.Port,
	})
	if err != nil {
		log.Fatalf("failed to connect to Qdrant at %s:%d: %v", settings.Qdrant.Host, settings.Qdrant.Port, err)
	}
	slog.Info("connected to Qdrant", "collection", settings.Qdrant.Collection, "storage_dir", settings.Qdrant.StorageDir)

	index := schemaindex.New(qdrantClient, engine, settings.Qdrant.Collection)
	if err := index.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure schema collection: %v", err)
	}

	extractor := catalog.NewExtractor(pool)

	if count, err := index.Count(ctx); err != nil {
		log.Fatalf("failed to check schema index: %v", err)
	} else if count == 0 {
		slog.Info("schema index empty, extracting catalog")
		if err := reindexSchema(ctx, extractor, index); err != nil {
			log.Fatalf("failed initial schema index build: %v", err)
		}
	}

	retr := retriever.New(index, retriever.DefaultTopK)
	rateLimiter := limiter.New(settings.RateLimit.PerMinute, settings.SQL.Timeout)
	executor := queryexec.New(pool)
	recorder := audit.New(pool)

	pl := pipeline.New(rateLimiter, retr, engine, firewall.Validate, executor, recorder, settings.SQL.MaxRows)

	server := api.NewServer(pool, index, extractor, pl)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", addr)
		if err := server.Start(addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatalf("HTTP server failed: %v", err)
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// runMigrations applies the audit schema using a plain database/sql
// connection opened through the pgx stdlib driver, since golang-migrate
// drives migrations over database/sql rather than a pgxpool.
func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	return audit.Migrate(db, "orchestrator")
}

// reindexSchema performs the same extract-reset-upsert sequence as the
// administrative POST /schema/reindex endpoint, run once at startup if
// the index is empty.
func reindexSchema(ctx context.Context, extractor *catalog.Extractor, index *schemaindex.Index) error {
	tables, err := extractor.Extract(ctx, "public")
	if err != nil {
		return err
	}
	if err := index.Reset(ctx); err != nil {
		return err
	}
	docs := catalog.FormatForEmbedding(tables)
	return index.Upsert(ctx, docs)
}
