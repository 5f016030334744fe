// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/policysync/ai"
	"github.com/poiesic/policysync/ai/openai"
	"github.com/poiesic/policysync/ingestion"
	"github.com/poiesic/policysync/resync"
	"github.com/poiesic/policysync/storage"
	"github.com/poiesic/policysync/storage/gormdb"
	"github.com/poiesic/policysync/vectorindex/qdrant"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:  "policysync",
		Usage: "Ingest insurance policy spreadsheets into a relational store and vector index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest one or more CSV exports",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent ingest workers (0 = half the CPUs)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "resync",
				Usage:  "Replay the vector sync for records missing a vector id",
				Action: resyncCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to fetch per page",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// storeFlags are shared by every command that touches the stores.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to a SQLite database file",
		},
		&cli.StringFlag{
			Name:  "postgres-dsn",
			Usage: "PostgreSQL DSN (takes precedence over --db)",
		},
		&cli.StringFlag{
			Name:  "qdrant-host",
			Usage: "Qdrant host",
			Value: "localhost",
		},
		&cli.IntFlag{
			Name:  "qdrant-port",
			Usage: "Qdrant gRPC port",
			Value: 6334,
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Qdrant collection name",
			Value: "insurance_policies",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:     "embedding-model",
			Usage:    "Embedding model name",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "API token for hosted embedding services",
			EnvVars: []string{"POLICYSYNC_API_TOKEN"},
		},
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one CSV file is required")
	}

	repo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	embedder, err := openEmbedder(c)
	if err != nil {
		return err
	}

	index, err := qdrant.NewIndex(c.String("qdrant-host"), c.Int("qdrant-port"), c.String("collection"))
	if err != nil {
		return fmt.Errorf("failed to connect to vector index: %w", err)
	}
	defer index.Close()

	sheets := make([]ingestion.Sheet, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		sheet, err := LoadCSV(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		sheets = append(sheets, sheet)
	}

	opts := []ingestion.Option{
		ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, ingestion.WithPoolSize(workers))
	}

	pipeline, err := ingestion.NewPipeline(repo, embedder, index, opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	summary, runErr := pipeline.Run(ctx, sheets)
	if summary != nil {
		encoded, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		fmt.Println(string(encoded))
	}
	if runErr != nil {
		return fmt.Errorf("ingestion failed: %w", runErr)
	}
	return nil
}

func resyncCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := openRepository(c)
	if err != nil {
		return err
	}
	defer repo.Close()

	embedder, err := openEmbedder(c)
	if err != nil {
		return err
	}

	index, err := qdrant.NewIndex(c.String("qdrant-host"), c.Int("qdrant-port"), c.String("collection"))
	if err != nil {
		return fmt.Errorf("failed to connect to vector index: %w", err)
	}
	defer index.Close()

	config := &resync.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	sweeper, err := resync.NewSweeper(repo, embedder, index, config, os.Stderr, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sweeper: %w", err)
	}

	if err := sweeper.Run(ctx); err != nil {
		return fmt.Errorf("resync failed: %w", err)
	}
	return nil
}

// openRepository opens the relational store selected by the flags:
// PostgreSQL when a DSN is given, SQLite otherwise.
func openRepository(c *cli.Context) (storage.PolicyRepository, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch {
	case c.String("postgres-dsn") != "":
		db, err = gormdb.OpenPostgres(c.String("postgres-dsn"))
	case c.String("db") != "":
		db, err = gormdb.OpenSQLite(c.String("db"))
	default:
		return nil, fmt.Errorf("either --db or --postgres-dsn is required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo, err := gormdb.NewPolicyRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	return repo, nil
}

func openEmbedder(c *cli.Context) (ai.Embedder, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIToken(c.String("api-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
