// Copyright 2026 Draycott Labs
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	ingestkit "github.com/draycott/ingestkit"
	"github.com/draycott/ingestkit/ai"
	"github.com/draycott/ingestkit/ai/openai"
	"github.com/draycott/ingestkit/config"
	"github.com/draycott/ingestkit/core"
	"github.com/draycott/ingestkit/ingestion"
	"github.com/draycott/ingestkit/parsers"
	"github.com/draycott/ingestkit/reembed"
	"github.com/draycott/ingestkit/search"
	"github.com/draycott/ingestkit/server"
	"github.com/draycott/ingestkit/splitters"
	"github.com/draycott/ingestkit/storage"
	"github.com/draycott/ingestkit/storage/badger"
	"github.com/draycott/ingestkit/storage/memory"
	"github.com/draycott/ingestkit/storage/pgvector"
)

func main() {
	app := &cli.App{
		Name:  "ingestkit",
		Usage: "Document ingestion pipeline for vector stores",
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
				Usage:     "Ingest a document file into the vector store",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
					},
					&cli.StringFlag{
						Name:    "namespace",
						Aliases: []string{"n"},
						Usage:   "Namespace to tag chunks with (overrides config)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks per store write (overrides config)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search stored chunks by similarity to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
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
						Name:    "namespace",
						Aliases: []string{"n"},
						Usage:   "Restrict search to one namespace",
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results",
						Value: 5,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Re-embed all stored chunks with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
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
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
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
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the ingestion HTTP server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides config)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if ns := c.String("namespace"); ns != "" {
		cfg.Namespace = ns
	}
	if size := c.Int("batch-size"); size > 0 {
		cfg.BatchSize = size
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		messages := make([]string, len(errs))
		for i, e := range errs {
			messages[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
	}

	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.VectorStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return memory.NewStore(), nil
	case "badger":
		return badger.NewStore(cfg.Store.BadgerPath)
	case "pgvector":
		embedder, err := openai.NewEmbedder(ai.NewConfig(
			ai.WithHost(cfg.Embedding.Host),
			ai.WithModel(cfg.Embedding.Model),
		))
		if err != nil {
			return nil, err
		}
		return pgvector.NewStore(ctx, pgvector.Config{
			ConnString: cfg.Store.PostgresURL,
			TableName:  cfg.Store.TableName,
			VectorDim:  cfg.Store.VectorDim,
		}, embedder)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	blob := core.NewBlob(data, path, core.DetectContentType(data))
	splitter := splitters.NewRecursiveCharacter(cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap)

	ids, err := ingestion.IngestBlob(ctx, blob, parsers.NewDefaultRegistry(), splitter, store, cfg.Namespace, cfg.BatchSize)
	if err != nil {
		return err
	}

	fmt.Printf("ingested %s: %d chunks in namespace %q\n", path, len(ids), cfg.Namespace)
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query argument")
	}
	query := c.Args().First()

	store, err := badger.NewStore(c.String("db"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	source, ok := store.(storage.EntrySource)
	if !ok {
		return fmt.Errorf("store backend does not support scanning")
	}

	embedder, err := openai.NewEmbedder(ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	))
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	var opts []search.Option
	if ns := c.String("namespace"); ns != "" {
		opts = append(opts, search.WithNamespace(ns))
	}
	searcher, err := search.NewSearcher(source, embedder, opts...)
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilar(context.Background(), query, c.Int("max-hits"))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for _, result := range results {
		fmt.Printf("[%.3f] %s: %s\n", result.Score,
			result.Entry.Document.Namespace(), result.Entry.Document.PageContent)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	store, err := badger.NewStore(c.String("db"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	chunkStore, ok := store.(reembed.ChunkStore)
	if !ok {
		return fmt.Errorf("store backend does not support re-embedding")
	}

	embedder, err := openai.NewEmbedder(ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	))
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	r := reembed.NewReembedder(chunkStore, embedder, &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}, os.Stderr)

	return r.Run(context.Background())
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	uploader, err := ingestkit.NewUploader(store,
		ingestkit.WithNamespace(cfg.Namespace),
		ingestkit.WithBatchSize(cfg.BatchSize),
		ingestkit.WithSplitter(splitters.NewRecursiveCharacter(cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap)),
	)
	if err != nil {
		return err
	}
	defer uploader.Close()

	return server.New(uploader).Run(cfg.Server.Addr)
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
