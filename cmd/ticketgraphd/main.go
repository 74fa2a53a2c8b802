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
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/ticketgraph"
	"github.com/poiesic/ticketgraph/ai"
	"github.com/poiesic/ticketgraph/ai/openai"
	"github.com/poiesic/ticketgraph/api"
	"github.com/poiesic/ticketgraph/core"
	"github.com/poiesic/ticketgraph/graph/badger"
	"github.com/poiesic/ticketgraph/ingestion"
	"github.com/poiesic/ticketgraph/reembed"
	"github.com/poiesic/ticketgraph/taxonomy"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	app := &cli.App{
		Name:  "ticketgraphd",
		Usage: "Knowledge graph ingestion and search for support tickets",
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
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to YAML server configuration file",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "Address to bind the API server to",
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "Port to bind the API server to",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Bearer key required on API requests (empty leaves the API open)",
						EnvVars: []string{"TICKETGRAPH_API_KEY"},
					},
					&cli.StringFlag{
						Name:  "system",
						Usage: "Target system name for the domain filter",
					},
					&cli.StringSliceFlag{
						Name:  "keyword",
						Usage: "Domain keyword for the filter (repeatable)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent ingestion workers",
					},
				}, dataFlags()...),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest a batch of tickets from a JSON file, streaming progress as NDJSON",
				ArgsUsage: "<tickets.json>",
				Action:    ingestCommand,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "clear-store",
						Usage: "Wipe the knowledge graph before ingesting",
					},
					&cli.StringFlag{
						Name:  "system",
						Usage: "Target system name for the domain filter",
					},
					&cli.StringSliceFlag{
						Name:  "keyword",
						Usage: "Domain keyword for the filter (repeatable)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent ingestion workers",
					},
				}, dataFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge graph for tickets with similar symptoms",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of matches to return",
						Value: 10,
					},
				}, dataFlags()...),
			},
			{
				Name:   "reembed",
				Usage:  "Recompute symptom embeddings for every stored ticket",
				Action: reembedCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
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
				}, dataFlags()...),
			},
			{
				Name:   "seed-taxonomy",
				Usage:  "Seed the taxonomy store with a minimal vocabulary for a system",
				Action: seedTaxonomyCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "system",
						Usage:    "System name for the root resource node",
						Required: true,
					},
				}, dataFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// dataFlags returns the flags shared by every command that opens the
// knowledge base: the data directory and the AI service settings.
func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Path to the knowledge base data directory",
			Value:   "./ticketgraph_data",
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "API token for the AI service",
			EnvVars: []string{"TICKETGRAPH_AI_TOKEN"},
		},
		&cli.StringFlag{
			Name:  "classifier-model",
			Usage: "Model for classification and taxonomy mapping",
		},
		&cli.StringFlag{
			Name:  "enricher-model",
			Usage: "Model for enrichment and image analysis",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Model for text embeddings",
		},
	}
}

// aiConfigFromFlags builds an AI configuration from the shared flags,
// keeping the defaults for anything left unset.
func aiConfigFromFlags(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if host := c.String("ai-host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if token := c.String("ai-token"); token != "" {
		opts = append(opts, ai.WithToken(token))
	}
	if model := c.String("classifier-model"); model != "" {
		opts = append(opts, ai.WithClassifierModel(model))
	}
	if model := c.String("enricher-model"); model != "" {
		opts = append(opts, ai.WithEnricherModel(model))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	return ai.NewConfig(opts...)
}

// pipelineOptions maps the shared filter and pool flags to pipeline options.
func pipelineOptions(c *cli.Context) []ingestion.Option {
	var opts []ingestion.Option
	if system := c.String("system"); system != "" {
		opts = append(opts, ingestion.WithTargetSystem(system))
	}
	if keywords := c.StringSlice("keyword"); len(keywords) > 0 {
		opts = append(opts, ingestion.WithDomainKeywords(keywords...))
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}
	return opts
}

// serveFileConfig is the YAML shape of the optional server config file.
// Command-line flags override anything set here.
type serveFileConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	Key            string   `yaml:"key"`
	System         string   `yaml:"system"`
	DomainKeywords []string `yaml:"domain_keywords"`
	PoolSize       int      `yaml:"pool_size"`
	AI             struct {
		Host            string `yaml:"host"`
		Token           string `yaml:"token"`
		ClassifierModel string `yaml:"classifier_model"`
		EnricherModel   string `yaml:"enricher_model"`
		EmbeddingModel  string `yaml:"embedding_model"`
	} `yaml:"ai"`
}

func loadServeConfig(path string) (*serveFileConfig, error) {
	cfg := &serveFileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func serveCommand(c *cli.Context) error {
	fileCfg, err := loadServeConfig(c.String("config"))
	if err != nil {
		return err
	}

	// Flags win over the config file
	host := fileCfg.Host
	if c.String("host") != "" {
		host = c.String("host")
	}
	if host == "" {
		host = "localhost"
	}
	port := fileCfg.Port
	if c.Int("port") != 0 {
		port = c.Int("port")
	}
	if port == 0 {
		port = 8080
	}
	key := fileCfg.Key
	if c.String("api-key") != "" {
		key = c.String("api-key")
	}

	aiCfg := ai.NewConfig()
	if fileCfg.AI.Host != "" {
		aiCfg.Host = fileCfg.AI.Host
	}
	if fileCfg.AI.Token != "" {
		aiCfg.Token = fileCfg.AI.Token
	}
	if fileCfg.AI.ClassifierModel != "" {
		aiCfg.ClassifierModel = fileCfg.AI.ClassifierModel
	}
	if fileCfg.AI.EnricherModel != "" {
		aiCfg.EnricherModel = fileCfg.AI.EnricherModel
	}
	if fileCfg.AI.EmbeddingModel != "" {
		aiCfg.EmbeddingModel = fileCfg.AI.EmbeddingModel
	}
	flagCfg := aiConfigFromFlags(c)
	if c.String("ai-host") != "" {
		aiCfg.Host = flagCfg.Host
	}
	if c.String("ai-token") != "" {
		aiCfg.Token = flagCfg.Token
	}
	if c.String("classifier-model") != "" {
		aiCfg.ClassifierModel = flagCfg.ClassifierModel
	}
	if c.String("enricher-model") != "" {
		aiCfg.EnricherModel = flagCfg.EnricherModel
	}
	if c.String("embedding-model") != "" {
		aiCfg.EmbeddingModel = flagCfg.EmbeddingModel
	}
	if err := aiCfg.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	kb, err := ticketgraph.Open(c.String("data"), ticketgraph.WithAIConfig(aiCfg))
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	pipeOpts := pipelineOptions(c)
	if c.String("system") == "" && fileCfg.System != "" {
		pipeOpts = append(pipeOpts, ingestion.WithTargetSystem(fileCfg.System))
	}
	if len(c.StringSlice("keyword")) == 0 && len(fileCfg.DomainKeywords) > 0 {
		pipeOpts = append(pipeOpts, ingestion.WithDomainKeywords(fileCfg.DomainKeywords...))
	}
	if c.Int("pool-size") <= 0 && fileCfg.PoolSize > 0 {
		pipeOpts = append(pipeOpts, ingestion.WithPoolSize(fileCfg.PoolSize))
	}

	pipeline, err := kb.NewIngestionPipeline(pipeOpts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	searcher, err := kb.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	server := api.NewServer(pipeline, searcher, kb.TaxonomyStore(), kb.TicketRepository(), api.Config{
		Host: host,
		Port: port,
		Key:  key,
	}, slog.Default())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one argument: the ticket batch file")
	}
	batchFile := c.Args().First()

	data, err := os.ReadFile(batchFile)
	if err != nil {
		return fmt.Errorf("failed to read batch file: %w", err)
	}

	var tickets []*core.RawTicket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return fmt.Errorf("failed to parse batch file %s: %w", batchFile, err)
	}

	kb, err := ticketgraph.Open(c.String("data"), ticketgraph.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	pipeline, err := kb.NewIngestionPipeline(pipelineOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One progress event per line on stdout
	encoder := json.NewEncoder(os.Stdout)
	sink := ingestion.EventSinkFunc(func(event core.ProgressEvent) error {
		return encoder.Encode(event)
	})

	if _, err := pipeline.Run(ctx, tickets, c.Bool("clear-store"), sink); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one argument: the search query")
	}
	query := c.Args().First()

	kb, err := ticketgraph.Open(c.String("data"), ticketgraph.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	searcher, err := kb.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	matches, err := searcher.FindSimilar(ctx, query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("No matching tickets found.")
		return nil
	}

	for _, match := range matches {
		fmt.Printf("%s  %.3f  %s\n", match.Record.TicketID, match.Score, match.Record.Title)
		if symptom := strings.TrimSpace(match.Record.SymptomDetail); symptom != "" {
			fmt.Printf("    symptom:  %s\n", symptom)
		}
		if solution := strings.TrimSpace(match.Record.SolutionDetail); solution != "" {
			fmt.Printf("    solution: %s\n", solution)
		}
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	dataDir := c.String("data")
	if dataDir == "" {
		return fmt.Errorf("data directory is required")
	}

	// Open the graph directly; no other store is needed for reembedding
	backend, err := badger.OpenBackend(dataDir+"/graph", false)
	if err != nil {
		return fmt.Errorf("failed to open graph: %w", err)
	}
	defer backend.Close()

	repo := badger.NewTicketRepository(backend)
	defer repo.Close()

	aiCfg := aiConfigFromFlags(c)
	if err := aiCfg.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiCfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Data directory: %s\n", dataDir)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", aiCfg.Host)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", aiCfg.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func seedTaxonomyCommand(c *cli.Context) error {
	ctx := context.Background()

	dataDir := c.String("data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := taxonomy.NewSQLiteStore(dataDir + "/taxonomy.db")
	if err != nil {
		return fmt.Errorf("failed to open taxonomy store: %w", err)
	}
	defer store.Close()

	system := c.String("system")
	if err := taxonomy.Seed(ctx, store, system); err != nil {
		return fmt.Errorf("failed to seed taxonomy: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded taxonomy for system %q in %s\n", system, dataDir)
	return nil
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
