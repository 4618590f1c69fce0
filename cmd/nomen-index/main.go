package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/models"
	"github.com/ternarybob/nomen/internal/services/embeddings"
	"github.com/ternarybob/nomen/internal/services/ingest"
	"github.com/ternarybob/nomen/internal/services/llm"
	"github.com/ternarybob/nomen/internal/services/search"
	"github.com/ternarybob/nomen/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// seedFiles maps each collection to its default seed file name
var seedFiles = map[string]string{
	models.CollectionRules:      "naming_rules.json",
	models.CollectionDictionary: "dictionary.json",
	models.CollectionQA:         "naming_convention_qa.json",
}

var (
	configFiles configPaths
	collection  = flag.String("collection", "all", "Collection to ingest: rules, dictionary, qa, or all")
	seedFile    = flag.String("file", "", "Seed file path (overrides the default for the selected collection)")
	dataDir     = flag.String("data-dir", "data", "Directory holding the default seed files")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("Nomen version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("nomen.toml"); err == nil {
			configFiles = append(configFiles, "nomen.toml")
		} else if _, err := os.Stat("deployments/local/nomen.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/nomen.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration invalid: %v\n", err)
		os.Exit(1)
	}

	logger := common.InitLogger(config)

	collections, err := resolveCollections(*collection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}
	if *seedFile != "" && len(collections) != 1 {
		fmt.Fprintln(os.Stderr, "Error: -file requires a single -collection")
		os.Exit(1)
	}

	// The audit store shares the server's database directory, which the
	// server may hold locked while this runs. Auditing stays in-memory
	// here: records are logged, not persisted.
	auditor := llm.NewAuditor(nil, config.Audit.Enabled, config.Audit.LogQueries, logger)

	embedder, err := embeddings.NewService(config, auditor, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize embedding service")
	}

	var embeddingService interfaces.EmbeddingService = embedder
	if config.Embedding.Cache {
		cache, cacheErr := badger.NewEmbeddingCacheStore(config.EmbeddingCachePath(), logger)
		if cacheErr != nil {
			logger.Warn().Err(cacheErr).Msg("Embedding cache unavailable, continuing without cache")
		} else {
			defer cache.Close()
			embeddingService = embeddings.NewCachedService(embedder, cache, logger)
		}
	}

	client := search.NewClient(config, logger)
	service := ingest.NewService(config, client, embeddingService, logger)

	// Ctrl+C cancels the current embed or upload call
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hadFailures := false
	for _, c := range collections {
		path := *seedFile
		if path == "" {
			path = filepath.Join(*dataDir, seedFiles[c])
		}

		logger.Info().Str("collection", c).Str("path", path).Msg("Ingesting collection")

		result, err := service.IngestFile(ctx, c, path)
		if err != nil {
			logger.Fatal().Err(err).Str("collection", c).Msg("Ingestion failed")
		}
		if result.Failed > 0 {
			hadFailures = true
		}

		fmt.Printf("✓ %s: %d uploaded, %d embedded, %d lexical-only, %d failed (of %d)\n",
			result.Collection, result.Uploaded, result.Embedded, result.Skipped, result.Failed, result.Total)
	}

	if hadFailures {
		logger.Warn().Msg("Ingestion completed with failures - re-run to retry dropped documents")
		os.Exit(1)
	}

	logger.Info().Msg("Ingestion complete")
}

// resolveCollections expands the -collection flag into the ingestion order
func resolveCollections(name string) ([]string, error) {
	switch name {
	case "all":
		return []string{models.CollectionRules, models.CollectionDictionary, models.CollectionQA}, nil
	case models.CollectionRules, models.CollectionDictionary, models.CollectionQA:
		return []string{name}, nil
	default:
		return nil, fmt.Errorf("unknown collection %q (expected rules, dictionary, qa, or all)", name)
	}
}
