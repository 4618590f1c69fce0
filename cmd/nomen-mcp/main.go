package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/services/assistant"
	"github.com/ternarybob/nomen/internal/services/embeddings"
	"github.com/ternarybob/nomen/internal/services/history"
	"github.com/ternarybob/nomen/internal/services/llm"
	"github.com/ternarybob/nomen/internal/services/search"
	"github.com/ternarybob/nomen/internal/storage/badger"
)

func main() {
	// Load configuration
	configPath := os.Getenv("NOMEN_CONFIG")
	if configPath == "" {
		configPath = "nomen.toml"
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration invalid: %v\n", err)
		os.Exit(1)
	}

	// Initialize minimal logger for MCP server (console only, no file output)
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn") // Minimal logging to avoid cluttering MCP stdio

	// Initialize storage for the LLM audit trail
	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	auditStore, err := badger.NewAuditStorage(db, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create audit store")
	}
	defer auditStore.Close()

	// Initialize LLM and embedding services
	auditor := llm.NewAuditor(auditStore, config.Audit.Enabled, config.Audit.LogQueries, logger)
	llmService := llm.NewService(config, auditor, logger)
	defer llmService.Close()

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

	// Initialize collection searchers and the assistant pipeline
	client := search.NewClient(config, logger)
	searchers := search.NewCollectionSearchers(config, client, embeddingService, logger)
	historyService := history.NewService(logger)
	assistantService := assistant.NewService(config, llmService, searchers, historyService, logger)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"nomen",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register assistant tools
	mcpServer.AddTool(createAskNamingTool(), handleAskNaming(assistantService, logger))
	mcpServer.AddTool(createAnalyzeCodeTool(), handleAnalyzeCode(assistantService, logger))
	mcpServer.AddTool(createGenerateAbbreviationTool(), handleGenerateAbbreviation(assistantService, logger))

	// Register retrieval tools
	mcpServer.AddTool(createSearchCollectionsTool(), handleSearchCollections(searchers, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
