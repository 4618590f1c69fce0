// -----------------------------------------------------------------------
// Last Modified: Wednesday, 19th August 2026 4:05:18 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/nomen/internal/common"
	"github.com/ternarybob/nomen/internal/handlers"
	"github.com/ternarybob/nomen/internal/interfaces"
	"github.com/ternarybob/nomen/internal/services/assistant"
	"github.com/ternarybob/nomen/internal/services/embeddings"
	"github.com/ternarybob/nomen/internal/services/history"
	"github.com/ternarybob/nomen/internal/services/llm"
	"github.com/ternarybob/nomen/internal/services/search"
	"github.com/ternarybob/nomen/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB         *badger.BadgerDB
	AuditStore interfaces.AuditStore

	// Embedding cache is optional; nil when disabled or unavailable
	embeddingCache interfaces.EmbeddingCache

	// Core services
	LLMService       interfaces.LLMService
	EmbeddingService interfaces.EmbeddingService
	Searchers        []interfaces.CollectionSearcher
	HistoryService   interfaces.HistoryService
	AssistantService interfaces.AssistantService

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	AskHandler     *handlers.AskHandler
	HistoryHandler *handlers.HistoryHandler
	AuditHandler   *handlers.AuditHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize services
	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize handlers
	app.initHandlers()

	logger.Info().
		Str("llm_provider", string(cfg.LLM.DefaultProvider)).
		Str("embedding_model", cfg.Embedding.Model).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	db, err := badger.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open badger database: %w", err)
	}
	a.DB = db
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	auditStore, err := badger.NewAuditStorage(db, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create audit store: %w", err)
	}
	a.AuditStore = auditStore
	a.Logger.Debug().Msg("Audit store initialized")

	return nil
}

// initServices initializes all business services in dependency order.
//
// PIPELINE ARCHITECTURE:
// 1. Auditor + LLMService - Chat completions through the configured provider
// 2. EmbeddingService - Query vectors for the hybrid search legs, optionally
//    cached in Badger
// 3. CollectionSearchers - One hybrid searcher per knowledge collection
// 4. HistoryService - In-memory record of completed exchanges
// 5. AssistantService - Orchestrates extract -> search -> generate/analyze
func (a *App) initServices() error {
	auditor := llm.NewAuditor(a.AuditStore, a.Config.Audit.Enabled, a.Config.Audit.LogQueries, a.Logger)

	// LLM service. A failing health check is a warning, not a startup
	// failure: the pipeline degrades per request instead of refusing to
	// boot while a provider has a transient outage.
	a.LLMService = llm.NewService(a.Config, auditor, a.Logger)
	if err := a.LLMService.HealthCheck(context.Background()); err != nil {
		a.Logger.Warn().Err(err).Msg("LLM health check failed - completions may be unavailable")
	} else {
		a.Logger.Debug().Str("model", a.LLMService.ModelName()).Msg("LLM service initialized and health check passed")
	}

	// Embedding service rides the OpenAI-compatible endpoint
	embedder, err := embeddings.NewService(a.Config, auditor, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize embedding service: %w", err)
	}
	a.EmbeddingService = embedder

	// Wrap with the Badger-backed cache when enabled. A cache that fails
	// to open is skipped, not fatal.
	if a.Config.Embedding.Cache {
		cache, cacheErr := badger.NewEmbeddingCacheStore(a.Config.EmbeddingCachePath(), a.Logger)
		if cacheErr != nil {
			a.Logger.Warn().Err(cacheErr).Msg("Embedding cache unavailable, continuing without cache")
		} else {
			a.embeddingCache = cache
			a.EmbeddingService = embeddings.NewCachedService(embedder, cache, a.Logger)
			a.Logger.Debug().Str("path", a.Config.EmbeddingCachePath()).Msg("Embedding cache initialized")
		}
	}

	// Collection searchers share one search client
	client := search.NewClient(a.Config, a.Logger)
	a.Searchers = search.NewCollectionSearchers(a.Config, client, a.EmbeddingService, a.Logger)
	a.Logger.Debug().Int("collections", len(a.Searchers)).Msg("Collection searchers initialized")

	// History and assistant
	a.HistoryService = history.NewService(a.Logger)
	a.AssistantService = assistant.NewService(a.Config, a.LLMService, a.Searchers, a.HistoryService, a.Logger)
	a.Logger.Debug().Msg("Assistant service initialized")

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.AskHandler = handlers.NewAskHandler(a.AssistantService, a.LLMService, a.Logger)
	a.HistoryHandler = handlers.NewHistoryHandler(a.HistoryService, a.Logger)
	a.AuditHandler = handlers.NewAuditHandler(a.AuditStore, a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	// Close LLM service
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		} else {
			a.Logger.Info().Msg("LLM service closed")
		}
	}

	// Close embedding cache
	if a.embeddingCache != nil {
		if err := a.embeddingCache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close embedding cache")
		}
	}

	// Release the audit sequence before the shared database closes
	if a.AuditStore != nil {
		if err := a.AuditStore.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close audit store")
		}
	}

	// Close storage
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
