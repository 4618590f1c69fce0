// -----------------------------------------------------------------------
// API test environment - in-process application with mock upstream
// -----------------------------------------------------------------------

package api

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/nomen/internal/app"
	"github.com/ternarybob/nomen/internal/common"
	testcommon "github.com/ternarybob/nomen/test/common"
)

// TestEnvironment bundles an in-process application wired to a mock
// upstream. Handlers are exercised directly with httptest requests, so no
// binary is built and no listener port is opened.
type TestEnvironment struct {
	Config   *common.Config
	App      *app.App
	Upstream *testcommon.MockUpstream
	dataDir  string
}

// SetupTestEnvironment builds an application against a fresh temp database
// and a mock upstream that serves both the OpenAI-compatible endpoint and
// the search endpoint.
func SetupTestEnvironment(testName string) (*TestEnvironment, error) {
	upstream := testcommon.NewMockUpstream()

	dataDir, err := os.MkdirTemp("", "nomen-"+testName+"-*")
	if err != nil {
		upstream.Close()
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = filepath.Join(dataDir, "badger")
	cfg.Logging.Level = "error"
	cfg.Logging.Output = []string{"stdout"}
	cfg.OpenAI.APIKey = "test-key"
	cfg.OpenAI.Endpoint = upstream.URL()
	cfg.Search.Endpoint = upstream.URL()
	cfg.Search.APIKey = "test-key"
	// The mock returns 8-wide vectors; keep the configured width in step so
	// no dimension warnings fire.
	cfg.Embedding.Dimension = 8
	cfg.Embedding.Cache = false

	if err := cfg.Validate(); err != nil {
		upstream.Close()
		os.RemoveAll(dataDir)
		return nil, fmt.Errorf("test config invalid: %w", err)
	}

	logger := common.GetLogger().WithLevelFromString(cfg.Logging.Level)
	application, err := app.New(cfg, logger)
	if err != nil {
		upstream.Close()
		os.RemoveAll(dataDir)
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return &TestEnvironment{
		Config:   cfg,
		App:      application,
		Upstream: upstream,
		dataDir:  dataDir,
	}, nil
}

// Cleanup releases the application, the mock upstream, and all temp state.
func (env *TestEnvironment) Cleanup() {
	if env.App != nil {
		env.App.Close()
	}
	if env.Upstream != nil {
		env.Upstream.Close()
	}
	if env.dataDir != "" {
		os.RemoveAll(env.dataDir)
	}
}

// LogTest logs a formatted test progress message.
func LogTest(t *testing.T, format string, args ...interface{}) {
	t.Logf(format, args...)
}
