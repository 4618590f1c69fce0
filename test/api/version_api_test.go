package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVersionAPI tests the /api/version endpoint
func TestVersionAPI(t *testing.T) {
	t.Log("=== Testing Version API ===")

	// Step 1: Initialize application
	env, err := SetupTestEnvironment("version")
	require.NoError(t, err, "Test environment setup should succeed")
	defer env.Cleanup()
	require.NotNil(t, env.App.APIHandler, "APIHandler should be initialized")

	// Step 2: Request version information
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	w := httptest.NewRecorder()
	env.App.APIHandler.VersionHandler(w, req)
	resp := w.Result()
	defer resp.Body.Close()

	// Step 3: Verify response
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Should return 200 OK")

	var response map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response), "Failed to unmarshal response")

	assert.NotEmpty(t, response["version"], "Version should be present")
	assert.NotEmpty(t, response["build"], "Build should be present")
	assert.NotEmpty(t, response["git_commit"], "Git commit should be present")

	t.Logf("✓ Version: %s (build: %s)", response["version"], response["build"])
	t.Log("✅ SUCCESS: Version API test passed")
}

// TestHealthAPI tests the /api/health liveness probe
func TestHealthAPI(t *testing.T) {
	t.Log("=== Testing Health API ===")

	// Step 1: Initialize application
	env, err := SetupTestEnvironment("health")
	require.NoError(t, err, "Test environment setup should succeed")
	defer env.Cleanup()

	// Step 2: Probe liveness
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	env.App.APIHandler.HealthHandler(w, req)
	resp := w.Result()
	defer resp.Body.Close()

	// Step 3: Verify response
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Should return 200 OK")

	var response map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response), "Failed to unmarshal response")
	assert.Equal(t, "ok", response["status"], "Liveness probe should report ok")

	t.Log("✅ SUCCESS: Health API test passed")
}

// TestNotFoundAPI tests the JSON 404 handler
func TestNotFoundAPI(t *testing.T) {
	t.Log("=== Testing Not Found API ===")

	// Step 1: Initialize application
	env, err := SetupTestEnvironment("notfound")
	require.NoError(t, err, "Test environment setup should succeed")
	defer env.Cleanup()

	// Step 2: Request an endpoint that does not exist
	req := httptest.NewRequest(http.MethodGet, "/api/no-such-endpoint", nil)
	w := httptest.NewRecorder()
	env.App.APIHandler.NotFoundHandler(w, req)
	resp := w.Result()
	defer resp.Body.Close()

	// Step 3: Verify response
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "Should return 404 Not Found")

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response), "Failed to unmarshal response")

	assert.Equal(t, "Not Found", response["error"], "Error field should be set")
	assert.Equal(t, "/api/no-such-endpoint", response["path"], "Path should echo the request")
	assert.NotEmpty(t, response["message"], "Message should explain the failure")

	t.Log("✅ SUCCESS: Not found handler test passed")
}
