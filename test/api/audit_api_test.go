package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/nomen/internal/models"
)

// auditListResponse mirrors the /api/audit envelope
type auditListResponse struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Records []models.AuditRecord `json:"records"`
}

// TestAuditAPI_Recent tests the /api/audit endpoint after a full pipeline run
func TestAuditAPI_Recent(t *testing.T) {
	t.Log("=== Testing Audit API - Recent Records ===")

	// Step 1: Initialize application against the mock upstream
	env, err := SetupTestEnvironment("audit-recent")
	require.NoError(t, err, "Test environment setup should succeed")
	defer env.Cleanup()
	require.NotNil(t, env.App.AuditHandler, "AuditHandler should be initialized")

	// Step 2: Drive one question through the pipeline
	askQuestion(t, env, "재고 수량 변수명을 추천해줘")
	t.Log("✓ Pipeline run completed")

	// Step 3: Read the audit trail
	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	w := httptest.NewRecorder()
	env.App.AuditHandler.RecentHandler(w, req)
	resp := w.Result()
	defer resp.Body.Close()

	// Step 4: Verify response
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Should return 200 OK")

	var response auditListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response), "Failed to unmarshal response")

	assert.True(t, response.Success, "Response should indicate success")
	// One run audits 2 completions (extraction, generation) and 3 embeddings
	// (one per collection). The startup health check is not audited.
	assert.Equal(t, 5, response.Count, "One pipeline run should leave five audit records")

	completions := 0
	embeds := 0
	for _, record := range response.Records {
		assert.True(t, record.Success, "All mock-backed operations should succeed")
		assert.Equal(t, "openai", record.Provider, "Provider should be the default deployment")
		assert.Empty(t, record.QueryText, "Query text should stay out of the trail by default")
		switch record.Operation {
		case models.AuditOpComplete:
			completions++
			assert.Equal(t, "gpt-35-turbo", record.Model, "Completions should use the chat deployment")
		case models.AuditOpEmbed:
			embeds++
			assert.Equal(t, "text-embedding-3-small", record.Model, "Embeddings should use the embedding model")
		default:
			t.Errorf("unexpected audit operation %q", record.Operation)
		}
	}
	assert.Equal(t, 2, completions, "Extraction and generation should each leave a completion record")
	assert.Equal(t, 3, embeds, "Each collection search should leave an embedding record")

	t.Logf("✓ Audit trail: %d completions, %d embeddings", completions, embeds)
	t.Log("✅ SUCCESS: Audit recent test passed")
}

// TestAuditAPI_Limit tests the limit query parameter
func TestAuditAPI_Limit(t *testing.T) {
	t.Log("=== Testing Audit API - Limit ===")

	// Step 1: Initialize application and run one question
	env, err := SetupTestEnvironment("audit-limit")
	require.NoError(t, err, "Test environment setup should succeed")
	defer env.Cleanup()

	askQuestion(t, env, "주문 수량 변수명은?")

	// Step 2: Request only the two newest records
	req := httptest.NewRequest(http.MethodGet, "/api/audit?limit=2", nil)
	w := httptest.NewRecorder()
	env.App.AuditHandler.RecentHandler(w, req)
	resp := w.Result()
	defer resp.Body.Close()

	// Step 3: Verify response
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Should return 200 OK")

	var response auditListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response), "Failed to unmarshal response")
	assert.Equal(t, 2, response.Count, "Limit should cap the returned records")
	require.Len(t, response.Records, 2, "Exactly two records should be returned")

	t.Log("✅ SUCCESS: Audit limit test passed")
}

// TestAuditAPI_Export tests the /api/audit/export download
func TestAuditAPI_Export(t *testing.T) {
	t.Log("=== Testing Audit API - Export ===")

	// Step 1: Initialize application and run one question
	env, err := SetupTestEnvironment("audit-export")
	require.NoError(t, err, "Test environment setup should succeed")
	defer env.Cleanup()

	askQuestion(t, env, "재고 변수명 추천")

	// Step 2: Download the full trail
	req := httptest.NewRequest(http.MethodGet, "/api/audit/export", nil)
	w := httptest.NewRecorder()
	env.App.AuditHandler.ExportHandler(w, req)
	resp := w.Result()
	defer resp.Body.Close()

	// Step 3: Verify download headers
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Should return 200 OK")
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"), "Export should be JSON")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "llm-audit.json", "Export should download as a file")

	// Step 4: Verify the body is a parseable record array
	var records []models.AuditRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records), "Export body should be a JSON record array")
	assert.Len(t, records, 5, "Export should carry the full trail")

	t.Log("✅ SUCCESS: Audit export test passed")
}
