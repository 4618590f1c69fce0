package aisearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 20
)

// Client is a search service client.
type Client struct {
	endpoint   string
	apiKey     string
	apiVersion string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithAPIVersion sets a custom REST API version.
func WithAPIVersion(version string) ClientOption {
	return func(c *Client) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithRateInterval spaces requests by a minimum interval with burst 1.
func WithRateInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		if interval > 0 {
			c.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new search service client.
func NewClient(endpoint, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		apiVersion: DefaultAPIVersion,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search performs one hybrid query against an index. The vector leg is
// included only when query.Vector is non-empty.
func (c *Client) Search(ctx context.Context, index string, query Query) ([]Document, error) {
	body := searchRequest{
		Search:    query.Text,
		QueryType: "full",
		Select:    strings.Join(query.Select, ","),
		Top:       query.Top,
	}

	if len(query.Vector) > 0 {
		field := query.VectorField
		if field == "" {
			field = "vector_embedding"
		}
		body.VectorQueries = []vectorQuery{
			{
				Kind:       "vector",
				Vector:     query.Vector,
				K:          query.KNN,
				Fields:     field,
				Exhaustive: true,
			},
		}
	}

	var result searchResponse
	if err := c.post(ctx, index, "docs/search", body, &result); err != nil {
		return nil, err
	}

	return result.Value, nil
}

// UploadDocuments pushes a batch of documents into an index. Each document
// must carry its key field; the upload action replaces existing documents
// with the same key.
func (c *Client) UploadDocuments(ctx context.Context, index string, docs []map[string]interface{}) ([]UploadResult, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	actions := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		action := make(map[string]interface{}, len(doc)+1)
		for k, v := range doc {
			action[k] = v
		}
		action["@search.action"] = "upload"

		raw, err := json.Marshal(action)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		actions = append(actions, raw)
	}

	var result uploadResponse
	if err := c.post(ctx, index, "docs/index", uploadRequest{Value: actions}, &result); err != nil {
		return nil, err
	}

	return result.Value, nil
}

// post performs a POST request against one index operation.
func (c *Client) post(ctx context.Context, index, operation string, body, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	params := url.Values{}
	params.Set("api-version", c.apiVersion)
	reqURL := fmt.Sprintf("%s/indexes/%s/%s?%s", c.endpoint, url.PathEscape(index), operation, params.Encode())

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	if c.logger != nil {
		c.logger.Debug().
			Str("index", index).
			Str("operation", operation).
			Msg("Search API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Uploads return 207 when some documents fail; the body still carries
	// per-document statuses.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusMultiStatus {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			Index:      index,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
