// Package reconcile resolves local board game entities to external knowledge
// base identifiers through SPARQL lookups.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// maxResponseSize limits the result document to prevent memory exhaustion.
const maxResponseSize = 4 * 1024 * 1024 // 4MB

// DefaultUserAgent identifies the tool to the query service.
const DefaultUserAgent = "BoardGameGraphBot/1.0 (gamegraph)"

// DefaultTimeout bounds one query round-trip.
const DefaultTimeout = 30 * time.Second

// Value is one bound RDF term of a SPARQL result row.
type Value struct {
	Type     string `json:"type"` // "uri", "literal" or "bnode"
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding maps result variables to their values for one solution.
type Binding map[string]Value

// resultsDocument is the SPARQL 1.1 JSON results envelope.
type resultsDocument struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Client runs SELECT queries against a SPARQL endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every query.
func WithUserAgent(ua string) ClientOption {
	return func(client *Client) {
		client.userAgent = ua
	}
}

// WithTimeout sets the per-query timeout. Zero disables it.
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		client.timeout = d
	}
}

// NewClient creates a client for the endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		userAgent:  DefaultUserAgent,
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Endpoint returns the endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Select runs a SELECT query and returns its solutions in service order.
// Failures are LookupErrors classified as Transient or Fatal.
func (c *Client) Select(ctx context.Context, query string) ([]Binding, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fatal(fmt.Errorf("parse endpoint: %w", err))
	}
	params := u.Query()
	params.Set("query", query)
	u.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fatal(fmt.Errorf("create HTTP request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/sparql-results+json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("Sending SPARQL query", "endpoint", c.endpoint, "bytes", len(query))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors and timeouts are transient
		return nil, transient(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, transient(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, body)
	}

	var doc resultsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fatal(fmt.Errorf("decode results: %w", err))
	}
	if doc.Results == nil {
		return nil, fatal(fmt.Errorf("decode results: missing results member"))
	}

	return doc.Results.Bindings, nil
}

// classifyHTTPError determines if an HTTP error is transient or fatal.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("SPARQL endpoint error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return transient(err)
	case statusCode == http.StatusRequestTimeout:
		return transient(err)
	case statusCode >= 500:
		return transient(err)
	default:
		// Malformed queries, auth and unknown errors are fatal
		return fatal(err)
	}
}
