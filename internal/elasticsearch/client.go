// Package elasticsearch wraps the search index client for item
// metadata lookups.
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/north-cloud/thumbnailer/internal/config"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/domain"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/retry"
)

const pingTimeout = 5 * time.Second

// Client wraps the Elasticsearch client with a bounded retry policy.
// Each fetch carries its own short per-attempt timeout so a slow index
// cannot stall a request beyond the configured budget; the orchestrator
// itself never retries.
type Client struct {
	esClient *es.Client
	index    string
	retryCfg retry.Config
}

// NewClient creates a new Elasticsearch client and verifies the
// connection.
func NewClient(cfg *config.ElasticsearchConfig) (*Client, error) {
	url := cfg.URL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	// The transport's own status-code retries are disabled; the retry
	// budget lives in one place, the client's retry policy below.
	clientConfig := es.Config{
		Addresses:    []string{url},
		DisableRetry: true,
	}
	if cfg.Username != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	esClient, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	client := &Client{
		esClient: esClient,
		index:    cfg.Index,
		retryCfg: retry.Config{
			MaxAttempts:       cfg.MaxRetries + 1,
			PerAttemptTimeout: cfg.RequestTimeout,
			InitialDelay:      100 * time.Millisecond,
			MaxDelay:          time.Second,
			Multiplier:        2.0,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping elasticsearch: %w", err)
	}

	return client, nil
}

// Ping verifies the Elasticsearch connection.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.esClient.Ping(c.esClient.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch ping failed: %s", string(body))
	}

	return nil
}

// FetchHit looks up the search hit for an item identifier. A missing
// document is (nil, nil) — a negative result, not an error. Transient
// failures are retried within the client's bounded budget; exhausting
// it surfaces the last error to the caller.
func (c *Client) FetchHit(ctx context.Context, id string) (*domain.SearchHit, error) {
	var hit *domain.SearchHit

	err := retry.Do(ctx, c.retryCfg, func(attemptCtx context.Context) error {
		found, err := c.getDocument(attemptCtx, id)
		if err != nil {
			return err
		}
		hit = found
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch hit %q: %w", id, err)
	}

	return hit, nil
}

// getDocument performs a single document GET against the index.
func (c *Client) getDocument(ctx context.Context, id string) (*domain.SearchHit, error) {
	res, err := c.esClient.Get(c.index, id, c.esClient.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("get document returned [%d]: %s", res.StatusCode, string(body))
	}

	var doc struct {
		Found  bool                   `json:"found"`
		Source domain.SearchHitSource `json:"_source"`
	}
	if decodeErr := json.NewDecoder(res.Body).Decode(&doc); decodeErr != nil {
		return nil, fmt.Errorf("decode document: %w", decodeErr)
	}
	if !doc.Found {
		return nil, nil
	}

	return &domain.SearchHit{Source: doc.Source}, nil
}
