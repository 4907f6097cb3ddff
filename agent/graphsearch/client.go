// Package graphsearch is the HTTP boundary to the graph-similarity
// collaborator. Traversal internals live behind this contract; only the
// top-k similar-products call matters here.
package graphsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

const maxResponseSizeBytes = 1 << 20

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ contractx.GraphSearcher = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("graph base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid graph base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// GetSimilarProducts returns the top similar products for one product id.
// An empty list is a valid answer, not an error.
func (c *Client) GetSimilarProducts(ctx context.Context, productID string) ([]contractx.SimilarProduct, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet,
		c.baseURL+"/similar_products/"+url.PathEscape(productID),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("build graph request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute graph request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read graph response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("graph http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var hits []contractx.SimilarProduct
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, fmt.Errorf("decode graph response: %w", err)
	}
	return hits, nil
}
