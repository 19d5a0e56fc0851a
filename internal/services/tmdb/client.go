package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// Client wraps direct TMDB API HTTP calls and caches recognition results
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new TMDB client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     cfg.TMDBAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache.New(30*time.Minute, 10*time.Minute),
		logger:     logger,
	}, nil
}

// get performs a GET request against the TMDB API and decodes the JSON body
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	apiURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid TMDB URL: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	apiURL.RawQuery = params.Encode()

	c.logger.WithFields(logrus.Fields{
		"path": path,
	}).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "gowatcharr/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("TMDB API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}

	return nil
}
