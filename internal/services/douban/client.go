package douban

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL    = "https://movie.douban.com"
	defaultSuggestURL = "https://www.douban.com/j/search_suggest"
)

// ckRegex extracts the csrf token douban embeds in the session cookie
var ckRegex = regexp.MustCompile(`ck=([^;\s]+)`)

// Client talks to douban with a user-provided session cookie
type Client struct {
	cookie     string
	ck         string
	baseURL    string
	suggestURL string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new douban client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.DoubanCookie == "" {
		return nil, fmt.Errorf("douban cookie is required")
	}

	var ck string
	if match := ckRegex.FindStringSubmatch(cfg.DoubanCookie); match != nil {
		ck = match[1]
	} else {
		logger.Warn("No ck token found in douban cookie, status updates may be rejected")
	}

	return &Client{
		cookie:     cfg.DoubanCookie,
		ck:         ck,
		baseURL:    defaultBaseURL,
		suggestURL: defaultSuggestURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}
