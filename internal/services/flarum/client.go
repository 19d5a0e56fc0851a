package flarum

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client performs cookie-session check-ins against Flarum forums
type Client struct {
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Flarum client
func NewClient(logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}
