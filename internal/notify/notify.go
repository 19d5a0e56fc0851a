package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Webhook posts notifications as JSON to a configured URL. Delivery is
// fire-and-forget: failures are logged, never propagated, and an empty URL
// disables the notifier entirely.
type Webhook struct {
	url        string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewWebhook creates a webhook notifier
func NewWebhook(url string, logger *logrus.Logger) *Webhook {
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type message struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Notify sends one notification
func (w *Webhook) Notify(ctx context.Context, title, text string) {
	if w.url == "" {
		return
	}

	body, err := json.Marshal(message{Title: title, Text: text})
	if err != nil {
		w.logger.WithError(err).Error("Failed to marshal notification")
		return
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, bytes.NewReader(body))
	if err != nil {
		w.logger.WithError(err).Error("Failed to create notification request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.logger.WithError(err).Error("Failed to deliver notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.logger.WithField("status", resp.StatusCode).Error("Notification endpoint returned non-2xx status")
	}
}
