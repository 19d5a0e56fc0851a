package douban

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/sirupsen/logrus"
)

// suggestItem is one entry from the douban search suggest endpoint
type suggestItem struct {
	Title string `json:"title"`
	ID    string `json:"id"`
	Type  string `json:"type"`
}

// FindSubject resolves a display title to a douban subject.
// Douban uses the "movie" suggest type for both films and series.
func (c *Client) FindSubject(ctx context.Context, title string) (*models.Subject, error) {
	suggestURL := c.suggestURL + "?q=" + url.QueryEscape(title)

	req, err := http.NewRequestWithContext(ctx, "GET", suggestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("User-Agent", "gowatcharr/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subject search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("subject search returned status %d: %s", resp.StatusCode, string(body))
	}

	var items []suggestItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode suggest response: %w", err)
	}

	for _, item := range items {
		if item.Type != "movie" || item.ID == "" {
			continue
		}
		c.logger.WithFields(logrus.Fields{
			"title":      title,
			"subject":    item.Title,
			"subject_id": item.ID,
		}).Debug("Resolved douban subject")
		return &models.Subject{ID: item.ID, Name: item.Title}, nil
	}

	return nil, fmt.Errorf("no douban subject found for %q", title)
}

// SetStatus records a watch status on a subject
func (c *Client) SetStatus(ctx context.Context, subjectID string, status models.SyncStatus, private bool) error {
	form := url.Values{}
	form.Set("interest", interestValue(status))
	form.Set("ck", c.ck)
	if private {
		form.Set("privacy", "on")
	}

	endpoint := fmt.Sprintf("%s/j/subject/%s/interest", c.baseURL, subjectID)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", fmt.Sprintf("%s/subject/%s/", c.baseURL, subjectID))
	req.Header.Set("User-Agent", "gowatcharr/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("status update failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status update returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		R int `json:"r"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode interest response: %w", err)
	}
	if result.R != 0 {
		return fmt.Errorf("douban rejected status update (r=%d)", result.R)
	}

	return nil
}

// interestValue maps a sync status onto douban's interest vocabulary
func interestValue(status models.SyncStatus) string {
	if status == models.StatusCollected {
		return "collect"
	}
	return "do"
}
