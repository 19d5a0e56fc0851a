package flarum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/sirupsen/logrus"
)

var (
	// The forum embeds session data as a JSON blob in the page payload
	csrfTokenRegex = regexp.MustCompile(`"csrfToken":"(.*?)"`)
	userIDRegex    = regexp.MustCompile(`"userId":(\d+)`)
)

// CheckinResult holds the values the forum reports after a check-in
type CheckinResult struct {
	Streak  int
	Balance float64
}

// Checkin performs the three-step check-in protocol for one site:
// fetch the site root with the stored cookie, extract the csrf token and
// user id, then toggle the check-in flag on the user resource via a
// method-override PATCH and parse the updated streak and balance.
func (c *Client) Checkin(ctx context.Context, site config.Site) (*CheckinResult, error) {
	token, userID, err := c.fetchSession(ctx, site)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"site":    site.Name,
		"user_id": userID,
	}).Debug("Extracted forum session")

	return c.submitCheckin(ctx, site, token, userID)
}

// fetchSession GETs the site root and extracts csrf token and user id
func (c *Client) fetchSession(ctx context.Context, site config.Site) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", site.URL, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cookie", site.Cookie)
	req.Header.Set("User-Agent", "gowatcharr/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("site request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("site returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read site response: %w", err)
	}

	tokenMatch := csrfTokenRegex.FindSubmatch(body)
	if tokenMatch == nil {
		return "", "", fmt.Errorf("csrf token not found in site response")
	}

	userMatch := userIDRegex.FindSubmatch(body)
	if userMatch == nil {
		return "", "", fmt.Errorf("user id not found in site response")
	}

	return string(tokenMatch[1]), string(userMatch[1]), nil
}

// submitCheckin issues the PATCH-style update and parses streak and balance
func (c *Client) submitCheckin(ctx context.Context, site config.Site, token, userID string) (*CheckinResult, error) {
	// The forum ignores the submitted counter and recomputes it server-side;
	// the response is authoritative.
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "users",
			"id":   userID,
			"attributes": map[string]interface{}{
				"canCheckin":             false,
				"totalContinuousCheckIn": 2,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal check-in payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/users/%s", strings.TrimRight(site.URL, "/"), userID)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-CSRF-Token", token)
	req.Header.Set("X-HTTP-Method-Override", "PATCH")
	req.Header.Set("Cookie", site.Cookie)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "gowatcharr/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("check-in request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("check-in returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Data struct {
			Attributes struct {
				Money                  float64 `json:"money"`
				TotalContinuousCheckIn int     `json:"totalContinuousCheckIn"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode check-in response: %w", err)
	}

	return &CheckinResult{
		Streak:  result.Data.Attributes.TotalContinuousCheckIn,
		Balance: result.Data.Attributes.Money,
	}, nil
}
