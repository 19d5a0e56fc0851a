package flarum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/sirupsen/logrus"
)

func testForumClient() *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(logger)
}

func TestCheckinSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/":
			if r.Header.Get("Cookie") != "session=abc" {
				t.Errorf("Stored cookie not forwarded, got %q", r.Header.Get("Cookie"))
			}
			fmt.Fprint(w, `<script>app.load({"csrfToken":"tok123","userId":42,"locale":"en"})</script>`)
		case r.Method == "POST" && r.URL.Path == "/api/users/42":
			if r.Header.Get("X-CSRF-Token") != "tok123" {
				t.Errorf("csrf token not forwarded, got %q", r.Header.Get("X-CSRF-Token"))
			}
			if r.Header.Get("X-HTTP-Method-Override") != "PATCH" {
				t.Errorf("Method override missing, got %q", r.Header.Get("X-HTTP-Method-Override"))
			}
			var payload struct {
				Data struct {
					Type string `json:"type"`
					ID   string `json:"id"`
				} `json:"data"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("Failed to decode check-in payload: %v", err)
			}
			if payload.Data.Type != "users" || payload.Data.ID != "42" {
				t.Errorf("Unexpected payload data: %+v", payload.Data)
			}
			fmt.Fprint(w, `{"data":{"attributes":{"money":120.0,"totalContinuousCheckIn":5}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	site := config.Site{Name: "test", URL: server.URL, Cookie: "session=abc"}
	result, err := testForumClient().Checkin(context.Background(), site)
	if err != nil {
		t.Fatalf("Checkin failed: %v", err)
	}
	if result.Streak != 5 {
		t.Errorf("Streak = %d, want 5", result.Streak)
	}
	if result.Balance != 120.0 {
		t.Errorf("Balance = %f, want 120", result.Balance)
	}
}

func TestCheckinMissingCsrfToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>login required</html>`)
	}))
	defer server.Close()

	site := config.Site{Name: "test", URL: server.URL, Cookie: "session=expired"}
	if _, err := testForumClient().Checkin(context.Background(), site); err == nil {
		t.Fatal("Expected error when the session data is absent")
	}
}

func TestCheckinSiteUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	site := config.Site{Name: "test", URL: server.URL, Cookie: "session=abc"}
	if _, err := testForumClient().Checkin(context.Background(), site); err == nil {
		t.Fatal("Expected error for non-200 site response")
	}
}

func TestCheckinRejectedUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			fmt.Fprint(w, `{"csrfToken":"tok123","userId":42}`)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"errors":[{"status":"403"}]}`)
	}))
	defer server.Close()

	site := config.Site{Name: "test", URL: server.URL, Cookie: "session=abc"}
	if _, err := testForumClient().Checkin(context.Background(), site); err == nil {
		t.Fatal("Expected error when the update is rejected")
	}
}
