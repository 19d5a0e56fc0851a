package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/sirupsen/logrus"
)

type stubRecognizer struct{}

func (stubRecognizer) Recognize(ctx context.Context, title string, kind models.MediaType, tmdbID string) (*models.MediaInfo, error) {
	return &models.MediaInfo{Title: title, Kind: kind}, nil
}

type stubArchive struct{}

func (stubArchive) FindSubject(ctx context.Context, title string) (*models.Subject, error) {
	return &models.Subject{ID: "m1", Name: title}, nil
}

func (stubArchive) SetStatus(ctx context.Context, subjectID string, status models.SyncStatus, private bool) error {
	return nil
}

type stubNotifier struct{}

func (stubNotifier) Notify(ctx context.Context, title, text string) {}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newHandler(t *testing.T) (*WebhookHandler, *models.Database) {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := quietLogger()
	coordinator := controllers.NewSyncCoordinator(db, stubRecognizer{}, stubArchive{}, stubNotifier{},
		controllers.NewSettings(config.SyncSettings{HistoryDays: 30}), logger)
	return NewWebhookHandler(coordinator, logger), db
}

func postEvent(t *testing.T, handler http.Handler, event models.PlaybackEvent) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Failed to marshal event: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/webhook/playback", bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestWebhookSyncsMovie(t *testing.T) {
	handler, db := newHandler(t)

	recorder := postEvent(t, handler, models.PlaybackEvent{
		Event:    models.EventMarkPlayed,
		ItemType: models.MediaTypeMovie,
		ItemName: "Arrival",
		Path:     "/media/movies/Arrival",
		Channel:  "emby",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", recorder.Code)
	}

	var result models.SyncResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Outcome != models.OutcomeSynced || result.Status != models.StatusCollected {
		t.Errorf("Unexpected result: %+v", result)
	}

	if _, err := db.GetProcessed("Arrival"); err != nil {
		t.Errorf("Processed record missing: %v", err)
	}
}

func TestWebhookIgnoresUnknownEventKind(t *testing.T) {
	handler, db := newHandler(t)

	recorder := postEvent(t, handler, models.PlaybackEvent{
		Event:    "library.scan",
		ItemType: models.MediaTypeMovie,
		ItemName: "Arrival",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", recorder.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["status"] != "ignored" {
		t.Errorf("Expected ignored status, got %v", response)
	}

	records, err := db.GetAllProcessed()
	if err != nil {
		t.Fatalf("Failed to read store: %v", err)
	}
	if len(records) != 0 {
		t.Error("Unknown event kinds must not touch the store")
	}
}

func TestWebhookFailureOutcomeStillAnswers200(t *testing.T) {
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := quietLogger()
	coordinator := controllers.NewSyncCoordinator(db, failingRecognizer{}, stubArchive{}, stubNotifier{},
		controllers.NewSettings(config.SyncSettings{HistoryDays: 30}), logger)
	handler := NewWebhookHandler(coordinator, logger)

	recorder := postEvent(t, handler, models.PlaybackEvent{
		Event:    models.EventMarkPlayed,
		ItemType: models.MediaTypeMovie,
		ItemName: "Arrival",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Failure outcomes must still answer 200, got %d", recorder.Code)
	}

	var result models.SyncResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Outcome != models.OutcomeRecognitionFailed {
		t.Errorf("Outcome = %q, want recognition_failed", result.Outcome)
	}
}

type failingRecognizer struct{}

func (failingRecognizer) Recognize(ctx context.Context, title string, kind models.MediaType, tmdbID string) (*models.MediaInfo, error) {
	return nil, errors.New("no match found")
}

func TestWebhookRejectsBadPayload(t *testing.T) {
	handler, _ := newHandler(t)

	req := httptest.NewRequest("POST", "/api/webhook/playback", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", recorder.Code)
	}
}

func TestTimelineLimit(t *testing.T) {
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for i := 0; i < 5; i++ {
		record := &models.ProcessedRecord{
			Title:     "Title " + string(rune('A'+i)),
			SubjectID: "s",
			Timestamp: time.Now().Add(time.Duration(i) * time.Minute),
			Kind:      models.MediaTypeMovie,
		}
		if err := db.SaveProcessed(record); err != nil {
			t.Fatalf("Failed to seed store: %v", err)
		}
	}

	handler := NewTimelineHandler(db, quietLogger())
	req := httptest.NewRequest("GET", "/api/timeline?limit=3", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", recorder.Code)
	}

	var response TimelineResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(response.Items))
	}
	// Newest first
	if response.Items[0].Title != "Title E" {
		t.Errorf("First item = %q, want the newest", response.Items[0].Title)
	}
	if response.Checkins == nil {
		t.Error("Checkins should encode as an empty array, not null")
	}

	req = httptest.NewRequest("GET", "/api/timeline?limit=zero", nil)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Invalid limit should answer 400, got %d", recorder.Code)
	}
}
