package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/sirupsen/logrus"
)

// WebhookHandler receives playback events from media servers
type WebhookHandler struct {
	coordinator *controllers.SyncCoordinator
	logger      *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(coordinator *controllers.SyncCoordinator, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// ServeHTTP handles the playback webhook endpoint. Failure outcomes still
// answer 200: the media server must never retry a delivery on our behalf.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var event models.PlaybackEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.WithError(err).Error("Failed to decode playback event")
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	switch event.Event {
	case models.EventPlaybackStart, models.EventMarkPlayed, models.EventScrobble:
	default:
		h.logger.WithField("event", event.Event).Debug("Ignoring unknown event kind")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ignored"})
		return
	}

	result := h.coordinator.Handle(r.Context(), &event)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
