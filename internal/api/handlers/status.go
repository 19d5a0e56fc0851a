package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalSynced    int        `json:"total_synced"`
	Movies         int        `json:"movies"`
	Shows          int        `json:"shows"`
	CheckinRecords int        `json:"checkin_records"`
	LastSyncedAt   *time.Time `json:"last_synced_at,omitempty"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.db.GetAllProcessed()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get processed records")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	history, err := h.db.GetCheckinHistory()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get check-in history")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		TotalSynced:    len(records),
		CheckinRecords: len(history),
	}

	for _, record := range records {
		switch record.Kind {
		case models.MediaTypeMovie:
			response.Movies++
		case models.MediaTypeTV:
			response.Shows++
		}

		if response.LastSyncedAt == nil || record.Timestamp.After(*response.LastSyncedAt) {
			ts := record.Timestamp
			response.LastSyncedAt = &ts
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
