package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/sirupsen/logrus"
)

const defaultTimelineLimit = 50

// TimelineHandler serves the dashboard timeline: synced titles and check-in
// history, newest first.
type TimelineHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(db *models.Database, logger *logrus.Logger) *TimelineHandler {
	return &TimelineHandler{
		db:     db,
		logger: logger,
	}
}

// TimelineResponse represents the timeline response
type TimelineResponse struct {
	Items    []*models.ProcessedRecord `json:"items"`
	Checkins []*models.CheckinRecord   `json:"checkins"`
}

// ServeHTTP handles the timeline endpoint. An optional "limit" query
// parameter caps both lists.
func (h *TimelineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultTimelineLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	items, err := h.db.GetAllProcessed()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get processed records")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	checkins, err := h.db.GetCheckinHistory()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get check-in history")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	sort.Slice(checkins, func(i, j int) bool {
		return checkins[i].Date.After(checkins[j].Date)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	if len(checkins) > limit {
		checkins = checkins[:limit]
	}

	response := TimelineResponse{Items: items, Checkins: checkins}
	if response.Items == nil {
		response.Items = []*models.ProcessedRecord{}
	}
	if response.Checkins == nil {
		response.Checkins = []*models.CheckinRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
