package controllers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/metrics"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/utils"
	"github.com/sirupsen/logrus"
)

// Recognizer resolves a canonical title to media metadata
type Recognizer interface {
	Recognize(ctx context.Context, title string, kind models.MediaType, tmdbID string) (*models.MediaInfo, error)
}

// Archive records watch status against the external archive
type Archive interface {
	FindSubject(ctx context.Context, title string) (*models.Subject, error)
	SetStatus(ctx context.Context, subjectID string, status models.SyncStatus, private bool) error
}

// Notifier delivers user-facing messages
type Notifier interface {
	Notify(ctx context.Context, title, text string)
}

// SyncCoordinator turns playback events into archive status updates and
// records them in the processed-item store. A single mutex is held across
// each Handle call: webhook deliveries carry no ordering guarantee, and the
// read-check-write on the store must not interleave or the dedupe invariant
// breaks.
type SyncCoordinator struct {
	mu         sync.Mutex
	db         *models.Database
	recognizer Recognizer
	archive    Archive
	notifier   Notifier
	settings   *Settings
	logger     *logrus.Logger
}

// NewSyncCoordinator creates a new sync coordinator
func NewSyncCoordinator(db *models.Database, recognizer Recognizer, archive Archive, notifier Notifier, settings *Settings, logger *logrus.Logger) *SyncCoordinator {
	return &SyncCoordinator{
		db:         db,
		recognizer: recognizer,
		archive:    archive,
		notifier:   notifier,
		settings:   settings,
		logger:     logger,
	}
}

// Settings exposes the shared settings holder
func (c *SyncCoordinator) Settings() *Settings {
	return c.settings
}

// Handle processes one playback event to a terminal outcome. Outcomes are
// never retried automatically; re-triggering playback is the only retry.
func (c *SyncCoordinator) Handle(ctx context.Context, event *models.PlaybackEvent) models.SyncResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := c.handle(ctx, event)

	metrics.SyncOutcomes.WithLabelValues(string(result.Outcome)).Inc()

	entry := c.logger.WithFields(logrus.Fields{
		"event":   event.Event,
		"item":    event.ItemName,
		"user":    event.User,
		"outcome": result.Outcome,
	})
	switch result.Outcome {
	case models.OutcomeSynced:
		entry.WithField("status", result.Status).Info("Playback event synced")
		c.notifier.Notify(ctx, "Archive sync",
			fmt.Sprintf("%s marked %s", result.Title, result.Status))
	case models.OutcomeRecognitionFailed, models.OutcomeSubjectNotFound, models.OutcomeSyncFailed:
		entry.WithField("reason", result.Reason).Error("Playback event sync failed")
		c.notifier.Notify(ctx, "Archive sync failed",
			fmt.Sprintf("%s: %s", event.ItemName, result.Reason))
	default:
		entry.WithField("reason", result.Reason).Debug("Playback event not synced")
	}

	return result
}

func (c *SyncCoordinator) handle(ctx context.Context, event *models.PlaybackEvent) models.SyncResult {
	settings := c.settings.Get()

	if event.ItemType != models.MediaTypeTV && event.ItemType != models.MediaTypeMovie {
		return models.SyncResult{
			Outcome: models.OutcomeUnsupported,
			Reason:  fmt.Sprintf("unsupported item type %q", event.ItemType),
		}
	}

	filter := utils.NewFilter(settings.ExcludeKeywords, c.logger)
	if filter.ShouldExclude(event.Channel, event.Path) {
		return models.SyncResult{
			Outcome: models.OutcomeExcluded,
			Reason:  "source path matched exclusion keyword",
		}
	}

	canonical, err := utils.CanonicalTitle(event.ItemName, event.ItemType)
	if err != nil {
		return models.SyncResult{
			Outcome: models.OutcomeRecognitionFailed,
			Reason:  err.Error(),
		}
	}

	info, err := c.recognizer.Recognize(ctx, canonical, event.ItemType, event.TmdbID)
	if err != nil && event.TmdbID != "" {
		// Constrained lookup failed, retry once without the tmdb id
		c.logger.WithField("title", canonical).Debug("Constrained recognition failed, retrying unconstrained")
		info, err = c.recognizer.Recognize(ctx, canonical, event.ItemType, "")
	}
	if err != nil {
		return models.SyncResult{
			Outcome: models.OutcomeRecognitionFailed,
			Title:   canonical,
			Reason:  err.Error(),
		}
	}

	if event.ItemType == models.MediaTypeTV {
		return c.syncShow(ctx, event, canonical, info, settings)
	}
	return c.syncMovie(ctx, event, canonical, info, settings)
}

func (c *SyncCoordinator) syncShow(ctx context.Context, event *models.PlaybackEvent, canonical string, info *models.MediaInfo, settings config.SyncSettings) models.SyncResult {
	episodeCount := info.EpisodeCount(event.Season)
	decision := resolveEpisodeStatus(event.Episode, episodeCount, settings.SuppressFirstEpisode)

	if decision.Skip {
		return models.SyncResult{
			Outcome: models.OutcomeSkippedFirstEpisode,
			Title:   canonical,
			Reason:  "first episode suppression enabled",
		}
	}

	displayTitle := utils.DisplayTitle(canonical, event.Season)

	// A mid-season record blocks further mid-season syncs for this title,
	// but the season finale is always attempted.
	if decision.Status != models.StatusCollected {
		if c.alreadySynced(displayTitle) {
			return models.SyncResult{
				Outcome: models.OutcomeAlreadySynced,
				Title:   displayTitle,
				Status:  models.StatusInProgress,
			}
		}
	}

	return c.syncSubject(ctx, event, displayTitle, decision.Status, info, settings)
}

func (c *SyncCoordinator) syncMovie(ctx context.Context, event *models.PlaybackEvent, canonical string, info *models.MediaInfo, settings config.SyncSettings) models.SyncResult {
	if c.alreadySynced(canonical) {
		return models.SyncResult{
			Outcome: models.OutcomeAlreadySynced,
			Title:   canonical,
			Status:  models.StatusCollected,
		}
	}

	return c.syncSubject(ctx, event, canonical, models.StatusCollected, info, settings)
}

// syncSubject resolves the archive subject, pushes the status and records the
// result in the processed-item store.
func (c *SyncCoordinator) syncSubject(ctx context.Context, event *models.PlaybackEvent, displayTitle string, status models.SyncStatus, info *models.MediaInfo, settings config.SyncSettings) models.SyncResult {
	subject, err := c.archive.FindSubject(ctx, displayTitle)
	if err != nil {
		return models.SyncResult{
			Outcome: models.OutcomeSubjectNotFound,
			Title:   displayTitle,
			Reason:  err.Error(),
		}
	}

	if err := c.archive.SetStatus(ctx, subject.ID, status, settings.Private); err != nil {
		return models.SyncResult{
			Outcome: models.OutcomeSyncFailed,
			Title:   displayTitle,
			Status:  status,
			Reason:  err.Error(),
		}
	}

	record := &models.ProcessedRecord{
		Title:       displayTitle,
		SubjectID:   subject.ID,
		SubjectName: subject.Name,
		Timestamp:   time.Now(),
		Poster:      info.Poster,
		Kind:        event.ItemType,
	}
	if err := c.db.SaveProcessed(record); err != nil {
		// The archive already accepted the status; a record failure only
		// weakens dedupe, so log it rather than fail the sync.
		c.logger.WithError(err).WithField("title", displayTitle).Error("Failed to save processed record")
	}

	return models.SyncResult{
		Outcome: models.OutcomeSynced,
		Title:   displayTitle,
		Status:  status,
	}
}

func (c *SyncCoordinator) alreadySynced(displayTitle string) bool {
	exists, err := c.db.HasProcessed(displayTitle)
	if err != nil {
		c.logger.WithError(err).WithField("title", displayTitle).Warn("Failed to read processed record, treating as unsynced")
		return false
	}
	return exists
}
