package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/metrics"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/services/flarum"
	"github.com/sirupsen/logrus"
)

// ForumClient performs the check-in protocol for one site
type ForumClient interface {
	Checkin(ctx context.Context, site config.Site) (*flarum.CheckinResult, error)
}

// CheckinController runs scheduled check-ins over all configured sites
type CheckinController struct {
	db        *models.Database
	client    ForumClient
	notifier  Notifier
	settings  *Settings
	sitesFile string
	logger    *logrus.Logger
}

// NewCheckinController creates a new check-in controller
func NewCheckinController(db *models.Database, client ForumClient, notifier Notifier, settings *Settings, sitesFile string, logger *logrus.Logger) *CheckinController {
	return &CheckinController{
		db:        db,
		client:    client,
		notifier:  notifier,
		settings:  settings,
		sitesFile: sitesFile,
		logger:    logger,
	}
}

// HistoryDays returns the current history retention window
func (c *CheckinController) HistoryDays() int {
	return c.settings.Get().HistoryDays
}

// CheckinAll checks in on every configured site sequentially. The site list
// is reloaded on each run so edits are picked up without a restart; a
// malformed list yields an empty run plus an error report rather than a
// crash, and a failing site never aborts the remaining ones.
func (c *CheckinController) CheckinAll(ctx context.Context) {
	sites, err := config.LoadSites(c.sitesFile)
	if err != nil {
		c.logger.WithError(err).Error("Failed to load check-in site list")
		c.notifier.Notify(ctx, "Forum check-in", fmt.Sprintf("Site list could not be parsed: %v", err))
		return
	}

	if len(sites) == 0 {
		c.logger.Debug("No check-in sites configured")
		return
	}

	c.logger.WithField("count", len(sites)).Info("Starting check-in run")

	for _, site := range sites {
		c.checkinSite(ctx, site)
	}

	c.logger.Info("Check-in run completed")
}

// checkinSite checks in on one site and records the result
func (c *CheckinController) checkinSite(ctx context.Context, site config.Site) {
	c.logger.WithField("site", site.Name).Info("Checking in")

	result, err := c.client.Checkin(ctx, site)
	if err != nil {
		metrics.Checkins.WithLabelValues(site.Name, "failure").Inc()
		c.logger.WithError(err).WithField("site", site.Name).Error("Check-in failed")
		c.notifier.Notify(ctx, fmt.Sprintf("[%s] check-in failed", site.Name),
			"Check-in failed, the stored cookie may have expired")
		return
	}

	metrics.Checkins.WithLabelValues(site.Name, "success").Inc()

	record := &models.CheckinRecord{
		Date:     time.Now(),
		SiteName: site.Name,
		Streak:   result.Streak,
		Balance:  result.Balance,
	}
	if err := c.db.AppendCheckin(record); err != nil {
		c.logger.WithError(err).WithField("site", site.Name).Error("Failed to record check-in")
	}

	if pruned, err := c.db.PruneCheckinHistory(c.HistoryDays()); err != nil {
		c.logger.WithError(err).Error("Failed to prune check-in history")
	} else if pruned > 0 {
		c.logger.WithField("pruned", pruned).Debug("Pruned stale check-in history")
	}

	c.logger.WithFields(logrus.Fields{
		"site":    site.Name,
		"streak":  result.Streak,
		"balance": result.Balance,
	}).Info("Check-in succeeded")

	c.notifier.Notify(ctx, fmt.Sprintf("[%s] check-in completed", site.Name),
		fmt.Sprintf("Streak %d, balance %.0f", result.Streak, result.Balance))
}
