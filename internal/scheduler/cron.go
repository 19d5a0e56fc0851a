package scheduler

import (
	"context"
	"fmt"

	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	checkinCtrl *controllers.CheckinController
	db          *models.Database
	checkinCron string
	logger      *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(checkinCtrl *controllers.CheckinController, db *models.Database, checkinCron string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		checkinCtrl: checkinCtrl,
		db:          db,
		checkinCron: checkinCron,
		logger:      logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Forum check-ins on the configured schedule
	_, err := s.cron.AddFunc(s.checkinCron, func() {
		s.runCheckin()
	})
	if err != nil {
		return fmt.Errorf("failed to add check-in job: %w", err)
	}

	// Daily: prune check-in history past the retention window. Check-ins
	// already prune after each append; this covers idle stretches.
	_, err = s.cron.AddFunc("30 3 * * *", func() {
		s.runHistoryPrune()
	})
	if err != nil {
		return fmt.Errorf("failed to add history prune job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("checkin_cron", s.checkinCron).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runCheckin executes the check-in job
func (s *Scheduler) runCheckin() {
	s.logger.Info("Running scheduled check-in")
	s.checkinCtrl.CheckinAll(context.Background())
}

// runHistoryPrune executes the history prune job
func (s *Scheduler) runHistoryPrune() {
	s.logger.Debug("Running check-in history prune")

	pruned, err := s.db.PruneCheckinHistory(s.checkinCtrl.HistoryDays())
	if err != nil {
		s.logger.WithError(err).Error("History prune failed")
		return
	}
	if pruned > 0 {
		s.logger.WithField("pruned", pruned).Info("Pruned stale check-in history")
	}
}
