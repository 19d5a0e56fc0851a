package controllers

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/sirupsen/logrus"
)

// BackupController snapshots the store and sync settings to a JSON file and
// restores from one. Restore is additive: imported records win on key
// collision, existing titles absent from the import survive, and a malformed
// file changes nothing.
type BackupController struct {
	db       *models.Database
	settings *Settings
	logger   *logrus.Logger
}

// NewBackupController creates a new backup controller
func NewBackupController(db *models.Database, settings *Settings, logger *logrus.Logger) *BackupController {
	return &BackupController{
		db:       db,
		settings: settings,
		logger:   logger,
	}
}

type backupData struct {
	Records map[string]models.ProcessedRecord `json:"data"`
	History []models.CheckinRecord            `json:"history"`
}

type backupPayload struct {
	Config config.SyncSettings `json:"config"`
	Data   backupData          `json:"data"`
}

// Backup writes the current settings, processed records and check-in history
// to the given path.
func (b *BackupController) Backup(path string) error {
	records, err := b.db.GetAllProcessed()
	if err != nil {
		return fmt.Errorf("failed to read processed records: %w", err)
	}

	history, err := b.db.GetCheckinHistory()
	if err != nil {
		return fmt.Errorf("failed to read check-in history: %w", err)
	}

	payload := backupPayload{
		Config: b.settings.Get(),
		Data: backupData{
			Records: make(map[string]models.ProcessedRecord, len(records)),
			History: make([]models.CheckinRecord, 0, len(history)),
		},
	}
	for _, record := range records {
		payload.Data.Records[record.Title] = *record
	}
	for _, record := range history {
		payload.Data.History = append(payload.Data.History, *record)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	b.logger.WithFields(logrus.Fields{
		"path":    path,
		"records": len(payload.Data.Records),
		"history": len(payload.Data.History),
	}).Info("Backup written")

	return nil
}

// Restore merges a backup file into the store and overwrites the sync
// settings with the backed-up snapshot.
func (b *BackupController) Restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var payload backupPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("malformed backup file: %w", err)
	}

	if err := b.db.MergeProcessed(payload.Data.Records); err != nil {
		return fmt.Errorf("failed to merge processed records: %w", err)
	}

	for _, record := range payload.Data.History {
		imported := record
		imported.ID = 0
		if err := b.db.AppendCheckin(&imported); err != nil {
			return fmt.Errorf("failed to import check-in history: %w", err)
		}
	}

	b.settings.Set(payload.Config)

	b.logger.WithFields(logrus.Fields{
		"path":    path,
		"records": len(payload.Data.Records),
		"history": len(payload.Data.History),
	}).Info("Backup restored")

	return nil
}
