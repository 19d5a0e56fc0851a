package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/sirupsen/logrus"
)

// BackupHandler triggers backup and restore of the store
type BackupHandler struct {
	backupCtrl *controllers.BackupController
	backupFile string
	logger     *logrus.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupCtrl *controllers.BackupController, backupFile string, logger *logrus.Logger) *BackupHandler {
	return &BackupHandler{
		backupCtrl: backupCtrl,
		backupFile: backupFile,
		logger:     logger,
	}
}

// Backup handles the backup endpoint
func (h *BackupHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.backupCtrl.Backup(h.backupFile); err != nil {
		h.logger.WithError(err).Error("Backup failed")
		http.Error(w, "Backup failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "path": h.backupFile})
}

// Restore handles the restore endpoint
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.backupCtrl.Restore(h.backupFile); err != nil {
		h.logger.WithError(err).Error("Restore failed")
		http.Error(w, "Restore failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "path": h.backupFile})
}
