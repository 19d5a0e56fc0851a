package controllers

import (
	"sync"

	"github.com/amaumene/gowatcharr/internal/config"
)

// Settings guards the mutable sync settings shared by the coordinator, the
// check-in loop and backup restore. Restore overwrites them wholesale.
type Settings struct {
	mu sync.RWMutex
	v  config.SyncSettings
}

// NewSettings creates a settings holder seeded from the loaded configuration
func NewSettings(v config.SyncSettings) *Settings {
	return &Settings{v: v}
}

// Get returns a copy of the current settings
func (s *Settings) Get() config.SyncSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// Set replaces the current settings
func (s *Settings) Set(v config.SyncSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.HistoryDays <= 0 {
		v.HistoryDays = 30
	}
	s.v = v
}
