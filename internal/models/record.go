package models

import "time"

// ProcessedRecord is the last successful sync for one display title.
// The display title (canonical title plus season qualifier) is the store key.
type ProcessedRecord struct {
	Title       string `boltholdKey:"Title"`
	SubjectID   string
	SubjectName string
	Timestamp   time.Time
	Poster      string
	Kind        MediaType
}

// CheckinRecord is one completed forum check-in, kept for the dashboard
// timeline and pruned past the configured history window.
type CheckinRecord struct {
	ID       uint64 `boltholdKey:"ID"`
	Date     time.Time
	SiteName string
	Streak   int
	Balance  float64
}
