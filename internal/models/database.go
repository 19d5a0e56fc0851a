package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Processed record operations

// GetProcessed retrieves the sync record for a display title.
// Returns bolthold.ErrNotFound when the title has never been synced.
func (db *Database) GetProcessed(title string) (*ProcessedRecord, error) {
	var record ProcessedRecord
	if err := db.store.Get(title, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// HasProcessed reports whether a sync record exists for a display title
func (db *Database) HasProcessed(title string) (bool, error) {
	_, err := db.GetProcessed(title)
	if err == bolthold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveProcessed creates or overwrites the sync record for its display title
func (db *Database) SaveProcessed(record *ProcessedRecord) error {
	return db.store.Upsert(record.Title, record)
}

// GetAllProcessed retrieves every sync record
func (db *Database) GetAllProcessed() ([]*ProcessedRecord, error) {
	var records []*ProcessedRecord
	err := db.store.Find(&records, nil)
	return records, err
}

// MergeProcessed merges imported records into the store. Import wins on key
// collision; existing titles absent from the import are left untouched.
func (db *Database) MergeProcessed(records map[string]ProcessedRecord) error {
	for title, record := range records {
		record.Title = title
		if err := db.store.Upsert(title, &record); err != nil {
			return fmt.Errorf("failed to merge record for %q: %w", title, err)
		}
	}
	return nil
}

// Check-in history operations

// AppendCheckin appends a check-in history record
func (db *Database) AppendCheckin(record *CheckinRecord) error {
	return db.store.Insert(bolthold.NextSequence(), record)
}

// GetCheckinHistory retrieves all check-in history records
func (db *Database) GetCheckinHistory() ([]*CheckinRecord, error) {
	var records []*CheckinRecord
	err := db.store.Find(&records, nil)
	return records, err
}

// PruneCheckinHistory deletes history records older than the given number of
// days and returns how many were removed.
func (db *Database) PruneCheckinHistory(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var stale []*CheckinRecord
	if err := db.store.Find(&stale, bolthold.Where("Date").Lt(cutoff)); err != nil {
		return 0, err
	}

	for _, record := range stale {
		if err := db.store.Delete(record.ID, &CheckinRecord{}); err != nil {
			return 0, err
		}
	}

	return len(stale), nil
}
