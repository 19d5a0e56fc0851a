package models

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// SyncStatus represents the watch status recorded in the external archive
type SyncStatus string

const (
	StatusInProgress SyncStatus = "in-progress"
	StatusCollected  SyncStatus = "collected"
)

// Outcome represents the terminal result of handling one playback event
type Outcome string

const (
	OutcomeSynced              Outcome = "synced"
	OutcomeAlreadySynced       Outcome = "already_synced"
	OutcomeSkippedFirstEpisode Outcome = "skipped_first_episode"
	OutcomeExcluded            Outcome = "excluded"
	OutcomeRecognitionFailed   Outcome = "recognition_failed"
	OutcomeSubjectNotFound     Outcome = "subject_not_found"
	OutcomeSyncFailed          Outcome = "sync_failed"
	OutcomeUnsupported         Outcome = "unsupported"
)

// SyncResult is what the coordinator returns for one playback event.
// Callers distinguish all outcomes for logging and notification; none is
// retried automatically.
type SyncResult struct {
	Outcome Outcome    `json:"outcome"`
	Title   string     `json:"title,omitempty"`
	Status  SyncStatus `json:"status,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

// Subject is the external archive's identifier for a media entry
type Subject struct {
	ID   string
	Name string
}

// MediaInfo is the metadata recognizer's view of a title
type MediaInfo struct {
	Title  string
	TmdbID string
	Kind   MediaType
	Poster string

	// SeasonEpisodes maps season number to episode count (TV only)
	SeasonEpisodes map[int]int
}

// EpisodeCount returns the number of episodes in the given season, 0 if unknown
func (m *MediaInfo) EpisodeCount(season int) int {
	if m == nil || m.SeasonEpisodes == nil {
		return 0
	}
	return m.SeasonEpisodes[season]
}
