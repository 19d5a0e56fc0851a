package models

// EventType identifies the playback webhook event kind
type EventType string

const (
	EventPlaybackStart EventType = "playback.start"
	EventMarkPlayed    EventType = "item.markplayed"
	EventScrobble      EventType = "media.scrobble"
)

// PlaybackEvent is one playback notification delivered by a media server.
// Plex scrobbles carry no source path; the exclusion filter accounts for that.
type PlaybackEvent struct {
	Event    EventType `json:"event"`
	User     string    `json:"user"`
	ItemType MediaType `json:"item_type"`
	ItemName string    `json:"item_name"`
	Season   int       `json:"season"`
	Episode  int       `json:"episode"`
	TmdbID   string    `json:"tmdb_id"`
	Path     string    `json:"path"`
	Channel  string    `json:"channel"`
}

// IsPlayed reports whether the event marks the item as watched rather than
// a playback start.
func (e *PlaybackEvent) IsPlayed() bool {
	return e.Event == EventMarkPlayed || e.Event == EventScrobble
}
