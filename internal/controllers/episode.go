package controllers

import "github.com/amaumene/gowatcharr/internal/models"

// episodeDecision is the outcome of resolving one TV episode event
type episodeDecision struct {
	Skip   bool
	Status models.SyncStatus
}

// resolveEpisodeStatus maps an episode event onto a sync decision.
// With first-episode suppression on, episode 1 (and season openers reported
// as episode 0) is skipped outright. The final episode of a season, i.e. the
// episode index reaching the season's episode count, marks the show
// collected; anything else, including an unknown episode count (0), marks it
// in progress.
func resolveEpisodeStatus(episodeIndex, episodeCount int, suppressFirst bool) episodeDecision {
	if episodeIndex < 2 && suppressFirst {
		return episodeDecision{Skip: true}
	}

	if episodeCount == episodeIndex {
		return episodeDecision{Status: models.StatusCollected}
	}

	return episodeDecision{Status: models.StatusInProgress}
}
