package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncOutcomes counts playback events by terminal outcome
	SyncOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gowatcharr_sync_outcomes_total",
		Help: "Playback sync attempts by terminal outcome",
	}, []string{"outcome"})

	// Checkins counts forum check-in attempts by site and result
	Checkins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gowatcharr_checkins_total",
		Help: "Forum check-in attempts by site and result",
	}, []string{"site", "result"})
)
