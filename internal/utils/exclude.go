package utils

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Filter suppresses syncing for playback events whose source path matches a
// configured keyword.
type Filter struct {
	keywords []string
	logger   *logrus.Logger
}

// NewFilter parses a comma separated keyword list. Both the ASCII comma and
// the full-width comma are accepted as separators.
func NewFilter(keywords string, logger *logrus.Logger) *Filter {
	normalized := strings.ReplaceAll(keywords, "，", ",")

	var terms []string
	for _, term := range strings.Split(normalized, ",") {
		term = strings.TrimSpace(term)
		if term != "" {
			terms = append(terms, term)
		}
	}

	return &Filter{keywords: terms, logger: logger}
}

// ShouldExclude reports whether the event's source path matches any keyword.
// An empty keyword list never excludes. A channel that reports no path (plex
// scrobbles) cannot be evaluated; the filter is skipped and logged.
func (f *Filter) ShouldExclude(channel, path string) bool {
	if len(f.keywords) == 0 {
		return false
	}

	if path == "" {
		f.logger.WithField("channel", channel).Debug("No source path reported, exclusion filter skipped")
		return false
	}

	for _, keyword := range f.keywords {
		if strings.Contains(path, keyword) {
			f.logger.WithFields(logrus.Fields{
				"path":    path,
				"keyword": keyword,
			}).Debug("Path matched exclusion keyword")
			return true
		}
	}

	return false
}
