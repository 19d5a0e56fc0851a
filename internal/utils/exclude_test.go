package utils

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		keywords string
		channel  string
		path     string
		want     bool
	}{
		{"keyword matches path", "foo,bar", "emby", "/media/x/foo", true},
		{"no keyword matches", "foo,bar", "emby", "/media/x/baz", false},
		{"empty keyword list never excludes", "", "emby", "/media/x/foo", false},
		{"no path reported, filter skipped", "foo", "plex", "", false},
		{"full-width comma separator", "foo，bar", "jellyfin", "/media/x/bar/ep1.mkv", true},
		{"whitespace around keywords trimmed", " foo , bar ", "emby", "/media/x/bar", true},
		{"blank entries ignored", ",,foo,", "emby", "/media/x/baz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := NewFilter(tt.keywords, testLogger())
			if got := filter.ShouldExclude(tt.channel, tt.path); got != tt.want {
				t.Errorf("ShouldExclude(%q, %q) with keywords %q = %v, want %v",
					tt.channel, tt.path, tt.keywords, got, tt.want)
			}
		})
	}
}
