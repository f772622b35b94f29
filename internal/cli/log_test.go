package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level   log.Level
		debug   bool
		warning bool
	}{
		{log.DebugLevel, true, true},
		{log.InfoLevel, false, true},
		{log.ErrorLevel, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("cache miss", "target", "gear")
			logger.Warn("max depth reached, treating as base", "item", "plate")

			out := buf.String()
			if got := strings.Contains(out, "cache miss"); got != tt.debug {
				t.Errorf("debug line shown = %v, want %v", got, tt.debug)
			}
			if got := strings.Contains(out, "max depth reached"); got != tt.warning {
				t.Errorf("warning shown = %v, want %v", got, tt.warning)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("loaded recipes", "count", 4)

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("line %q lacks an HH:MM:SS.ms timestamp", buf.String())
	}
	if !strings.Contains(buf.String(), "count=4") {
		t.Errorf("line %q lacks the key/value pair", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Planned 3 items")

	if !regexp.MustCompile(`Planned 3 items \(\d+(\.\d+)?(ns|µs|ms|s)\)`).MatchString(buf.String()) {
		t.Errorf("progress line %q lacks the elapsed time", buf.String())
	}
}
