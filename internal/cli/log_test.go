package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger_FiltersByLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		debug bool
	}{
		{log.InfoLevel, false},
		{log.DebugLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("manifest hashed")
			l.Info("scan finished")

			out := buf.String()
			if !strings.Contains(out, "scan finished") {
				t.Errorf("info message missing from %q", out)
			}
			if got := strings.Contains(out, "manifest hashed"); got != tt.debug {
				t.Errorf("debug message logged = %v, want %v", got, tt.debug)
			}
		})
	}
}

func TestNewLogger_Timestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("x")
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("line %q should start with a HH:MM:SS.ms timestamp", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Scanned 3 manifests")

	out := buf.String()
	if !regexp.MustCompile(`Scanned 3 manifests \(\d+(\.\d+)?[µnm]?s\)`).MatchString(out) {
		t.Errorf("progress output %q should report the elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should yield the default logger")
	}

	l := newLogger(&bytes.Buffer{}, log.DebugLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
