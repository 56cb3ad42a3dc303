package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("drop applied") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("drop ignored") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("drop ignored") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("state unreadable") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("saved", "key", "deck")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("log line %q does not start with an HH:MM:SS.ms timestamp", buf.String())
	}
	if !strings.Contains(buf.String(), "key=deck") {
		t.Errorf("log line %q is missing the key field", buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Server stopped")

	if !regexp.MustCompile(`Server stopped \(\d+(\.\d+)?[mµn]?s\)`).MatchString(buf.String()) {
		t.Errorf("progress output = %q, want message with elapsed time", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext() did not return the attached logger")
	}
}

func TestCommandsLogThroughCLILogger(t *testing.T) {
	e := newEnv(t)

	var logs bytes.Buffer
	c := New(&logs, LogDebug)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", e.config, "show", "deck"})
	prev := out
	out = &bytes.Buffer{}
	defer func() { out = prev }()

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(logs.String(), "config loaded") {
		t.Errorf("debug log missing config line:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "key=deck") {
		t.Errorf("debug log missing store lines:\n%s", logs.String())
	}

	c.SetLogLevel(LogInfo)
	if c.Logger.GetLevel() != log.InfoLevel {
		t.Errorf("SetLogLevel() level = %v", c.Logger.GetLevel())
	}
}
