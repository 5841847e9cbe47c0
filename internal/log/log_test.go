package log

import (
	"context"
	"log/slog"
	"testing"
)

// Init is once-only per process, so a single test drives the level
// parsing and the component tagging together.
func TestInitAndComponent(t *testing.T) {
	Init("DEBUG")

	if !L().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level not enabled after Init(\"DEBUG\")")
	}
	if Component("session") == nil {
		t.Fatal("component logger is nil")
	}
}
