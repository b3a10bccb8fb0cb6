package contextutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil)).With("document", "a.md")

	tests := []struct {
		name       string
		ctx        context.Context
		wantCustom bool
	}{
		{
			name: "no logger falls back to default",
			ctx:  context.Background(),
		},
		{
			name:       "logger stored with WithLogger",
			ctx:        WithLogger(context.Background(), logger),
			wantCustom: true,
		},
		{
			name: "wrong value type is ignored",
			ctx:  context.WithValue(context.Background(), loggerKey, "not a logger"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoggerFromContext(tt.ctx)
			if tt.wantCustom && got != logger {
				t.Error("LoggerFromContext() did not return the stored logger")
			}
			if !tt.wantCustom && got != slog.Default() {
				t.Error("LoggerFromContext() should fall back to slog.Default()")
			}
		})
	}

	LoggerFromContext(WithLogger(context.Background(), logger)).Info("classified")
	if !strings.Contains(buf.String(), "document=a.md") {
		t.Errorf("stored logger lost its attributes: %q", buf.String())
	}
}
