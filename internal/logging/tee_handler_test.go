package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestTeeHandlerSkipsMissingSinks(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when both sinks are missing")
	}
	var buf bytes.Buffer
	file := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, file); h != file {
		t.Fatal("expected lone file handler to be returned unwrapped")
	}
}

func TestTeeHandlerRoutesByLevel(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer
	consoleLevel := new(slog.LevelVar)
	console := newPrettyHandler(&consoleBuf, consoleLevel, false)
	file := newJSONHandler(&fileBuf, slog.LevelDebug, false)

	logger := slog.New(TeeHandler(console, file))
	logger.Debug("variant searched", slog.String("variant", "Jude Bellingham"))
	logger.Info("player resolved", slog.Float64("market_value", 120))

	if strings.Contains(consoleBuf.String(), "variant searched") {
		t.Fatalf("console should not receive debug records: %s", consoleBuf.String())
	}
	if !strings.Contains(consoleBuf.String(), "player resolved") {
		t.Fatalf("console missing info record: %s", consoleBuf.String())
	}
	if !strings.Contains(fileBuf.String(), "variant searched") || !strings.Contains(fileBuf.String(), "player resolved") {
		t.Fatalf("file should receive both records, got %s", fileBuf.String())
	}
}

func TestTeeHandlerKeepsConsoleWhenFileFails(t *testing.T) {
	var consoleBuf bytes.Buffer
	console := slog.NewJSONHandler(&consoleBuf, nil)
	file := failingHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil)}

	err := TeeHandler(console, file).Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "player resolved", 0))
	if err == nil || !strings.Contains(err.Error(), "file log: disk full") {
		t.Fatalf("expected labelled file error, got %v", err)
	}
	if !strings.Contains(consoleBuf.String(), "player resolved") {
		t.Fatalf("console should still receive the record: %s", consoleBuf.String())
	}
}

func TestTeeHandlerWithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := TeeHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))

	logger := slog.New(h).With(slog.String(FieldComponent, "resolver")).WithGroup("detail")
	logger.Info("detail fetched", slog.String("contract_end", "30/06/2029"))

	for i, buf := range []*bytes.Buffer{&buf1, &buf2} {
		if !strings.Contains(buf.String(), `"component":"resolver"`) {
			t.Fatalf("sink %d missing component attr: %s", i, buf.String())
		}
		if !strings.Contains(buf.String(), `"detail":{"contract_end"`) {
			t.Fatalf("sink %d missing grouped attr: %s", i, buf.String())
		}
	}
}
