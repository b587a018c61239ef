package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_WritesServiceField(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	l := Init(Options{Level: "debug", Service: "portal", Output: &buf})
	l.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"service":"portal"`) || !strings.Contains(out, `"message":"hello"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})
	l := Get()
	l.Info().Msg("x")

	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("expected output only on the first writer")
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}

func TestFromContext(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	scoped := zerolog.New(&buf).With().Str("request_id", "r1").Logger()
	ctx := WithContext(context.Background(), scoped)

	l := FromContext(ctx)
	l.Info().Msg("scoped")
	if !strings.Contains(buf.String(), `"request_id":"r1"`) {
		t.Fatalf("expected request-scoped logger, got %s", buf.String())
	}

	// Before Init and without a scoped logger, a no-op logger is returned.
	nop := FromContext(context.Background())
	nop.Info().Msg("dropped")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
