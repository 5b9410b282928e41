package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first, Service: "hbnb-api"})
	Init(Options{Output: &second, Service: "other"})

	l := Get()
	l.Info().Msg("hello")
	if second.Len() != 0 {
		t.Fatalf("second Init must be ignored, got %q", second.String())
	}
	if !strings.Contains(first.String(), `"service":"hbnb-api"`) {
		t.Fatalf("service field missing: %q", first.String())
	}
}

func TestFor_TagsComponent(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var buf bytes.Buffer
	Init(Options{Output: &buf})
	l := For("storage")
	l.Info().Msg("opened")
	if !strings.Contains(buf.String(), `"component":"storage"`) {
		t.Fatalf("component field missing: %q", buf.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_LevelFilters(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var buf bytes.Buffer
	Init(Options{Output: &buf, Level: "warn"})
	l := Get()
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
