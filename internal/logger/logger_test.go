package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter_TagsServiceAndStack(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("safehaven-test", &buf)

	log.Error().Stack().Err(errors.New("boom")).Msg("failed")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["service"] != "safehaven-test" {
		t.Fatalf("service = %v", line["service"])
	}
	if _, ok := line["stack"]; !ok {
		t.Fatalf("expected stack field in %s", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	SetLevel("warn")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("level = %v", zerolog.GlobalLevel())
	}
	SetLevel("nonsense")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("fallback level = %v", zerolog.GlobalLevel())
	}
}
