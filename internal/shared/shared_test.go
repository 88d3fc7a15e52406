package shared

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("GenerateID() = %q, not a UUID: %v", id, err)
	}
	if other := GenerateID(); other == id {
		t.Errorf("expected distinct IDs, got %q twice", id)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	SetLogLevel(logger, log.WarnLevel)

	WithLogger(logger, "component", "gateway").Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}

	WithLogger(logger, "component", "gateway").Warn("session cleared")
	if !strings.Contains(buf.String(), "component=gateway") {
		t.Errorf("expected child logger fields, got %q", buf.String())
	}
}

func TestJSONHelpers(t *testing.T) {
	tc := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "object", data: `{"a":1}`},
		{name: "array", data: `[1,2]`},
		{name: "truncated", data: `{"a":`, wantErr: true},
		{name: "empty", data: ``, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	out, err := MarshalJSON(map[string]int{"a": 1}, true)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(out) != "{\n  \"a\": 1\n}" {
		t.Errorf("unexpected pretty output %q", out)
	}
}
