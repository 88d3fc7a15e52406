// package shared holds configuration, errors, the session database and logging used across the client
package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger returns the client's [log.Logger], prefixed "artistpage" and reporting timestamps and callers.
// A nil w logs to [os.Stderr].
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "artistpage",
		ReportTimestamp: true,
		ReportCaller:    true,
	})
}

// WithLogger scopes l to a component; every entry carries kv.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID returns a random v4 [uuid.UUID], used for session and request IDs.
func GenerateID() string {
	return uuid.New().String()
}

// ValidateJSON reports whether data is a well-formed JSON document.
func ValidateJSON(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("%w: data is not valid JSON", ErrInvalidInput)
	}
	return nil
}

// MarshalJSON encodes v, indenting with two spaces when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
