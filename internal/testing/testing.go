// package testing contains shared testing utilities: writer and transport fakes, filesystem assertions,
// and [Backend], a fake artist pages server
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

var (
	errWrite = errors.New("write failed")
	errRead  = errors.New("read failed")
)

// FWriter fails every Write with Err, or a generic write error when Err is nil.
type FWriter struct {
	Err error
}

func (f *FWriter) Write([]byte) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return 0, errWrite
}

// LimitedWriter passes writes through to target until maxWrites calls have been made, then fails.
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

// NewLimitedWriter returns a writer that has already seen written calls.
func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

// MockRoundTripper answers every request with a fixed response or error and keeps the requests it saw,
// so tests can inspect headers the gateway set even when the transport fails.
type MockRoundTripper struct {
	response *http.Response
	err      error

	mu       sync.Mutex
	requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

// Last returns the most recent request, or nil.
func (m *MockRoundTripper) Last() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// FCloser is a response body whose Read always fails. It records whether it was closed.
type FCloser struct {
	closed bool
}

func (f *FCloser) Read([]byte) (int, error) { return 0, errRead }

func (f *FCloser) Close() error {
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FCloser) Closed() bool { return f.closed }

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return wd
}

// MustChdir changes into dir and changes back when the test ends.
func MustChdir(t *testing.T, dir string) {
	t.Helper()
	prev := MustGetwd(t)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	switch {
	case err != nil:
		t.Errorf("expected file %s: %v", path, err)
	case info.IsDir():
		t.Errorf("expected %s to be a file, found a directory", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	switch {
	case err != nil:
		t.Errorf("expected directory %s: %v", path, err)
	case !info.IsDir():
		t.Errorf("expected %s to be a directory", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}
