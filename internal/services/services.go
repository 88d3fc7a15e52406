// package services implements the authenticated gateway to the artist pages backend and the page operations built on it
package services

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/desertthunder/artistpage/internal/models"
	"golang.org/x/net/publicsuffix"
)

// SessionStore persists the single client session between runs.
//
// Load returns [shared.ErrNoSession] when nothing is stored. Save replaces any existing record.
type SessionStore interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context) error
}

// Requester issues requests through the gateway. [PageService] depends on this instead of [*Gateway]
// so it can be exercised against a stub.
type Requester interface {
	IssueRequest(ctx context.Context, req Request) (*APIResponse, error)
}

// NewHTTPClient returns an [http.Client] with a cookie jar, so ambient session cookies set by the backend
// are sent back on every request.
func NewHTTPClient(timeout time.Duration) *http.Client {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		// cookiejar.New never fails with a non-nil options value.
		panic(err)
	}

	return &http.Client{Timeout: timeout, Jar: jar}
}
