// package models defines the data model for the artist pages client
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for records the client persists locally.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Identity is the user record returned by /auth/login and /auth/register.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the client-held record of an authenticated identity plus its credential.
//
// A Session is either complete or absent; [Session.Validate] rejects one with only an identity or only a credential.
type Session struct {
	id         string
	identity   Identity
	scheme     string
	credential string
	createdAt  time.Time
}

// NewSession creates a session for identity holding credential under the named scheme.
func NewSession(id string, identity Identity, scheme, credential string) *Session {
	return &Session{
		id:         id,
		identity:   identity,
		scheme:     scheme,
		credential: credential,
		createdAt:  time.Now(),
	}
}

func (s *Session) ID() string               { return s.id }
func (s *Session) CreatedAt() time.Time     { return s.createdAt }
func (s *Session) SetCreatedAt(t time.Time) { s.createdAt = t }
func (s *Session) Identity() Identity       { return s.identity }
func (s *Session) Scheme() string           { return s.scheme }
func (s *Session) Credential() string       { return s.credential }

// HasIdentity reports whether the session names a user.
func (s *Session) HasIdentity() bool {
	return s.identity.Username != "" || s.identity.Email != ""
}

// Validate reports whether both the identity and the credential are present.
func (s *Session) Validate() error {
	if s.id == "" {
		return fmt.Errorf("session ID is required")
	}
	if !s.HasIdentity() {
		return fmt.Errorf("session has no identity")
	}
	if s.credential == "" {
		return fmt.Errorf("session has no credential")
	}
	if s.scheme == "" {
		return fmt.Errorf("session has no credential scheme")
	}
	return nil
}

// MaxBiographyLength is the longest biography the backend accepts, in characters.
const MaxBiographyLength = 1000

// UserPage is the user-editable public profile.
type UserPage struct {
	Biography          string   `json:"biography"`
	ProfileImageURL    string   `json:"profileImageUrl"`
	BackgroundImageURL string   `json:"backgroundImageUrl"`
	MusicURLs          []string `json:"musicUrlsList"`
}

// IsEmpty reports whether none of the page fields is set, which the backend uses to mean "no page created yet".
func (p *UserPage) IsEmpty() bool {
	return p == nil ||
		(p.Biography == "" && p.ProfileImageURL == "" && p.BackgroundImageURL == "" && len(p.MusicURLs) == 0)
}

// UnmarshalJSON decodes a page, accepting the legacy comma-separated musicUrls field
// when musicUrlsList is absent.
func (p *UserPage) UnmarshalJSON(data []byte) error {
	var raw struct {
		Biography          *string  `json:"biography"`
		ProfileImageURL    *string  `json:"profileImageUrl"`
		BackgroundImageURL *string  `json:"backgroundImageUrl"`
		MusicURLsList      []string `json:"musicUrlsList"`
		MusicURLs          *string  `json:"musicUrls"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = UserPage{
		Biography:          deref(raw.Biography),
		ProfileImageURL:    deref(raw.ProfileImageURL),
		BackgroundImageURL: deref(raw.BackgroundImageURL),
		MusicURLs:          raw.MusicURLsList,
	}

	if len(p.MusicURLs) == 0 && raw.MusicURLs != nil {
		p.MusicURLs = splitMusicURLs(*raw.MusicURLs)
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func splitMusicURLs(s string) []string {
	var urls []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}

// ImageKind names the slot an uploaded image is meant for.
type ImageKind string

const (
	ImageProfile    ImageKind = "profile"
	ImageBackground ImageKind = "background"
	ImageGeneral    ImageKind = "general"
)
