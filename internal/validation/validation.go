package validation

import (
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8

	// PasswordSymbols is the fixed set a password must draw at least one symbol from.
	PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

	// DefaultMaxImageBytes mirrors the backend upload limit.
	DefaultMaxImageBytes int64 = 5 * 1024 * 1024
)

// Strength grades a password that passed or failed [ValidatePasswordStrength].
type Strength string

const (
	Weak   Strength = "weak"
	Medium Strength = "medium"
	Strong Strength = "strong"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	blockedSchemes  = []string{"javascript:", "data:", "vbscript:", "file:"}
	allowedPrefixes = []string{"http://", "https://", "/", "./"}

	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

// Result is the outcome of a field check. Errors is empty when Valid is set.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// PasswordResult extends [Result] with a strength grade.
type PasswordResult struct {
	Result
	Strength Strength `json:"strength"`
}

func (r *Result) add(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *Result) finish() {
	r.Valid = len(r.Errors) == 0
}

// Err returns nil for a valid result, or an error wrapping [shared.ErrValidation] that carries the first message.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	if len(r.Errors) == 0 {
		return shared.ErrValidation
	}
	return fmt.Errorf("%w: %s", shared.ErrValidation, r.Errors[0])
}

// ValidateUsername checks length (3 to 50 characters) and the [A-Za-z0-9_-] alphabet.
func ValidateUsername(s string) Result {
	r := Result{Errors: []string{}}
	if s == "" {
		r.add("username is required")
		r.finish()
		return r
	}

	n := utf8.RuneCountInString(s)
	if n < MinUsernameLength {
		r.add(fmt.Sprintf("username must be at least %d characters", MinUsernameLength))
	}
	if n > MaxUsernameLength {
		r.add(fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	if !usernamePattern.MatchString(s) {
		r.add("username may only contain letters, numbers, hyphens and underscores")
	}

	r.finish()
	return r
}

// ValidateEmail reports whether s has the local@domain.tld shape.
func ValidateEmail(s string) bool {
	return s != "" && emailPattern.MatchString(s)
}

// ValidatePasswordStrength checks the password rules and grades the result.
//
// Strength is weak unless every rule passes; then 10-11 characters is medium and 12 or more is strong.
func ValidatePasswordStrength(s string) PasswordResult {
	r := PasswordResult{Result: Result{Errors: []string{}}, Strength: Weak}
	if s == "" {
		r.add("password is required")
		r.finish()
		return r
	}

	var upper, lower, digit, symbol bool
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, c):
			symbol = true
		}
	}

	n := utf8.RuneCountInString(s)
	if n < MinPasswordLength {
		r.add(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if !upper {
		r.add("password must contain an uppercase letter")
	}
	if !lower {
		r.add("password must contain a lowercase letter")
	}
	if !digit {
		r.add("password must contain a number")
	}
	if !symbol {
		r.add("password must contain a special character")
	}

	r.finish()
	if r.Valid {
		switch {
		case n >= 12:
			r.Strength = Strong
		case n >= 10:
			r.Strength = Medium
		}
	}

	return r
}

// EscapeHTML replaces &, <, >, " and ' with entities so the text cannot be read as markup.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// SanitizeBiography escapes s as plain text and truncates the result to [models.MaxBiographyLength] characters.
//
// A cut that would land inside an entity drops the partial entity.
func SanitizeBiography(s string) string {
	if s == "" {
		return ""
	}

	escaped := EscapeHTML(s)
	if utf8.RuneCountInString(escaped) <= models.MaxBiographyLength {
		return escaped
	}

	cut := 0
	for i := range escaped {
		if cut == models.MaxBiographyLength {
			escaped = escaped[:i]
			break
		}
		cut++
	}

	if amp := strings.LastIndexByte(escaped, '&'); amp >= 0 && !strings.Contains(escaped[amp:], ";") {
		escaped = escaped[:amp]
	}

	return escaped
}

// SanitizeURL normalizes a user-supplied link.
//
// Script-capable schemes return "". http(s) and relative paths are kept (trimmed); anything else is
// assumed to be a bare host and gets an https:// prefix.
func SanitizeURL(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}

	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return trimmed
		}
	}

	return "https://" + trimmed
}

// SanitizeMusicURLs applies [SanitizeURL] to each entry and drops the ones that come back empty.
func SanitizeMusicURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if clean := SanitizeURL(u); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

// SanitizePage returns a copy of p with every field passed through its sanitizer.
func SanitizePage(p models.UserPage) models.UserPage {
	return models.UserPage{
		Biography:          SanitizeBiography(p.Biography),
		ProfileImageURL:    SanitizeURL(p.ProfileImageURL),
		BackgroundImageURL: SanitizeURL(p.BackgroundImageURL),
		MusicURLs:          SanitizeMusicURLs(p.MusicURLs),
	}
}

// ValidateRegistration runs the checks that must pass before a register request is sent.
//
// The returned error wraps [shared.ErrValidation] and joins one error per failing field.
func ValidateRegistration(username, email, password string) error {
	var errs []error

	if err := ValidateUsername(username).Err(); err != nil {
		errs = append(errs, err)
	}
	if !ValidateEmail(email) {
		errs = append(errs, fmt.Errorf("%w: email address is invalid", shared.ErrValidation))
	}
	if err := ValidatePasswordStrength(password).Err(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateLogin checks that both login fields are present.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrValidation)
	}
	return nil
}

// ValidateImageUpload checks an image before upload.
func ValidateImageUpload(filename string, size, maxBytes int64, kind models.ImageKind) Result {
	r := Result{Errors: []string{}}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}

	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, e := range imageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		r.add(fmt.Sprintf("file type %q is not allowed; use one of %s", ext, strings.Join(imageExtensions, ", ")))
	}

	switch {
	case size <= 0:
		r.add("file is empty")
	case size > maxBytes:
		r.add(fmt.Sprintf("file is %d bytes; the limit is %d", size, maxBytes))
	}

	switch kind {
	case models.ImageProfile, models.ImageBackground, models.ImageGeneral:
	default:
		r.add(fmt.Sprintf("image type %q must be profile, background or general", kind))
	}

	r.finish()
	return r
}
