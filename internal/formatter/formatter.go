// package formatter renders artist pages as plain text, Markdown or JSON
package formatter

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"os"
	"strings"

	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/desertthunder/artistpage/internal/validation"
)

// Output formats accepted by [Render].
const (
	FormatText     = "text"
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

// ShareURL builds the public link for username from the configured profile page URL.
func ShareURL(publicURL, username string) string {
	if publicURL == "" || username == "" {
		return ""
	}

	u, err := url.Parse(publicURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("username", username)
	u.RawQuery = q.Encode()

	return validation.SanitizeURL(u.String())
}

// biography returns the page biography escaped exactly once, whether or not the backend already escaped it.
func biography(page *models.UserPage) string {
	return validation.EscapeHTML(html.UnescapeString(page.Biography))
}

// ToText renders page for a terminal.
func ToText(page *models.UserPage, username, shareURL string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Artist: %s\n", username)
	if shareURL != "" {
		fmt.Fprintf(&buf, "Link: %s\n", shareURL)
	}

	if bio := biography(page); bio != "" {
		fmt.Fprintf(&buf, "\n%s\n", bio)
	}

	if u := validation.SanitizeURL(page.ProfileImageURL); u != "" {
		fmt.Fprintf(&buf, "\nProfile image: %s\n", u)
	}
	if u := validation.SanitizeURL(page.BackgroundImageURL); u != "" {
		fmt.Fprintf(&buf, "Background image: %s\n", u)
	}

	music := validation.SanitizeMusicURLs(page.MusicURLs)
	fmt.Fprintf(&buf, "\nMusic: %d\n", len(music))
	for i, u := range music {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, u)
	}

	return buf.Bytes()
}

// ToMarkdown renders page as a Markdown document.
func ToMarkdown(page *models.UserPage, username, shareURL string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", validation.EscapeHTML(username))

	if u := validation.SanitizeURL(page.BackgroundImageURL); u != "" {
		fmt.Fprintf(&buf, "![Background](%s)\n\n", u)
	}
	if u := validation.SanitizeURL(page.ProfileImageURL); u != "" {
		fmt.Fprintf(&buf, "![Profile](%s)\n\n", u)
	}

	if bio := biography(page); bio != "" {
		buf.WriteString(bio + "\n\n")
	}

	music := validation.SanitizeMusicURLs(page.MusicURLs)
	if len(music) > 0 {
		buf.WriteString("## Music\n\n")
		for _, u := range music {
			fmt.Fprintf(&buf, "- <%s>\n", u)
		}
		buf.WriteString("\n")
	}

	if shareURL != "" {
		fmt.Fprintf(&buf, "[Share this page](%s)\n", shareURL)
	}

	return buf.Bytes()
}

// ToJSON renders page with sanitized URLs, indented.
func ToJSON(page *models.UserPage) ([]byte, error) {
	clean := models.UserPage{
		Biography:          page.Biography,
		ProfileImageURL:    validation.SanitizeURL(page.ProfileImageURL),
		BackgroundImageURL: validation.SanitizeURL(page.BackgroundImageURL),
		MusicURLs:          validation.SanitizeMusicURLs(page.MusicURLs),
	}
	return shared.MarshalJSON(clean, true)
}

// Render dispatches on format, one of [FormatText], [FormatMarkdown] or [FormatJSON].
func Render(format string, page *models.UserPage, username, shareURL string) ([]byte, error) {
	if page == nil {
		return nil, fmt.Errorf("%w: page is nil", shared.ErrInvalidInput)
	}

	switch strings.ToLower(format) {
	case FormatText, "":
		return ToText(page, username, shareURL), nil
	case FormatMarkdown, "markdown":
		return ToMarkdown(page, username, shareURL), nil
	case FormatJSON:
		return ToJSON(page)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (use text, md or json)", shared.ErrInvalidArgument, format)
	}
}

// Extension returns the file extension for format.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case FormatMarkdown, "markdown":
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// WriteExport renders page and writes it to path.
//
// Defaults to {username}_page{ext} in the working directory.
func WriteExport(format string, page *models.UserPage, username, shareURL, path string) (string, error) {
	if path == "" {
		path = username + "_page" + Extension(format)
	}

	data, err := Render(format, page, username, shareURL)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
