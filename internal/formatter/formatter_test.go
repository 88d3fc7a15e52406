package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
	th "github.com/desertthunder/artistpage/internal/testing"
)

func testPage() *models.UserPage {
	return &models.UserPage{
		Biography:          "Rapper &amp; producer <script>x</script>",
		ProfileImageURL:    "cdn.example.com/me.png",
		BackgroundImageURL: "javascript:alert(1)",
		MusicURLs:          []string{"https://soundcloud.com/me", "data:text/html,x", "youtu.be/abc"},
	}
}

func TestShareURL(t *testing.T) {
	got := ShareURL("http://localhost:8080/profile.html", "artist")
	if got != "http://localhost:8080/profile.html?username=artist" {
		t.Errorf("unexpected share URL %q", got)
	}

	if got := ShareURL("", "artist"); got != "" {
		t.Errorf("expected empty share URL without a public URL, got %q", got)
	}
	if got := ShareURL("javascript:alert(1)", "artist"); got != "" {
		t.Errorf("expected unsafe public URL to be dropped, got %q", got)
	}
}

func TestRenderers(t *testing.T) {
	share := "http://localhost:8080/profile.html?username=artist"

	t.Run("ToText", func(t *testing.T) {
		output := string(ToText(testPage(), "artist", share))

		for _, want := range []string{
			"Artist: artist",
			"Link: " + share,
			"Rapper &amp; producer &lt;script&gt;x&lt;/script&gt;",
			"Profile image: https://cdn.example.com/me.png",
			"Music: 2",
			"1. https://soundcloud.com/me",
			"2. https://youtu.be/abc",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text output missing %q, got:\n%s", want, output)
			}
		}

		if strings.Contains(output, "javascript:") || strings.Contains(output, "data:") {
			t.Errorf("text output contains an unsafe URL:\n%s", output)
		}
		if strings.Contains(output, "&amp;amp;") {
			t.Errorf("biography was escaped twice:\n%s", output)
		}
	})

	t.Run("ToMarkdown", func(t *testing.T) {
		output := string(ToMarkdown(testPage(), "artist", share))

		if !strings.HasPrefix(output, "# artist\n") {
			t.Errorf("markdown should start with a title, got:\n%s", output)
		}
		if !strings.Contains(output, "![Profile](https://cdn.example.com/me.png)") {
			t.Error("markdown missing profile image")
		}
		if strings.Contains(output, "![Background]") {
			t.Error("markdown should drop the unsafe background image")
		}
		if !strings.Contains(output, "## Music") || !strings.Contains(output, "- <https://youtu.be/abc>") {
			t.Errorf("markdown missing music list:\n%s", output)
		}
		if !strings.Contains(output, "[Share this page]("+share+")") {
			t.Error("markdown missing share link")
		}
		if strings.Contains(output, "<script>") {
			t.Error("markdown contains raw markup")
		}
	})

	t.Run("ToMarkdown Empty Page", func(t *testing.T) {
		output := string(ToMarkdown(&models.UserPage{}, "artist", ""))
		if output != "# artist\n\n" {
			t.Errorf("unexpected markdown for empty page: %q", output)
		}
	})

	t.Run("ToJSON", func(t *testing.T) {
		data, err := ToJSON(testPage())
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}

		var page models.UserPage
		if err := json.Unmarshal(data, &page); err != nil {
			t.Fatalf("ToJSON produced invalid JSON: %v", err)
		}
		if page.BackgroundImageURL != "" {
			t.Errorf("expected unsafe background to be dropped, got %q", page.BackgroundImageURL)
		}
		if len(page.MusicURLs) != 2 {
			t.Errorf("expected 2 music URLs, got %v", page.MusicURLs)
		}
	})

	t.Run("Render", func(t *testing.T) {
		for _, format := range []string{"", "text", "md", "markdown", "json", "JSON"} {
			if _, err := Render(format, testPage(), "artist", ""); err != nil {
				t.Errorf("Render(%q) failed: %v", format, err)
			}
		}

		_, err := Render("csv", testPage(), "artist", "")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for unknown format, got %v", err)
		}

		_, err = Render("text", nil, "artist", "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for nil page, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("WithDefaultPath", func(t *testing.T) {
		tempDir := t.TempDir()
		th.MustChdir(t, tempDir)

		path, err := WriteExport("md", testPage(), "artist", "", "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "artist_page.md" {
			t.Errorf("expected default path artist_page.md, got %s", path)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "# artist") {
			t.Errorf("unexpected file content: %s", content)
		}
	})

	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "page.json")

		got, err := WriteExport("json", testPage(), "artist", "", path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("UnwritablePath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "page.txt")

		if _, err := WriteExport("text", testPage(), "artist", "", path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
