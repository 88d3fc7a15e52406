package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
	tu "github.com/desertthunder/artistpage/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCommands(t *testing.T) {
	t.Run("Requires Login", func(t *testing.T) {
		h := newHarness(t)

		for _, args := range [][]string{
			{"page", "show"},
			{"page", "save", "--bio", "hi"},
			{"page", "delete", "--yes"},
		} {
			_, err := h.run("", args...)
			assert.ErrorIs(t, err, shared.ErrNotAuthenticated, "%v", args)
		}
		assert.Empty(t, h.backend.Requests())
	})

	t.Run("Save Creates Sanitized Page", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		out, err := h.run("", "page", "save",
			"--bio", "Beats & <b>bars</b>",
			"--profile-image", "cdn.example.com/me.png",
			"--background-image", "javascript:alert(1)",
			"--music", "https://soundcloud.com/me",
			"--music", "data:text/html,x",
			"--music", "youtu.be/abc",
		)
		require.NoError(t, err)
		assert.Contains(t, out, "Page saved: 2 music link(s)")

		page, ok := h.backend.Page(testEmail)
		require.True(t, ok)
		assert.Equal(t, "Beats &amp; &lt;b&gt;bars&lt;/b&gt;", page.Biography)
		assert.Equal(t, "https://cdn.example.com/me.png", page.ProfileImageURL)
		assert.Empty(t, page.BackgroundImageURL)
		assert.Equal(t, []string{"https://soundcloud.com/me", "https://youtu.be/abc"}, page.MusicURLs)
	})

	t.Run("Save Keeps Commas Inside Music Links", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		out, err := h.run("", "page", "save",
			"--music", "https://bandcamp.com/search?q=a,b",
			"--music", "data:text/html,x",
		)
		require.NoError(t, err)
		assert.Contains(t, out, "Page saved: 1 music link(s)")

		page, ok := h.backend.Page(testEmail)
		require.True(t, ok)
		assert.Equal(t, []string{"https://bandcamp.com/search?q=a,b"}, page.MusicURLs)
	})

	t.Run("Save Merges Onto Existing Page", func(t *testing.T) {
		h := newHarness(t)
		h.backend.SetPage(testEmail, models.UserPage{
			Biography:       "Rock &amp; roll",
			ProfileImageURL: "https://cdn.example.com/old.png",
			MusicURLs:       []string{"https://soundcloud.com/old"},
		})
		h.login()

		_, err := h.run("", "page", "save", "--music", "https://bandcamp.com/new")
		require.NoError(t, err)

		page, _ := h.backend.Page(testEmail)
		assert.Equal(t, "Rock &amp; roll", page.Biography, "biography must not be escaped twice")
		assert.Equal(t, "https://cdn.example.com/old.png", page.ProfileImageURL)
		assert.Equal(t, []string{"https://soundcloud.com/old", "https://bandcamp.com/new"}, page.MusicURLs)
		assert.Equal(t, http.MethodPut, h.backend.LastRequest().Method)

		_, err = h.run("", "page", "save", "--clear-music")
		require.NoError(t, err)
		page, _ = h.backend.Page(testEmail)
		assert.Empty(t, page.MusicURLs)
	})

	t.Run("Save Without Changes", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		_, err := h.run("", "page", "save")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
	})

	t.Run("Show", func(t *testing.T) {
		h := newHarness(t)
		h.backend.SetPage(testEmail, models.UserPage{
			Biography: "Rapper &amp; producer",
			MusicURLs: []string{"https://soundcloud.com/me", "javascript:alert(1)"},
		})
		h.login()

		out, err := h.run("", "page", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "Artist: artist")
		assert.Contains(t, out, "Rapper &amp; producer")
		assert.Contains(t, out, "profile.html?username=artist")
		assert.NotContains(t, out, "javascript:")

		out, err = h.run("", "page", "show", "--format", "json")
		require.NoError(t, err)
		var page models.UserPage
		require.NoError(t, json.Unmarshal([]byte(out), &page))
		assert.Equal(t, []string{"https://soundcloud.com/me"}, page.MusicURLs)

		_, err = h.run("", "page", "show", "--format", "csv")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("Show To File", func(t *testing.T) {
		h := newHarness(t)
		h.backend.SetPage(testEmail, models.UserPage{Biography: "Hello"})
		h.login()

		path := filepath.Join(t.TempDir(), "page.md")
		out, err := h.run("", "page", "show", "--format", "md", "--output", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Page written to "+path)

		tu.AssertFileExists(t, path)
		assert.True(t, strings.HasPrefix(tu.MustReadFile(t, path), "# artist"))
	})

	t.Run("Show Without Page", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		_, err := h.run("", "page", "show")
		assert.ErrorIs(t, err, shared.ErrPageNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		h := newHarness(t)
		h.backend.SetPage(testEmail, models.UserPage{Biography: "bye"})
		h.login()

		out, err := h.run("n\n", "page", "delete")
		require.NoError(t, err)
		assert.Contains(t, out, "Aborted")
		_, ok := h.backend.Page(testEmail)
		assert.True(t, ok)

		out, err = h.run("y\n", "page", "delete")
		require.NoError(t, err)
		assert.Contains(t, out, "Page deleted")
		_, ok = h.backend.Page(testEmail)
		assert.False(t, ok)

		_, err = h.run("", "page", "delete", "--yes")
		assert.ErrorIs(t, err, shared.ErrPageNotFound)
	})

	t.Run("Public", func(t *testing.T) {
		h := newHarness(t)
		h.backend.AddUser("other", "other@example.com", testPassword)
		h.backend.SetPage("other@example.com", models.UserPage{Biography: "Other bio"})
		h.backend.SetPage(testEmail, models.UserPage{Biography: "Artist bio"})

		out, err := h.run("", "page", "public", "artist", "other")
		require.NoError(t, err)
		assert.Contains(t, out, "Artist bio")
		assert.Contains(t, out, "Other bio")

		for _, req := range h.backend.Requests() {
			assert.Empty(t, req.Authorization)
		}
	})

	t.Run("Public Continues Past Failures", func(t *testing.T) {
		h := newHarness(t)
		h.backend.SetPage(testEmail, models.UserPage{Biography: "Artist bio"})

		out, err := h.run("", "page", "public", "nobody", "a", "artist")
		assert.ErrorIs(t, err, shared.ErrPageNotFound)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Contains(t, err.Error(), "nobody")
		assert.Contains(t, out, "Artist bio")
	})

	t.Run("Public Without Usernames", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.run("", "page", "public")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
	})

	t.Run("Upload", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		path := filepath.Join(t.TempDir(), "cover.png")
		require.NoError(t, os.WriteFile(path, []byte("\x89PNG fake image"), 0644))

		out, err := h.run("", "page", "upload", "--type", "background", "--set", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Uploaded "+h.backend.URL+"/uploads/background/")
		assert.Contains(t, out, "Set as background image")

		page, ok := h.backend.Page(testEmail)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(page.BackgroundImageURL, h.backend.URL+"/uploads/background/"))
		assert.True(t, strings.HasSuffix(page.BackgroundImageURL, ".png"))
	})

	t.Run("Upload Rejected Locally", func(t *testing.T) {
		h := newHarness(t)
		h.login()
		before := len(h.backend.Requests())

		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0644))

		_, err := h.run("", "page", "upload", path)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Len(t, h.backend.Requests(), before)
	})

	t.Run("Upload Set Needs Image Slot", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.run("", "page", "upload", "--set", "cover.png")
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)

		_, err = h.run("", "page", "upload")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
	})

	t.Run("Upload Missing File", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		_, err := h.run("", "page", "upload", filepath.Join(t.TempDir(), "missing.png"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
