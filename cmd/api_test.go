package main

import (
	"testing"

	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPICommands(t *testing.T) {
	t.Run("Get With Session", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		out, err := h.run("", "api", "get", "/auth/me")
		require.NoError(t, err)
		assert.Contains(t, out, `"username": "artist"`)
		assert.Contains(t, h.backend.LastRequest().Authorization, "Basic ")
	})

	t.Run("Get Anonymous", func(t *testing.T) {
		h := newHarness(t)
		h.backend.SetPage(testEmail, models.UserPage{Biography: "Public bio"})
		h.login()

		out, err := h.run("", "api", "get", "--anonymous", "/user-page/public/artist")
		require.NoError(t, err)
		assert.Contains(t, out, "Public bio")
		assert.Empty(t, h.backend.LastRequest().Authorization)
	})

	t.Run("Post", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		_, err := h.run("", "api", "post", "--data", `{"biography":"Raw bio"}`, "/user-page/create")
		require.NoError(t, err)

		page, ok := h.backend.Page(testEmail)
		require.True(t, ok)
		assert.Equal(t, "Raw bio", page.Biography)
		assert.Equal(t, "application/json", h.backend.LastRequest().ContentType)
	})

	t.Run("Post Requires Data", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.run("", "api", "post", "/user-page/create")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
		assert.Empty(t, h.backend.Requests())
	})

	t.Run("Post Rejects Malformed JSON", func(t *testing.T) {
		h := newHarness(t)
		h.login()
		before := len(h.backend.Requests())

		_, err := h.run("", "api", "put", "--data", `{"biography":`, "/user-page/update")
		assert.Error(t, err)
		assert.Len(t, h.backend.Requests(), before)
	})

	t.Run("Delete Text Body", func(t *testing.T) {
		h := newHarness(t)
		h.backend.SetPage(testEmail, models.UserPage{Biography: "bye"})
		h.login()

		out, err := h.run("", "api", "delete", "/user-page/delete")
		require.NoError(t, err)
		assert.Contains(t, out, "User page deleted")
	})

	t.Run("Error Status", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		_, err := h.run("", "api", "get", "/nowhere")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		h.backend.Override("GET", "/user-page/me", 500, `{"error":"boom"}`)
		_, err = h.run("", "api", "get", "/user-page/me")
		assert.ErrorIs(t, err, shared.ErrAPIRequest)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("Unauthorized Ends Session", func(t *testing.T) {
		h := newHarness(t)
		h.login()
		h.backend.Revoke()

		_, err := h.run("", "api", "get", "/user-page/me")
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)

		_, err = h.run("", "page", "show")
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})

	t.Run("Requires Path", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.run("", "api", "get")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
	})
}
