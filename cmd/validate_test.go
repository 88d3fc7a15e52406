package main

import (
	"testing"

	"github.com/desertthunder/artistpage/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommands(t *testing.T) {
	h := newHarness(t)

	t.Run("Username", func(t *testing.T) {
		out, err := h.run("", "validate", "username", "good_name-1")
		require.NoError(t, err)
		assert.Contains(t, out, "✓ username good_name-1")

		out, err = h.run("", "validate", "username", "ok_user", "no spaces", "ab")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Contains(t, err.Error(), "2 username(s) rejected")
		assert.Contains(t, out, "✗ username no spaces")
		assert.Contains(t, out, "at least 3 characters")
	})

	t.Run("Email", func(t *testing.T) {
		_, err := h.run("", "validate", "email", "artist@example.com")
		require.NoError(t, err)

		out, err := h.run("", "validate", "email", "artist@example")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Contains(t, out, "email address is invalid")
	})

	t.Run("Password", func(t *testing.T) {
		out, err := h.run("", "validate", "password", "Abc123!@xyz12")
		require.NoError(t, err)
		assert.Contains(t, out, "(strong)")
		assert.NotContains(t, out, "Abc123!@xyz12")

		out, err = h.run("", "validate", "password", "abc")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Contains(t, out, "(weak)")
		assert.Contains(t, out, "uppercase letter")
	})

	t.Run("URL", func(t *testing.T) {
		out, err := h.run("", "validate", "url", "soundcloud.com/me", "/local/path")
		require.NoError(t, err)
		assert.Contains(t, out, "https://soundcloud.com/me")
		assert.Contains(t, out, "/local/path")

		out, err = h.run("", "validate", "url", "JavaScript:alert(1)")
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Contains(t, out, "blocked or empty URL")
	})

	t.Run("Music", func(t *testing.T) {
		out, err := h.run("", "validate", "music", "youtu.be/abc", "data:text/html,x", "https://bandcamp.com/a")
		require.NoError(t, err)
		assert.Contains(t, out, "https://youtu.be/abc\nhttps://bandcamp.com/a\n")
		assert.Contains(t, out, "1 link(s) dropped")
		assert.NotContains(t, out, "data:")
	})

	t.Run("Bio", func(t *testing.T) {
		out, err := h.run("", "validate", "bio", "Tom", "&", "<Jerry>")
		require.NoError(t, err)
		assert.Contains(t, out, "Tom &amp; &lt;Jerry&gt;\n")
		assert.Contains(t, out, "23 characters")
	})

	t.Run("Requires Values", func(t *testing.T) {
		_, err := h.run("", "validate", "username")
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
	})

	assert.Empty(t, h.backend.Requests())
}
