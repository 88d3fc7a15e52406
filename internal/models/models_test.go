package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionValidate(t *testing.T) {
	identity := Identity{ID: 7, Username: "mc_flow", Email: "mc@example.com"}

	tc := []struct {
		name    string
		session *Session
		wantErr bool
	}{
		{name: "complete", session: NewSession("s1", identity, "basic", "Y3JlZA==")},
		{name: "missing credential", session: NewSession("s1", identity, "basic", ""), wantErr: true},
		{name: "missing identity", session: NewSession("s1", Identity{}, "basic", "Y3JlZA=="), wantErr: true},
		{name: "missing id", session: NewSession("", identity, "basic", "Y3JlZA=="), wantErr: true},
		{name: "missing scheme", session: NewSession("s1", identity, "", "Y3JlZA=="), wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserPageJSON(t *testing.T) {
	t.Run("decodes musicUrlsList", func(t *testing.T) {
		var page UserPage
		err := json.Unmarshal([]byte(`{"biography":"hi","musicUrlsList":["https://a","https://b"]}`), &page)
		require.NoError(t, err)
		assert.Equal(t, "hi", page.Biography)
		assert.Equal(t, []string{"https://a", "https://b"}, page.MusicURLs)
	})

	t.Run("falls back to legacy musicUrls", func(t *testing.T) {
		var page UserPage
		err := json.Unmarshal([]byte(`{"musicUrls":"https://a, https://b,,"}`), &page)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a", "https://b"}, page.MusicURLs)
	})

	t.Run("null fields decode as empty", func(t *testing.T) {
		var page UserPage
		err := json.Unmarshal([]byte(`{"biography":null,"profileImageUrl":null,"backgroundImageUrl":null,"musicUrls":null}`), &page)
		require.NoError(t, err)
		assert.True(t, page.IsEmpty())
	})

	t.Run("encodes musicUrlsList", func(t *testing.T) {
		out, err := json.Marshal(UserPage{Biography: "b", MusicURLs: []string{"https://a"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"biography":"b","profileImageUrl":"","backgroundImageUrl":"","musicUrlsList":["https://a"]}`, string(out))
	})
}

func TestUserPageIsEmpty(t *testing.T) {
	var nilPage *UserPage
	assert.True(t, nilPage.IsEmpty())
	assert.True(t, (&UserPage{}).IsEmpty())
	assert.False(t, (&UserPage{BackgroundImageURL: "/bg.png"}).IsEmpty())
	assert.False(t, (&UserPage{MusicURLs: []string{"https://a"}}).IsEmpty())
}
