package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	segment := base64.RawURLEncoding.EncodeToString(payload)
	return "header." + segment + ".signature"
}

func TestDecodeCredential(t *testing.T) {
	t.Parallel()

	t.Run("full claims", func(t *testing.T) {
		t.Parallel()
		token := makeToken(t, map[string]any{
			"sub":     "108974",
			"name":    "Asha Rao",
			"email":   "asha@example.com",
			"picture": "https://example.com/asha.png",
		})
		user, err := DecodeCredential(token)
		require.NoError(t, err)
		assert.Equal(t, "108974", user.ID)
		assert.Equal(t, "Asha Rao", user.Name)
		assert.Equal(t, "asha@example.com", user.Email)
		assert.Equal(t, "https://example.com/asha.png", user.PictureURL)
	})

	t.Run("missing picture falls back to default avatar", func(t *testing.T) {
		t.Parallel()
		token := makeToken(t, map[string]any{"sub": "1", "email": "a@b.c"})
		user, err := DecodeCredential(token)
		require.NoError(t, err)
		assert.Equal(t, DefaultAvatarURL, user.PictureURL)
	})

	t.Run("wrong segment count", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeCredential("only.two")
		assert.Error(t, err)
	})

	t.Run("payload is not base64", func(t *testing.T) {
		t.Parallel()
		_, err := DecodeCredential("a.!!!.c")
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()
		token := makeToken(t, map[string]any{"email": "a@b.c"})
		_, err := DecodeCredential(token)
		assert.Error(t, err)
	})
}

func TestLocalUser(t *testing.T) {
	t.Parallel()

	user, err := LocalUser("Asha Rao", "asha@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, DefaultAvatarURL, user.PictureURL)

	other, err := LocalUser("Asha Rao", "asha@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, other.ID)

	_, err = LocalUser("", "asha@example.com")
	assert.Error(t, err)
}
