package discord

import (
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/trader-hub/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_OAuthURL(t *testing.T) {
	t.Run("собирает ссылку с client_id, redirect_uri и state", func(t *testing.T) {
		client := New(config.Discord{
			ClientID:    "client-123",
			RedirectURI: "https://example.com/callback",
			GuildID:     "guild-1",
		}, newNoopLogger())

		raw, err := client.OAuthURL("state-abc")
		require.NoError(t, err)

		parsed, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "discord.com", parsed.Host)
		assert.Equal(t, "client-123", parsed.Query().Get("client_id"))
		assert.Equal(t, "https://example.com/callback", parsed.Query().Get("redirect_uri"))
		assert.Equal(t, "state-abc", parsed.Query().Get("state"))
		assert.Equal(t, "code", parsed.Query().Get("response_type"))
	})

	t.Run("без client_id интеграция выключена", func(t *testing.T) {
		client := New(config.Discord{}, newNoopLogger())
		assert.False(t, client.Enabled())

		_, err := client.OAuthURL("state")
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.ErrorIs(t, client.GrantPremiumRole("d-1"), ErrNotConfigured)
		assert.ErrorIs(t, client.RevokePremiumRole("d-1"), ErrNotConfigured)
	})

	t.Run("настроенный клиент синхронизирует роли без ошибок", func(t *testing.T) {
		client := New(config.Discord{ClientID: "c", GuildID: "g", PremiumRoleID: "r"}, newNoopLogger())
		assert.NoError(t, client.GrantPremiumRole("d-1"))
		assert.NoError(t, client.RevokePremiumRole("d-1"))
	})
}
