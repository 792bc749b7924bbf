// Package discord содержит интеграцию с Discord: построение OAuth-ссылки
// для привязки аккаунта и синхронизацию премиум-роли на сервере.
//
// Обмен кода на токен и реальные вызовы Discord API не реализованы:
// клиент только логирует намерение. Интеграция считается выключенной,
// пока в конфиге не заданы client_id и guild_id.
package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/magabrotheeeer/trader-hub/internal/config"
)

// ErrNotConfigured — интеграция с Discord не настроена в конфиге.
var ErrNotConfigured = errors.New("discord integration is not configured")

const authorizeURL = "https://discord.com/oauth2/authorize"

// Client строит OAuth-ссылки и синхронизирует премиум-роль.
type Client struct {
	cfg config.Discord
	log *slog.Logger
}

// New создает новый Client.
func New(cfg config.Discord, log *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		log: log,
	}
}

// Enabled сообщает, настроена ли интеграция.
func (c *Client) Enabled() bool {
	return c.cfg.ClientID != "" && c.cfg.GuildID != ""
}

// OAuthURL возвращает ссылку для привязки Discord-аккаунта пользователя.
// state — непрозрачное значение, которое Discord вернет в callback.
func (c *Client) OAuthURL(state string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	params := url.Values{}
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "identify guilds.join")
	params.Set("state", state)
	return fmt.Sprintf("%s?%s", authorizeURL, params.Encode()), nil
}

// GrantPremiumRole выдает премиум-роль на сервере пользователю с привязанным
// Discord-аккаунтом.
func (c *Client) GrantPremiumRole(discordID string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	c.log.Info("grant premium role",
		slog.String("discord_id", discordID),
		slog.String("guild_id", c.cfg.GuildID),
		slog.String("role_id", c.cfg.PremiumRoleID))
	return nil
}

// RevokePremiumRole снимает премиум-роль с пользователя.
func (c *Client) RevokePremiumRole(discordID string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	c.log.Info("revoke premium role",
		slog.String("discord_id", discordID),
		slog.String("guild_id", c.cfg.GuildID),
		slog.String("role_id", c.cfg.PremiumRoleID))
	return nil
}
