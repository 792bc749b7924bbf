// Package oauthurl реализует HTTP-обработчик выдачи ссылки для привязки
// Discord-аккаунта.
package oauthurl

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/trader-hub/internal/discord"
	"github.com/magabrotheeeer/trader-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/trader-hub/internal/http/response"
	"github.com/magabrotheeeer/trader-hub/internal/lib/sl"
)

// Service описывает интерфейс построения OAuth-ссылки.
type Service interface {
	OAuthURL(state string) (string, error)
}

// Handler управляет HTTP-запросами на получение OAuth-ссылки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Ссылка для привязки Discord
// @Description Возвращает OAuth-ссылку Discord. UID пользователя передается как state.
// @Tags Discord
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "OAuth-ссылка"
// @Failure 400 {object} response.ErrorResponse "Интеграция не настроена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /discord/oauth-url [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.discord.oauthurl"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	oauthURL, err := h.service.OAuthURL(userUID)
	if err != nil {
		if errors.Is(err, discord.ErrNotConfigured) {
			log.Warn("discord integration is not configured")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("discord integration is not configured"))
			return
		}
		log.Error("failed to build oauth url", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build oauth url"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"oauth_url": oauthURL,
	}))
}
