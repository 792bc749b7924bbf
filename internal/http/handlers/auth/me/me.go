// Package me реализует HTTP-обработчик, возвращающий идентичность
// текущего пользователя по его токену.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/trader-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/trader-hub/internal/http/response"
)

// Handler отдает идентичность текущего пользователя из контекста запроса.
// Данные кладет туда JWTMiddleware, уже сверив их с хранилищем.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает UID, имя и актуальную роль владельца токена.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Идентичность пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
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
	username, _ := r.Context().Value(middlewarectx.Username).(string)
	role := r.Context().Value(middlewarectx.Role)

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid":      userUID,
		"username": username,
		"role":     role,
	}))
}
