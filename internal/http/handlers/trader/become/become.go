// Package become реализует HTTP-обработчик перехода пользователя в трейдеры.
package become

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/trader-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/trader-hub/internal/http/response"
	"github.com/magabrotheeeer/trader-hub/internal/lib/sl"
	"github.com/magabrotheeeer/trader-hub/internal/models"
)

// Service описывает интерфейс бизнес-логики смены роли.
type Service interface {
	BecomeTrader(ctx context.Context, userUID string) (models.Role, error)
}

// Handler управляет HTTP-запросами на переход в трейдеры.
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
// @Summary Стать трейдером
// @Description Односторонний переход роли user -> trader. Повторный вызов идемпотентен.
// @Tags Traders
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Актуальная роль"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /traders/become [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trader.become"
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

	role, err := h.service.BecomeTrader(r.Context(), userUID)
	if err != nil {
		log.Error("failed to become trader", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to become trader"))
		return
	}

	log.Info("user became trader", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"role": role,
	}))
}
