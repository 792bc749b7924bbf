// Package list реализует HTTP-обработчик каталога трейдеров.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/trader-hub/internal/http/response"
	"github.com/magabrotheeeer/trader-hub/internal/lib/sl"
	"github.com/magabrotheeeer/trader-hub/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога трейдеров.
type Service interface {
	List(ctx context.Context) ([]*models.TraderProfile, error)
}

// Handler управляет HTTP-запросами на чтение каталога трейдеров.
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
// @Summary Каталог трейдеров
// @Description Возвращает все профили: верифицированные первыми, затем новые.
// @Tags Traders
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Список профилей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /traders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trader.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profiles, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list traders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list traders"))
		return
	}

	log.Info("list traders", "count", len(profiles))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(profiles),
		"traders":    profiles,
	}))
}
