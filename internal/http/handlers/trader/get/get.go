// Package get реализует HTTP-обработчик чтения профиля трейдера по UID.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/trader-hub/internal/http/response"
	"github.com/magabrotheeeer/trader-hub/internal/lib/sl"
	"github.com/magabrotheeeer/trader-hub/internal/models"
	"github.com/magabrotheeeer/trader-hub/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.TraderProfile, error)
}

// Handler управляет HTTP-запросами на чтение профиля трейдера.
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
// @Summary Профиль трейдера
// @Description Возвращает публичный профиль трейдера по UID.
// @Tags Traders
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID трейдера"
// @Success 200 {object} map[string]any "Профиль трейдера"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Трейдер не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /traders/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trader.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	traderUID := chi.URLParam(r, "uid")
	if _, err := uuid.Parse(traderUID); err != nil {
		log.Error("invalid trader uid", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid trader uid"))
		return
	}

	profile, err := h.service.Get(r.Context(), traderUID)
	if err != nil {
		if errors.Is(err, repository.ErrTraderNotFound) {
			log.Warn("trader not found", slog.String("trader_uid", traderUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("trader not found"))
			return
		}
		log.Error("failed to get trader profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get trader profile"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(profile))
}
