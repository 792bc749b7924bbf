// Package subscribe реализует HTTP-обработчик оформления подписки на трейдера.
package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/trader-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/trader-hub/internal/http/response"
	"github.com/magabrotheeeer/trader-hub/internal/lib/sl"
	"github.com/magabrotheeeer/trader-hub/internal/models"
	"github.com/magabrotheeeer/trader-hub/internal/services/subscription"
	"github.com/magabrotheeeer/trader-hub/internal/storage/repository"
)

// Request — входные данные для оформления подписки
type Request struct {
	TraderUID string `json:"trader_uid" validate:"required,uuid"`
}

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Subscribe(ctx context.Context, subscriberUID, traderUID string) (*models.Subscription, error)
}

// Handler управляет HTTP-запросами на оформление подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подписаться на трейдера
// @Description Активирует подписку пары (подписчик, трейдер). Повторный вызов идемпотентен.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "UID трейдера"
// @Success 200 {object} map[string]any "Активная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или подписка на себя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Трейдер не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.service.Subscribe(r.Context(), userUID, req.TraderUID)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrSelfSubscription):
			log.Warn("self subscription rejected", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("cannot subscribe to yourself"))
		case errors.Is(err, repository.ErrTraderNotFound):
			log.Warn("trader not found", slog.String("trader_uid", req.TraderUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("trader not found"))
		default:
			log.Error("failed to subscribe", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to subscribe"))
		}
		return
	}

	log.Info("subscription activated",
		slog.String("subscriber_uid", userUID), slog.String("trader_uid", req.TraderUID))
	render.JSON(w, r, response.StatusOKWithData(sub))
}
