// Package upsert реализует HTTP-обработчик создания и обновления
// профиля трейдера.
package upsert

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/trader-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/trader-hub/internal/http/response"
	"github.com/magabrotheeeer/trader-hub/internal/lib/sl"
	"github.com/magabrotheeeer/trader-hub/internal/models"
)

// Service описывает интерфейс бизнес-логики профилей трейдеров.
type Service interface {
	Upsert(ctx context.Context, userUID string, req models.DummyTraderProfile) (*models.TraderProfile, error)
}

// Handler управляет HTTP-запросами на сохранение профиля трейдера.
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
// @Summary Создать или обновить профиль трейдера
// @Description Сохраняет профиль текущего пользователя. Флаг верификации не изменяется.
// @Tags Traders
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyTraderProfile true "Данные профиля"
// @Success 200 {object} map[string]any "Сохраненный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /traders/me [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trader.upsert"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTraderProfile
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

	profile, err := h.service.Upsert(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to upsert trader profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save trader profile"))
		return
	}

	log.Info("trader profile saved", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(profileToDTO(profile)))
}

func profileToDTO(p *models.TraderProfile) map[string]any {
	return map[string]any{
		"user_uid":                 p.UserUID,
		"display_name":             p.DisplayName,
		"bio":                      p.Bio,
		"banner_url":               p.BannerURL,
		"avatar_url":               p.AvatarURL,
		"subscription_price_cents": p.SubscriptionPriceCents,
		"is_verified":              p.IsVerified,
		"created_at":               p.CreatedAt,
	}
}
