// Package create реализует HTTP-обработчик публикации поста трейдера.
//
// Handler принимает JSON-запрос с данными поста и карточек, валидирует их,
// извлекает UID автора из контекста и вызывает бизнес-логику публикации.
// Пост и карточки сохраняются атомарно.
package create

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

// Service описывает интерфейс бизнес-логики публикации поста.
type Service interface {
	Create(ctx context.Context, traderUID string, req models.DummyPost) (*models.Post, error)
}

// Handler управляет HTTP-запросами на публикацию постов.
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
// @Summary Опубликовать пост
// @Description Публикует пост с карточками от имени текущего трейдера. Без явного is_premium пост считается премиум.
// @Tags Posts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPost true "Данные поста"
// @Success 200 {object} map[string]any "Созданный пост"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPost
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

	post, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to create post", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create post"))
		return
	}

	log.Info("post created", slog.String("post_id", post.ID), slog.String("trader_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(post))
}
