// Package feed реализует HTTP-обработчик ленты постов.
//
// Лента собирается для конкретного читателя: премиум-посты авторов без
// активной подписки отдаются с заглушкой вместо текста, заголовки и
// карточки остаются видимыми.
package feed

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

// Service описывает интерфейс бизнес-логики ленты.
type Service interface {
	Feed(ctx context.Context, readerUID string) ([]*models.Post, error)
}

// Handler управляет HTTP-запросами на чтение ленты.
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
// @Summary Лента постов
// @Description Возвращает последние посты, пропущенные через гейт видимости для текущего читателя.
// @Tags Posts
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Лента постов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts/feed [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.feed"
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

	posts, err := h.service.Feed(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build feed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build feed"))
		return
	}

	log.Info("feed built", "count", len(posts))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(posts),
		"posts":      posts,
	}))
}
