package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/trader-hub/internal/http/response"
	"github.com/magabrotheeeer/trader-hub/internal/lib/rbac"
	"github.com/magabrotheeeer/trader-hub/internal/models"
)

// RequireRole возвращает middleware, пропускающий запрос только если роль
// пользователя из контекста входит в allowed. Должен стоять после
// JWTMiddleware: отсутствие роли в контексте дает 401, чужая роль — 403.
func RequireRole(log *slog.Logger, allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			role, ok := r.Context().Value(Role).(models.Role)
			if !ok {
				log.Error("role not found in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if !rbac.Allowed(role, allowed...) {
				log.Warn("access denied", slog.String("role", string(role)))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
