// Package traderhub предоставляет маршруты для основного приложения.
package traderhub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/trader-hub/internal/discord"
	"github.com/magabrotheeeer/trader-hub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/trader-hub/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/trader-hub/internal/http/handlers/auth/register"
	discordoauthurl "github.com/magabrotheeeer/trader-hub/internal/http/handlers/discord/oauthurl"
	"github.com/magabrotheeeer/trader-hub/internal/http/handlers/health"
	postcreate "github.com/magabrotheeeer/trader-hub/internal/http/handlers/post/create"
	postfeed "github.com/magabrotheeeer/trader-hub/internal/http/handlers/post/feed"
	subcancel "github.com/magabrotheeeer/trader-hub/internal/http/handlers/subscription/cancel"
	sublist "github.com/magabrotheeeer/trader-hub/internal/http/handlers/subscription/list"
	subsubscribe "github.com/magabrotheeeer/trader-hub/internal/http/handlers/subscription/subscribe"
	traderbecome "github.com/magabrotheeeer/trader-hub/internal/http/handlers/trader/become"
	traderget "github.com/magabrotheeeer/trader-hub/internal/http/handlers/trader/get"
	traderlist "github.com/magabrotheeeer/trader-hub/internal/http/handlers/trader/list"
	traderupsert "github.com/magabrotheeeer/trader-hub/internal/http/handlers/trader/upsert"
	"github.com/magabrotheeeer/trader-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/trader-hub/internal/models"
	authservice "github.com/magabrotheeeer/trader-hub/internal/services/auth"
	postservice "github.com/magabrotheeeer/trader-hub/internal/services/post"
	subservice "github.com/magabrotheeeer/trader-hub/internal/services/subscription"
	traderservice "github.com/magabrotheeeer/trader-hub/internal/services/trader"
	"github.com/magabrotheeeer/trader-hub/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.Service, traderService *traderservice.Service,
	subscriptionService *subservice.Service, postService *postservice.Service,
	discordClient *discord.Client) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/auth/me", me.New(logger).ServeHTTP)

			r.Get("/traders", traderlist.New(logger, traderService).ServeHTTP)
			r.Get("/traders/{uid}", traderget.New(logger, traderService).ServeHTTP)
			r.Post("/traders/become", traderbecome.New(logger, authService).ServeHTTP)

			r.Get("/subscriptions", sublist.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions", subsubscribe.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/{uid}/cancel", subcancel.New(logger, subscriptionService).ServeHTTP)

			r.Get("/posts/feed", postfeed.New(logger, postService).ServeHTTP)

			r.Get("/discord/oauth-url", discordoauthurl.New(logger, discordClient).ServeHTTP)

			// Конечные точки, требующие роль трейдера
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleTrader, models.RoleAdmin))
				r.Put("/traders/me", traderupsert.New(logger, traderService).ServeHTTP)
				r.Post("/posts", postcreate.New(logger, postService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
