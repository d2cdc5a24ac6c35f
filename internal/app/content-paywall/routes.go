package contentpaywall

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/content-paywall/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/content-paywall/internal/http/handlers/auth/register"
	contentcreate "github.com/magabrotheeeer/content-paywall/internal/http/handlers/content/create"
	contentlist "github.com/magabrotheeeer/content-paywall/internal/http/handlers/content/list"
	contentread "github.com/magabrotheeeer/content-paywall/internal/http/handlers/content/read"
	contentremove "github.com/magabrotheeeer/content-paywall/internal/http/handlers/content/remove"
	contentupdate "github.com/magabrotheeeer/content-paywall/internal/http/handlers/content/update"
	"github.com/magabrotheeeer/content-paywall/internal/http/handlers/health"
	paymentlist "github.com/magabrotheeeer/content-paywall/internal/http/handlers/payment/list"
	"github.com/magabrotheeeer/content-paywall/internal/http/handlers/purchase/buycontent"
	"github.com/magabrotheeeer/content-paywall/internal/http/handlers/purchase/buyservice"
	"github.com/magabrotheeeer/content-paywall/internal/http/handlers/purchase/stripewebhook"
	subscriptionlist "github.com/magabrotheeeer/content-paywall/internal/http/handlers/subscription/list"
	userprofile "github.com/magabrotheeeer/content-paywall/internal/http/handlers/user/profile"
	userupdate "github.com/magabrotheeeer/content-paywall/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/content-paywall/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-paywall/internal/models"
	accessservice "github.com/magabrotheeeer/content-paywall/internal/services/access"
	authservice "github.com/magabrotheeeer/content-paywall/internal/services/auth"
	contentservice "github.com/magabrotheeeer/content-paywall/internal/services/content"
	"github.com/magabrotheeeer/content-paywall/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.AuthService, contentService *contentservice.ContentService,
	accessService *accessservice.AccessService, webhookSecret string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/content/free", contentlist.New(logger, contentService, models.ContentKindFree).ServeHTTP)
		r.Get("/content/paid", contentlist.New(logger, contentService, models.ContentKindPaid).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/content", contentcreate.New(logger, contentService).ServeHTTP)
			r.Get("/content/{id}", contentread.New(logger, contentService).ServeHTTP)
			r.Put("/content/{id}", contentupdate.New(logger, contentService).ServeHTTP)
			r.Delete("/content/{id}", contentremove.New(logger, contentService).ServeHTTP)
			r.Post("/content/paid/{id}/buy", buycontent.New(logger, accessService).ServeHTTP)
			r.Post("/service/subscribe", buyservice.New(logger, accessService).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, accessService).ServeHTTP)
			r.Get("/subscriptions", subscriptionlist.New(logger, accessService).ServeHTTP)
			r.Get("/users/me", userprofile.New(logger, db).ServeHTTP)
			r.Put("/users/me", userupdate.New(logger, db).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации, подпись проверяется отдельно)
		r.Post("/payments/webhook", stripewebhook.New(logger, accessService, webhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
