package http

import (
	"net/http"

	"github.com/go-auth-api/internal/application/auth"
	"github.com/go-auth-api/internal/application/recovery"
	"github.com/go-auth-api/internal/application/user"
	"github.com/go-auth-api/internal/config"
	"github.com/go-auth-api/internal/transport/http/handler"
	appmiddleware "github.com/go-auth-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 — applied to credential-bearing public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:     deps.UserRepo,
		SettingsRepo: deps.SettingsRepo,
		Mailer:       deps.Mailer,
		JWTProvider:  deps.JWTProvider,
	})
	recoverySvc := recovery.NewService(recovery.ServiceDeps{
		UserRepo:    deps.UserRepo,
		Mailer:      deps.Mailer,
		JWTProvider: deps.JWTProvider,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:     deps.UserRepo,
		SettingsRepo: deps.SettingsRepo,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	recoveryH := handler.NewRecoveryHandler(recoverySvc)
	profileH := handler.NewProfileHandler(userSvc)
	settingsH := handler.NewSettingsHandler(userSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		r.Route("/auth", func(r chi.Router) {
			r.With(sensitiveRL.Limit).Post("/register", authH.Register)
			r.With(sensitiveRL.Limit).Post("/login", authH.Login)
			r.With(sensitiveRL.Limit).Post("/forgot-password", recoveryH.ForgotPassword)
			r.With(sensitiveRL.Limit).Post("/verify-reset-code", recoveryH.VerifyResetCode)
			r.With(sensitiveRL.Limit).Post("/reset-password", recoveryH.ResetPassword)

			// The token presented is the credential under test; the guard
			// would mask the distinction between its failure modes.
			r.Get("/verify", authH.Verify)

			// ── Authenticated routes ────────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(authMw)

				r.Post("/logout", authH.Logout)
				r.Post("/change-password", authH.ChangePassword)
				r.Post("/delete-account", authH.DeleteAccount)

				r.Get("/profile", profileH.Get)
				r.Put("/profile", profileH.Update)
				r.Post("/avatar", profileH.UpdateAvatar)

				r.Get("/settings", settingsH.Get)
				r.Post("/settings", settingsH.Update)
			})
		})
	})

	return r
}
