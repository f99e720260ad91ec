package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-questionnaire-nosql/internal/application/auth"
	"github.com/go-questionnaire-nosql/internal/application/questionnaire"
	"github.com/go-questionnaire-nosql/internal/application/user"
	"github.com/go-questionnaire-nosql/internal/config"
	"github.com/go-questionnaire-nosql/internal/transport/http/handler"
	"github.com/go-questionnaire-nosql/internal/transport/http/httperr"
	appmiddleware "github.com/go-questionnaire-nosql/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustedProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.Metrics(deps.Metrics))
	r.Use(appmiddleware.Secure(appmiddleware.SecureOptions(cfg.IsProduction())))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // the auth cookie travels cross-origin from the UI
		MaxAge:           300,
	}))

	authSvc := auth.NewService(auth.ServiceDeps{
		Tokens:   deps.JWTProvider,
		UserRepo: deps.UserRepo,
		Metrics:  deps.Metrics,
	})
	userSvc := user.NewService(user.ServiceDeps{UserRepo: deps.UserRepo, Issuer: authSvc})
	questionnaireSvc := questionnaire.NewService(questionnaire.ServiceDeps{
		ResponseRepo: deps.ResponseRepo,
		Metrics:      deps.Metrics,
	})

	requireAuth := appmiddleware.Auth(authSvc, cfg.AuthCookieName)
	optionalAuth := appmiddleware.Optional(authSvc, cfg.AuthCookieName)
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.LoginRate), cfg.LoginBurst)

	healthH := handler.NewHealthHandler()
	questionH := handler.NewQuestionHandler(deps.Questions)
	authH := handler.NewAuthHandler(userSvc, handler.CookieConfig{
		Name:   cfg.AuthCookieName,
		MaxAge: deps.JWTProvider.Expiry(),
		Secure: cfg.IsProduction(),
	})
	qH := handler.NewQuestionnaireHandler(questionnaireSvc)

	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// ── Public routes ────────────────────────────────────────────────────
		r.Get("/health", healthH.Ping)
		r.Get("/questions", questionH.List)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.Post("/auth/logout", authH.Logout)
		r.With(optionalAuth).Get("/auth/verify", authH.Verify)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", authH.Me)
			r.Get("/questionnaire/response", qH.Get)
			r.Post("/questionnaire/answer", qH.Answer)
			r.Post("/questionnaire/answers", qH.Answers)
			r.Post("/questionnaire/reset", qH.Reset)
			r.Get("/questionnaire/stats", qH.Stats)
		})

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			httperr.WriteMessage(w, http.StatusNotFound, "not_found", "API route not found")
		})
	})

	return r
}
