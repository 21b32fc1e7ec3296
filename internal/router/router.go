package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itchan-dev/itboard/internal/middleware"
	"github.com/itchan-dev/itboard/internal/middleware/metrics"
	rl "github.com/itchan-dev/itboard/internal/middleware/ratelimiter"
	"github.com/itchan-dev/itboard/internal/setup"
)

// csp allows the local stylesheet and inline images served from /images.
const csp = "default-src 'self'; img-src 'self' data:; style-src 'self'; script-src 'self'; frame-ancestors 'none'; form-action 'self'"

// New creates the chi router with all routes.
// Auth.Load runs before the request logger so log lines carry the user id.
func New(deps *setup.Dependencies) http.Handler {
	cfg := deps.Config.Public
	h := deps.Handler
	auth := deps.Auth

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeadersWithCSP(cfg.SecureCookies, csp))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())
	if cfg.StaticPath != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticPath))))
	}

	csrfConfig := middleware.CSRFConfig{
		SecureCookies:  cfg.SecureCookies,
		MaxUploadBytes: cfg.MaxUploadSizeBytes,
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.Load())
		r.Use(middleware.RequestLogger)
		r.Use(middleware.GenerateCSRFToken(csrfConfig))
		r.Use(middleware.ValidateCSRFToken(csrfConfig))

		r.Get("/", h.IndexGetHandler)
		r.Get("/images/{filename}", h.ImageGetHandler)
		r.Get("/files/download/{fileId}", h.FileDownloadGetHandler)

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", h.BoardListGetHandler)
			r.Get("/{bno:[0-9]+}", h.BoardDetailGetHandler)
			r.Get("/{bno:[0-9]+}/delete", h.BoardDeleteGetHandler)

			r.Group(func(r chi.Router) {
				r.Use(auth.NeedAuth())
				// 1 post per 5 seconds per IP, bursts of 3
				r.With(middleware.RateLimit(rl.New(0.2, 3, time.Hour), h.Flash(), middleware.GetIP)).
					Post("/write", h.BoardWritePostHandler)
				r.Get("/write", h.BoardWriteGetHandler)
				r.Get("/{bno:[0-9]+}/contentModify", h.BoardModifyGetHandler)
				r.Post("/{bno:[0-9]+}/contentModify", h.BoardModifyPostHandler)
				r.Post("/{bno:[0-9]+}/delete", h.BoardDeletePostHandler)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/signup", h.SignupGetHandler)
			// 1 signup per 10 seconds per IP, bursts of 5
			r.With(middleware.RateLimit(rl.New(1.0/10, 5, time.Hour), h.Flash(), middleware.GetIP)).
				Post("/signup", h.SignupPostHandler)
			r.Get("/login", h.LoginGetHandler)
			// 1 attempt per second per IP, bursts of 5
			r.With(middleware.RateLimit(rl.New(1, 5, time.Hour), h.Flash(), middleware.GetIP)).
				Post("/login", h.LoginPostHandler)
			r.With(middleware.RequireCSRFQuery).Get("/logout", h.LogoutGetHandler)

			r.Group(func(r chi.Router) {
				r.Use(auth.NeedAuth())
				r.With(middleware.RequireCSRFQuery).Get("/remove", h.RemoveGetHandler)
				r.Get("/modify", h.ModifyGetHandler)
				r.Post("/modify", h.ModifyPostHandler)
			})
		})
	})

	// Set last so mounted subrouters pick it up too.
	r.NotFound(h.NotFound)

	return r
}
