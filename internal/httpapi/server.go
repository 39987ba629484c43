// Package httpapi exposes the article store, the feed composer and the
// account endpoints over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/cors"

	"news_portal/internal/domain"
	"news_portal/internal/feed"
	"news_portal/internal/service"
)

// Authenticator resolves bearer credentials and manages accounts.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*domain.Principal, error)
	Signup(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type Handler struct {
	articles *service.ArticleService
	auth     Authenticator
	composer *feed.Composer
	logger   *slog.Logger
}

func NewHandler(
	articles *service.ArticleService,
	auth Authenticator,
	composer *feed.Composer,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		articles: articles,
		auth:     auth,
		composer: composer,
		logger:   logger.With("component", "http"),
	}
}

// Router builds the chi route tree. Write endpoints rely on the article
// service's authorizer; the authenticate middleware only resolves who is
// calling.
func (h *Handler) Router(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		// Credentials are only sent to origins that are listed explicitly.
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
	}).Handler)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(h.authenticate)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		h.respond(w, r, OK(map[string]string{"status": "ok"}))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/news", func(r chi.Router) {
			r.Get("/", h.ListArticles)    // GET /api/news?pinned=true|id=|title=&category=
			r.Post("/", h.CreateArticle)  // POST /api/news
			r.Patch("/", h.ArticleAction) // PATCH /api/news {id, action}

			r.Route("/{articleID}", func(r chi.Router) {
				r.Get("/", h.GetArticle)
				r.Put("/", h.UpdateArticle)
				r.Patch("/", h.UpdateArticle)
				r.Delete("/", h.DeleteArticle)
				r.Post("/pin", h.PinArticle)
				r.Delete("/pin", h.UnpinArticle)
				r.Put("/live", h.SetLive)
			})
		})

		r.Route("/feed", func(r chi.Router) {
			r.Get("/home", h.HomeFeed)
			r.Get("/news/{articleID}", h.DetailFeed)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})
	})

	return r
}

func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		scheme, credential, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			h.fail(w, r, &domain.UnauthorizedError{Reason: "unsupported authorization scheme"})
			return
		}

		principal, err := h.auth.Authenticate(r.Context(), strings.TrimSpace(credential))
		if err != nil {
			h.fail(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), principal)))
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			h.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, resp *Response) {
	if err := render.Render(w, r, resp); err != nil {
		h.logger.Error("render response", "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse(err)
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	h.respond(w, r, resp)
}
