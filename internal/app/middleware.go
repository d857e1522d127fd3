package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/casetrail/casetrail/internal/observability"
	"github.com/casetrail/casetrail/internal/platform/httpx"
	"github.com/casetrail/casetrail/internal/shared"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics
	Identity       func(http.Handler) http.Handler
}

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRateLimit      = 120
)

// MiddlewareStack returns the chain every CaseTrail route runs behind.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	stack := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		sessionMiddleware(cfg),
		middleware.Recoverer,
		middleware.Timeout(cfg.requestTimeout()),
		secureHeaders(cfg),
		middleware.Compress(5),
		rateLimit(cfg.rateLimit()),
		csrfMiddleware(cfg),
	}
	if cfg.Identity != nil {
		stack = append(stack, cfg.Identity)
	}
	if cfg.Metrics != nil {
		stack = append(stack, cfg.Metrics.Middleware)
	}
	return stack
}

func (cfg MiddlewareConfig) requestTimeout() time.Duration {
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		return cfg.Config.AppRequestTimeout
	}
	return defaultRequestTimeout
}

func (cfg MiddlewareConfig) rateLimit() int {
	if cfg.Config != nil && cfg.Config.RateLimit > 0 {
		return cfg.Config.RateLimit
	}
	return defaultRateLimit
}

// sessionMiddleware loads the session into the request context and saves it
// when the handler first writes.
func sessionMiddleware(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := cfg.SessionManager.Load(r.Context(), r)
			if err != nil {
				cfg.Logger.Error("load session", slog.Any("error", err))
				httpx.Problem(w, http.StatusServiceUnavailable, "Session store unavailable", "")
				return
			}
			ctx := shared.ContextWithSession(r.Context(), sess)
			cw := &committingWriter{ResponseWriter: w, commit: func() {
				if err := cfg.SessionManager.Commit(ctx, w, sess); err != nil {
					cfg.Logger.Error("commit session", slog.String("session", sess.ID), slog.Any("error", err))
				}
			}}
			next.ServeHTTP(cw, r.WithContext(ctx))
			cw.flush()
		})
	}
}

// committingWriter runs commit once, right before the status line goes out,
// since Set-Cookie cannot be added afterwards.
type committingWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *committingWriter) flush() {
	if !w.committed {
		w.committed = true
		w.commit()
	}
}

func (w *committingWriter) WriteHeader(status int) {
	w.flush()
	w.ResponseWriter.WriteHeader(status)
}

func (w *committingWriter) Write(p []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(p)
}

func (w *committingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// csrfMiddleware rejects unsafe requests whose X-CSRF-Token does not match
// the session.
func csrfMiddleware(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if safeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if err := cfg.CSRFManager.VerifyToken(ctx, shared.SessionFromContext(ctx), shared.FromRequest(r)); err != nil {
				cfg.Logger.Warn("csrf rejected",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(ctx)),
					slog.Any("error", err),
				)
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing or invalid CSRF token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// secureHeaders applies the unrolled/secure policy for a JSON API that is
// never framed and never serves active content.
func secureHeaders(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	production := cfg.Config.IsProduction()
	policy := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		STSSeconds:            31536000,
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !production,
	})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := policy.Process(w, r); err != nil {
				cfg.Logger.Warn("secure policy blocked request", slog.String("host", r.Host), slog.Any("error", err))
				httpx.Problem(w, http.StatusBadRequest, "Bad Request", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "")
		}),
	)
}
