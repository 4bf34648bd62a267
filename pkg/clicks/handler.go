package clicks

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopello/urisign/pkg/logger"
	"github.com/shopello/urisign/pkg/signuri"
)

type handler struct {
	recorder    Recorder
	logger      *slog.Logger
	fallbackURL string
	stats       bool
}

// Option configures Router.
type Option func(*handler)

// WithLogger sets the logger for rejected links and recorder failures.
func WithLogger(l *slog.Logger) Option {
	return func(h *handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithFallbackURL redirects rejected links to url instead of answering 404.
func WithFallbackURL(url string) Option {
	return func(h *handler) { h.fallbackURL = url }
}

// WithStatsEndpoint serves the recorder's counters as JSON on GET /stats when
// the recorder implements StatsReader.
func WithStatsEndpoint() Option {
	return func(h *handler) { h.stats = true }
}

// Router serves GET /r for signed click links.
func Router(s *signuri.Signer, rec Recorder, opts ...Option) chi.Router {
	h := &handler{
		recorder: rec,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.recorder == nil {
		h.recorder = NewMemoryRecorder()
	}

	r := chi.NewRouter()
	r.With(signuri.Middleware(s,
		signuri.WithRequired(),
		signuri.WithErrorHandler(http.HandlerFunc(h.reject)),
	)).Get("/r", h.redirect)

	if sr, ok := h.recorder.(StatsReader); ok && h.stats {
		r.Get("/stats", h.serveStats(sr))
	}
	return r
}

func (h *handler) redirect(w http.ResponseWriter, r *http.Request) {
	c, ok := signuri.PayloadFromContext[Click](r.Context())
	if !ok {
		h.reject(w, r)
		return
	}
	if err := c.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "signed click with unusable target",
			logger.Component("clicks"),
			logger.Error(err),
		)
		h.reject(w, r)
		return
	}

	if err := h.recorder.Record(r.Context(), c); err != nil {
		h.logger.ErrorContext(r.Context(), "click not recorded",
			logger.Component("clicks"),
			logger.Error(err),
		)
	}

	h.logger.DebugContext(r.Context(), "click redirect",
		logger.Component("clicks"),
		logger.Target(c.URL),
	)
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, c.URL, http.StatusFound)
}

func (h *handler) reject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if h.fallbackURL != "" {
		http.Redirect(w, r, h.fallbackURL, http.StatusFound)
		return
	}
	http.Error(w, "link not found", http.StatusNotFound)
}

func (h *handler) serveStats(sr StatsReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := sr.Stats(r.Context())
		if err != nil {
			h.logger.ErrorContext(r.Context(), "click stats unavailable",
				logger.Component("clicks"),
				logger.Error(err),
			)
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	}
}
