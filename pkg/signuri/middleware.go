package signuri

import (
	"context"
	"encoding/json"
	"net/http"
)

type payloadKey struct{}

// WithPayload stores an authenticated raw payload in ctx.
func WithPayload(ctx context.Context, raw json.RawMessage) context.Context {
	return context.WithValue(ctx, payloadKey{}, raw)
}

// RawPayloadFromContext returns the payload stored by Middleware.
func RawPayloadFromContext(ctx context.Context) (json.RawMessage, bool) {
	if ctx == nil {
		return nil, false
	}
	raw, ok := ctx.Value(payloadKey{}).(json.RawMessage)
	return raw, ok
}

// PayloadFromContext decodes the payload stored by Middleware into T.
func PayloadFromContext[T any](ctx context.Context) (T, bool) {
	var payload T
	raw, ok := RawPayloadFromContext(ctx)
	if !ok {
		return payload, false
	}
	if err := unmarshalPayload(raw, &payload); err != nil {
		var zero T
		return zero, false
	}
	return payload, true
}

type middlewareConfig struct {
	required     bool
	errorHandler http.Handler
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithRequired rejects requests without a valid signed parameter.
func WithRequired() MiddlewareOption {
	return func(c *middlewareConfig) { c.required = true }
}

// WithErrorHandler replaces the default 403 response for rejected requests.
func WithErrorHandler(h http.Handler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

// Middleware verifies the signer's parameter on every request. Authenticated
// payloads are exposed through PayloadFromContext. Requests without a valid
// token pass through untouched unless WithRequired is set.
func Middleware(s *Signer, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{errorHandler: http.HandlerFunc(defaultErrorHandler)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := verifyContext[json.RawMessage](r.Context(), s, r.URL.RequestURI())
			if !ok {
				if cfg.required {
					cfg.errorHandler.ServeHTTP(w, r)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPayload(r.Context(), raw)))
		})
	}
}
