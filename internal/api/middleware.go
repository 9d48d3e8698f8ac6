package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oseayemenre/bookstore/internal/jwt"
	"github.com/oseayemenre/bookstore/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

var (
	errNoToken      = errors.New("No token provided")
	errInvalidToken = errors.New("Invalid token")
	errAccessDenied = errors.New("Access denied")
)

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriterWrapper(w http.ResponseWriter) *responseWriterWrapper {
	return &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *responseWriterWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriterWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Hijack passes through to the underlying writer so websocket upgrades work
// behind the logging middleware.
func (w *responseWriterWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)

	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}

	return h.Hijack()
}

func (a *Api) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := newResponseWriterWrapper(w)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		if a.metrics != nil {
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			a.metrics.Requests.WithLabelValues(route, r.Method, strconv.Itoa(ww.statusCode)).Inc()
			a.metrics.LatencyMS.WithLabelValues(route).Observe(float64(duration.Microseconds()) / 1000)
		}

		a.logger.Info(
			"request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.statusCode),
			slog.String("duration", duration.String()),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
		)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	// Browsers cannot set headers on websocket upgrades.
	return r.URL.Query().Get("token")
}

func (a *Api) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)

		if token == "" {
			a.logger.Warn("no token provided", "status", "permission denied")
			respondWithError(w, http.StatusUnauthorized, errNoToken)
			return
		}

		claims, err := jwt.DecodeJWTToken(token, a.config.Jwt_secret)

		if err != nil {
			a.logger.Warn(err.Error(), "status", "permission denied")
			respondWithError(w, http.StatusUnauthorized, errInvalidToken)
			return
		}

		identity := &models.Identity{
			Id:       claims.Id,
			Username: claims.Username,
			Role:     claims.Role,
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

func (a *Api) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFrom(r)

			if identity == nil {
				respondWithError(w, http.StatusUnauthorized, errNoToken)
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			a.logger.Warn(fmt.Sprintf("role %s cannot access this route", identity.Role), "status", "permission denied")
			respondWithError(w, http.StatusForbidden, errAccessDenied)
		})
	}
}

func identityFrom(r *http.Request) *models.Identity {
	identity, _ := r.Context().Value(identityKey).(*models.Identity)
	return identity
}
