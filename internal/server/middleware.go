package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maxaizer/vacancy-service/internal/apperrors"
	"github.com/maxaizer/vacancy-service/internal/entities"
	"github.com/maxaizer/vacancy-service/internal/metrics"
)

type userResolver interface {
	CurrentUser(ctx context.Context, token string) (*entities.User, error)
}

type contextKey string

const currentUserContextKey contextKey = "current_user"

type AuthMiddleware struct {
	auth userResolver
}

func NewAuthMiddleware(auth userResolver) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireActiveUser resolves the bearer token into a user and rejects
// requests from inactive users.
func (m *AuthMiddleware) RequireActiveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, apperrors.Unauthorized("not authenticated"))
			return
		}

		user, err := m.auth.CurrentUser(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		if !user.IsActive {
			writeError(w, apperrors.BadRequest("inactive user"))
			return
		}

		ctx := context.WithValue(r.Context(), currentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromContext(ctx context.Context) (*entities.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(*entities.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(header[7:]), true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestMetrics observes request durations labeled by route pattern.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil && routeCtx.RoutePattern() != "" {
			path = routeCtx.RoutePattern()
		}
		metrics.RequestDuration.
			WithLabelValues(r.Method, path, strconv.Itoa(recorder.status)).
			Observe(time.Since(start).Seconds())
	})
}
