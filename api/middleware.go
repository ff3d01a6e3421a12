package api

import (
	"context"
	"net/http"
	"os"
	"strings"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/joblink/joblink/internal/auth"
	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/apperr"
	"github.com/joblink/joblink/pkg/repository"
)

type ctxKey string

const ctxUser ctxKey = "user"

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// UserFromContext returns the identity resolved by the auth middleware, or
// nil on unprotected routes.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxUser).(*models.User)
	return u
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request",
			slog.String("request_id", uuid.NewString()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(origin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err))
				writeError(w, apperr.Internal("panic", nil))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware resolves the caller's identity from the bearer header or the
// accessToken cookie and stores the full user record in the request context.
// Every failure is a 401; the route never sees an unresolved identity.
func AuthMiddleware(tokens *auth.TokenIssuer, users repository.UserRepo) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if c, err := r.Cookie("accessToken"); err == nil {
					tokenString = c.Value
				}
			}
			if tokenString == "" {
				writeError(w, apperr.Auth("Unauthorized request"))
				return
			}

			userID, err := tokens.VerifyAccess(tokenString)
			if err != nil {
				writeError(w, err)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				writeError(w, apperr.Internal("resolve identity", err))
				return
			}
			if user == nil {
				writeError(w, apperr.Auth("Invalid Access Token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a subrouter to the given roles. It fails closed: no
// identity is a 401, an identity outside the set is a 403.
func RequireRole(roles ...models.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeError(w, apperr.Auth("User not authenticated"))
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, apperr.Forbidden("You do not have permission to perform this action"))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
