package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"folio/internal/auth"
	"folio/internal/domain/models"
	"folio/internal/httputil"
)

// AuthMiddleware verifies a bearer token when one is sent and stores the
// claims in the request context. Requests without a token pass through
// anonymously; RequireRole decides whether a route needs an identity.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}

// DevAuthMiddleware stamps every request with a fixed identity holding role.
// Only wired when ENVIRONMENT=dev and no verifier is configured.
func DevAuthMiddleware(userID, role string) func(http.Handler) http.Handler {
	claims := &models.Claims{Role: role}
	claims.Subject = userID

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}

// RequireRole rejects anonymous requests with 401 and requests whose token
// lacks role with 403.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := httputil.GetClaims(r)
			if claims == nil {
				httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !claims.HasRole(role) {
				httputil.RespondError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
