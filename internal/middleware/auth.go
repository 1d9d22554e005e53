package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Ivaan2/studio/internal/auth/verifier"
	"github.com/Ivaan2/studio/internal/httpapi"
	"github.com/Ivaan2/studio/internal/logger"
)

// unexported, collision-proof context key
type subjectContextKeyType struct{}

var subjectKey = subjectContextKeyType{}

// SubjectFromContext extracts the authenticated subject from context.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey).(string)
	return s, ok
}

// ContextWithSubject attaches a verified subject to the context. Only
// RequireAuth and tests should need this.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

type AuthMiddleware struct {
	Verifier verifier.Verifier
}

func NewAuthMiddleware(v verifier.Verifier) *AuthMiddleware {
	return &AuthMiddleware{Verifier: v}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Extract the bearer token. A missing or malformed header is
		// rejected before any verification call is made; it is logged
		// under its own reason so it stays distinguishable from a
		// credential that was present but rejected.
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			logger.Warn("request rejected", map[string]any{
				"reason": "missing_or_malformed_header",
				"path":   r.URL.Path,
			})
			httpapi.WriteError(w, http.StatusUnauthorized,
				httpapi.CodeUnauthorized, "unauthorized")
			return
		}

		// 2. Verify against the identity provider
		subject, err := a.Verifier.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, verifier.ErrServiceUnavailable) {
				logger.Error("token verification unavailable", map[string]any{
					"error": err.Error(),
					"path":  r.URL.Path,
				})
				httpapi.WriteError(w, http.StatusServiceUnavailable,
					httpapi.CodeServiceUnavailable, "authentication temporarily unavailable")
				return
			}
			logger.Warn("request rejected", map[string]any{
				"reason": "invalid_credential",
				"path":   r.URL.Path,
			})
			httpapi.WriteError(w, http.StatusUnauthorized,
				httpapi.CodeUnauthorized, "unauthorized")
			return
		}

		// 3. Attach subject to context and continue
		ctx := ContextWithSubject(r.Context(), subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken requires the header to be exactly "Bearer <token>" with a
// non-empty token.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
