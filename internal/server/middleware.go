// internal/server/middleware.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "crm-assistant/internal/common/errors"
	"crm-assistant/internal/common/logger"
)

type contextKey string

const (
	ctxKeyRequestID contextKey = "requestID"
	ctxKeySubject   contextKey = "subject"
)

// RequestID assigns a UUID to every request for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, id)))
	})
}

// Recoverer converts panics into a 500 JSON error. The panic message is
// echoed in the body: this service is admin-facing only, and operators want
// the cause without grepping logs. Known hardening gap for anything public.
func Recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered", map[string]interface{}{
						"path":  r.URL.Path,
						"panic": fmt.Sprintf("%v", rec),
					})
					apperrors.WriteHTTP(w, apperrors.NewInternalError(fmt.Errorf("%v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs method, path, and duration for every request.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request", map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).String(),
			})
		})
	}
}

// JWTAuth verifies the bearer token issued by the CRM auth service and
// requires one of the allowed roles. Token issuance is out of scope here.
// An empty secret disables verification (local development).
func JWTAuth(secret string, allowedRoles []string) func(http.Handler) http.Handler {
	roles := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		roles[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				apperrors.WriteHTTP(w, &apperrors.StandardError{
					Code:    apperrors.ErrCodeAuthTokenInvalid,
					Message: "missing bearer token",
				})
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				apperrors.WriteHTTP(w, &apperrors.StandardError{
					Code:    apperrors.ErrCodeAuthTokenInvalid,
					Message: "invalid token",
				})
				return
			}

			role, _ := claims["role"].(string)
			if _, ok := roles[role]; !ok {
				apperrors.WriteHTTP(w, &apperrors.StandardError{
					Code:    apperrors.ErrCodeAuthForbidden,
					Message: "role not allowed",
				})
				return
			}

			sub, _ := claims["sub"].(string)
			ctx := context.WithValue(r.Context(), ctxKeySubject, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// subjectFrom returns the authenticated subject, or empty when auth is off.
func subjectFrom(ctx context.Context) string {
	sub, _ := ctx.Value(ctxKeySubject).(string)
	return sub
}
