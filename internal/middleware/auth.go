package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-bill-tracker/internal/auth"
	"go-bill-tracker/internal/model"
	"go-bill-tracker/pkg/apierror"
)

type tokenVerifier interface {
	Verify(tokenString string) (string, error)
}

type principalResolver interface {
	ResolvePrincipal(ctx context.Context, identityID string) (model.Principal, error)
}

// AuthedHandlerFunc is a handler that runs only for an authenticated caller.
type AuthedHandlerFunc func(w http.ResponseWriter, r *http.Request, principal model.Principal)

const (
	reasonMissingToken     = "missing_token"
	reasonMalformedToken   = "malformed_token"
	reasonInvalidSignature = "invalid_signature"
	reasonExpired          = "expired"
	reasonUnknownIdentity  = "unknown_identity"
)

type AuthMiddleware struct {
	tokens     tokenVerifier
	principals principalResolver
}

func NewAuthMiddleware(tokens tokenVerifier, principals principalResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, principals: principals}
}

// Protected authenticates the request and hands the resolved principal to
// next. Every rejection is a 401 and next never runs.
func (m *AuthMiddleware) Protected(next AuthedHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			m.reject(w, r, reasonMissingToken, "Not authorized, no token")
			return
		}

		identityID, err := m.tokens.Verify(token)
		if err != nil {
			m.reject(w, r, verifyFailureReason(err), "Not authorized, token failed")
			return
		}

		principal, err := m.principals.ResolvePrincipal(r.Context(), identityID)
		if errors.Is(err, model.ErrUserNotFound) {
			m.reject(w, r, reasonUnknownIdentity, "Not authorized, token failed")
			return
		}
		if err != nil {
			slog.Error("resolve principal failed", "error", err, "path", r.URL.Path)
			writeErrorJSON(w, http.StatusInternalServerError, apierror.CodeInternal, "Unexpected server error")
			return
		}

		next(w, r, principal)
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, reason string, message string) {
	authFailuresTotal.WithLabelValues(reason).Inc()
	slog.Debug("request rejected by auth gate", "reason", reason, "method", r.Method, "path", r.URL.Path)
	writeErrorJSON(w, http.StatusUnauthorized, apierror.CodeUnauthenticated, message)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func verifyFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return reasonExpired
	case errors.Is(err, auth.ErrTokenInvalidSignature):
		return reasonInvalidSignature
	default:
		return reasonMalformedToken
	}
}
