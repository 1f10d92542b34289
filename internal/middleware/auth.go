package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/kahit-saan/menu-service/internal/errors"
	"github.com/kahit-saan/menu-service/internal/logging"
)

// Claims are the JWT claims the external auth collaborator signs admin
// tokens with.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"
)

// AuthMiddleware validates bearer JWTs against a shared HMAC secret.
type AuthMiddleware struct {
	secret []byte
	log    *logging.Logger
}

// NewAuthMiddleware creates an authentication middleware.
func NewAuthMiddleware(secret string, log *logging.Logger) *AuthMiddleware {
	if log == nil {
		log = logging.NewDefault("auth")
	}
	return &AuthMiddleware{secret: []byte(secret), log: log}
}

// Require wraps a handler so that only authenticated callers pass. When roles
// are given the caller's role must additionally be one of them.
func (m *AuthMiddleware) Require(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.authenticate(r)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			if len(allowed) > 0 && !allowed[claims.Role] {
				writeAuthError(w, apperrors.Forbidden("insufficient role"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, userRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.Unauthorized("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, apperrors.Unauthorized("invalid Authorization header format")
	}

	token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Unauthorized("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		m.log.WithError(err).Warn("token validation failed")
		return nil, apperrors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperrors.Unauthorized("invalid token claims")
	}
	return claims, nil
}

// GetUserID returns the authenticated user id stored in the context.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// GetUserRole returns the authenticated role stored in the context.
func GetUserRole(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}

func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.HTTPStatus(err))
	w.Write([]byte(`{"success":false,"message":"` + err.Error() + `"}`))
}
