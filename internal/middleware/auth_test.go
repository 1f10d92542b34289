package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kahit-saan/menu-service/internal/logging"
)

const authTestSecret = "auth-test-secret"

func signToken(t *testing.T, secret, role string, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: "user-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func protectedHandler(t *testing.T, roles ...string) (http.Handler, *string, *string) {
	t.Helper()
	var gotID, gotRole string
	auth := NewAuthMiddleware(authTestSecret, logging.Discard())
	handler := auth.Require(roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotRole = GetUserRole(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	return handler, &gotID, &gotRole
}

func TestRequirePassesValidToken(t *testing.T) {
	handler, gotID, gotRole := protectedHandler(t, "admin")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, authTestSecret, "admin", time.Now().Add(time.Hour)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.Code, resp.Body.String())
	}
	if *gotID != "user-1" || *gotRole != "admin" {
		t.Fatalf("claims not propagated: id=%q role=%q", *gotID, *gotRole)
	}
}

func TestRequireRejectsBadHeaders(t *testing.T) {
	handler, _, _ := protectedHandler(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", "admin", time.Now().Add(time.Hour))},
		{"expired", "Bearer " + signToken(t, authTestSecret, "admin", time.Now().Add(-time.Hour))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)
			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.Code)
			}
		})
	}
}

func TestRequireRejectsUnsignedAlgorithm(t *testing.T) {
	handler, _, _ := protectedHandler(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "user-1",
		Role:   "admin",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for alg=none token, got %d", resp.Code)
	}
}

func TestRequireEnforcesRole(t *testing.T) {
	handler, _, _ := protectedHandler(t, "admin")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, authTestSecret, "staff", time.Now().Add(time.Hour)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestRequireWithoutRolesAcceptsAnyAuthenticatedCaller(t *testing.T) {
	handler, _, gotRole := protectedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, authTestSecret, "staff", time.Now().Add(time.Hour)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if *gotRole != "staff" {
		t.Fatalf("role not propagated: %q", *gotRole)
	}
}
