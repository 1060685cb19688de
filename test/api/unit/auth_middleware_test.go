package unit

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lifelink/blood-donation/request-service/internal/adapters/middleware"
)

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	m := middleware.NewAuthMiddleware(&key.PublicKey, nil)

	validClaims := jwt.MapClaims{
		"sub": "user-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name       string
		authHeader string
		wantCode   int
		wantUserID string
	}{
		{
			name:       "valid_token",
			authHeader: "Bearer " + signToken(t, key, validClaims),
			wantCode:   http.StatusOK,
			wantUserID: "user-1",
		},
		{
			name:       "missing_header",
			authHeader: "",
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "malformed_header",
			authHeader: "Token abc",
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "wrong_signing_key",
			authHeader: "Bearer " + signToken(t, otherKey, validClaims),
			wantCode:   http.StatusUnauthorized,
		},
		{
			name: "expired_token",
			authHeader: "Bearer " + signToken(t, key, jwt.MapClaims{
				"sub": "user-1",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "missing_sub_claim",
			authHeader: "Bearer " + signToken(t, key, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string
			next := func(w http.ResponseWriter, r *http.Request) {
				gotUserID = middleware.UserID(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			m.RequireAuth(next)(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantUserID != "" && gotUserID != tt.wantUserID {
				t.Errorf("expected user id %q in context, got %q", tt.wantUserID, gotUserID)
			}
		})
	}
}
