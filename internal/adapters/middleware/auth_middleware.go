package middleware

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// AuthMiddleware verifies the trust token issued by the auth service. The
// token payload is accepted as-is: the `sub` claim becomes the caller
// identity for every authorization decision downstream. Roles are not read
// from the token; donor eligibility is re-derived from the donor directory
// where it matters.
type AuthMiddleware struct {
	publicKey   *rsa.PublicKey
	redisClient *redis.Client
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, redisClient *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey:   publicKey,
		redisClient: redisClient,
	}
}

type contextKey string

const UserIDKey contextKey = "userID"

// UserID extracts the authenticated caller identity set by RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("Missing Authorization header")
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Printf("Invalid Authorization header format")
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})

		if err != nil {
			log.Printf("Token parse error: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			log.Printf("Missing or invalid 'sub' claim: %v", claims["sub"])
			http.Error(w, "invalid token: missing user ID", http.StatusUnauthorized)
			return
		}

		if m.isRevoked(r.Context(), tokenString) {
			http.Error(w, "token revoked", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// isRevoked checks the logout denylist maintained by the auth service.
// A redis outage degrades to accepting the (cryptographically valid) token
// so that a cache failure does not take request handling down with it.
func (m *AuthMiddleware) isRevoked(ctx context.Context, tokenString string) bool {
	if m.redisClient == nil {
		return false
	}

	hash := sha256.Sum256([]byte(tokenString))
	key := "denylist:" + hex.EncodeToString(hash[:])

	n, err := m.redisClient.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("Denylist lookup failed: %v", err)
		return false
	}
	return n > 0
}
