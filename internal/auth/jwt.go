package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/saiinfotech/catalog-be/internal/models"
)

// tokenTTL is how long an issued bearer token stays valid.
const tokenTTL = 24 * time.Hour

// Claims defines the JWT claims structure.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// Auth issues and verifies bearer tokens with a server-held secret. The secret
// is injected at construction; there is no fallback value.
type Auth struct {
	key []byte
}

// New creates an Auth from the configured signing secret.
func New(secret string) (*Auth, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &Auth{key: []byte(secret)}, nil
}

// GenerateToken creates a new JWT for a given user.
func (a *Auth) GenerateToken(user models.User) (string, error) {
	expirationTime := time.Now().Add(tokenTTL)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.key)
}

// ParseToken parses and validates a JWT string.
func (a *Auth) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Middleware creates a middleware for protecting routes. A request without a
// bearer token is rejected with 401, one with an invalid or expired token
// with 403.
func (a *Auth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenStr = parts[1]
				}
			}

			if tokenStr == "" {
				writeMessage(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, err := a.ParseToken(tokenStr)
			if err != nil {
				writeMessage(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			// Pass claims down via context
			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the claims the middleware stored on the request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
