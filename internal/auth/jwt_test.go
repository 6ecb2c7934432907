package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiinfotech/catalog-be/internal/models"
)

func TestNew_RejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := New("")
	require.Error(t, err)
}

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	a, err := New("test-secret")
	require.NoError(t, err)

	user := models.User{ID: 7, Username: "admin"}
	token, err := a.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := a.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	a, err := New("test-secret")
	require.NoError(t, err)
	other, err := New("other-secret")
	require.NoError(t, err)

	token, err := a.GenerateToken(models.User{ID: 1, Username: "admin"})
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}

func TestParseToken_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	a, err := New("test-secret")
	require.NoError(t, err)

	claims := &Claims{
		UserID:   1,
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
	require.NoError(t, err)

	_, err = a.ParseToken(expired)
	require.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	a, err := New("test-secret")
	require.NoError(t, err)

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := a.Middleware()(next)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := a.GenerateToken(models.User{ID: 42, Username: "admin"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, int64(42), gotClaims.UserID)
	})
}
