package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, nil)

	token, err := m.GenerateAccessToken("user-1", "guest@example.com")
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "guest@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)

	again, err := m.GenerateAccessToken("user-1", "guest@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, token, again, "token IDs are unique")
}

func TestJWTManager_UsesClock(t *testing.T) {
	issuedAt := time.Date(2030, time.June, 1, 9, 0, 0, 0, time.UTC)
	m := NewJWTManager("secret", 30*time.Minute, clock.Fixed(issuedAt))

	token, err := m.GenerateAccessToken("user-1", "a@b.c")
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(30*time.Minute), claims.ExpiresAt.Time.UTC())

	later := NewJWTManager("secret", 30*time.Minute, clock.Fixed(issuedAt.Add(31*time.Minute)))
	_, err = later.ParseAndValidate(token)
	assert.Error(t, err, "expired by the verifier's clock")
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, nil)
	other := NewJWTManager("other-secret", time.Minute, nil)
	expired := NewJWTManager("secret", -time.Minute, nil)

	foreign, err := other.GenerateAccessToken("user-1", "a@b.c")
	require.NoError(t, err)
	stale, err := expired.GenerateAccessToken("user-1", "a@b.c")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(foreign)
	assert.Error(t, err, "wrong signing key")
	_, err = m.ParseAndValidate(stale)
	assert.Error(t, err, "expired token")
	_, err = m.ParseAndValidate("not-a-jwt")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("secret", time.Minute, nil)
	token, err := m.GenerateAccessToken("user-1", "a@b.c")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/private", AuthRequired(m), func(c *gin.Context) { c.String(http.StatusOK, GetUserID(c)) })
	r.GET("/public", OptionalAuth(m), func(c *gin.Context) { c.String(http.StatusOK, GetUserID(c)) })

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"Private without header", "/private", "", http.StatusUnauthorized, ""},
		{"Private with malformed header", "/private", "Token abc", http.StatusUnauthorized, ""},
		{"Private with bad token", "/private", "Bearer abc", http.StatusUnauthorized, ""},
		{"Private with token", "/private", "Bearer " + token, http.StatusOK, "user-1"},
		{"Public anonymous", "/public", "", http.StatusOK, ""},
		{"Public with bad token stays anonymous", "/public", "Bearer abc", http.StatusOK, ""},
		{"Public with token", "/public", "Bearer " + token, http.StatusOK, "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
