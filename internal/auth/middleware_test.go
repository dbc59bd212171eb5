package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlink/wanderlink-backend/internal/common/utils"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, tokenType string) string {
	t.Helper()

	now := time.Now()
	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    "user-123",
		Type:      tokenType,
		ExpiresAt: now.Add(time.Hour).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "wanderlink",
	}, testSecret)
	require.NoError(t, err)
	return token
}

func protectedProbe(gotUserID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := GetUserIDFromContext(r.Context()); ok {
			*gotUserID = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatePassesValidAccessToken(t *testing.T) {
	var gotUserID string
	handler := NewMiddleware(testSecret).Authenticate(protectedProbe(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "access"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-123", gotUserID)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	var gotUserID string
	handler := NewMiddleware(testSecret).Authenticate(protectedProbe(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, gotUserID)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	var gotUserID string
	handler := NewMiddleware(testSecret).Authenticate(protectedProbe(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "refresh"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	var gotUserID string
	handler := NewMiddleware("a-different-secret").Authenticate(protectedProbe(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "access"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	var gotUserID string
	handler := NewMiddleware(testSecret).Authenticate(protectedProbe(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
