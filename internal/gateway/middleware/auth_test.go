package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authjwt "github.com/minhquang4309/social-be/internal/modules/auth/infrastructure/jwt"
)

const testSecret = "test-secret"

// identityProbe records what identity, if any, the middleware injected.
func identityProbe(called *bool, userID *uuid.UUID, found *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		id, ok := r.Context().Value(ContextKeyUserId).(uuid.UUID)
		*found = ok
		if ok {
			*userID = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingTokenRejected(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	var called, found bool
	var got uuid.UUID
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)

	m.RequireAuth(identityProbe(&called, &got, &found)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAuth_ValidTokenInjectsIdentity(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	userID := uuid.New()

	token, err := authjwt.GenerateToken(testSecret, time.Minute, userID)
	require.NoError(t, err)

	var called, found bool
	var got uuid.UUID
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	m.RequireAuth(identityProbe(&called, &got, &found)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
	require.True(t, found)
	assert.Equal(t, userID, got)
}

func TestFlexibleAuth_NoTokenProceedsAsGuest(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	var called, found bool
	var got uuid.UUID
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts/abc", nil)

	m.FlexibleAuth(identityProbe(&called, &got, &found)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
	assert.False(t, found)
}

func TestFlexibleAuth_InvalidTokenProceedsAsGuest(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	forged, err := authjwt.GenerateToken("other-secret", time.Minute, uuid.New())
	require.NoError(t, err)

	var called, found bool
	var got uuid.UUID
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts/abc", nil)
	req.Header.Set("Authorization", "Bearer "+forged)

	m.FlexibleAuth(identityProbe(&called, &got, &found)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
	assert.False(t, found)
}

func TestFlexibleAuth_ValidTokenInjectsIdentity(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	userID := uuid.New()

	token, err := authjwt.GenerateToken(testSecret, time.Minute, userID)
	require.NoError(t, err)

	var called, found bool
	var got uuid.UUID
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	m.FlexibleAuth(identityProbe(&called, &got, &found)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
	require.True(t, found)
	assert.Equal(t, userID, got)
}
