package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/pricing/internal/infrastructure/auth"
	"github.com/erp/pricing/internal/infrastructure/authority"
	"github.com/erp/pricing/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	cfg := config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	}
	return auth.NewJWTService(cfg)
}

func newTestToken(t *testing.T, jwtService *auth.JWTService) (string, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testuser",
	}
	token, err := jwtService.GenerateAccessToken(input)
	require.NoError(t, err)
	return token, input
}

func newProtectedRouter(cfg JWTMiddlewareConfig, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuthMiddlewareWithConfig(cfg))
	r.GET("/protected", handler)
	r.GET("/health", handler)
	r.GET("/swagger/index.html", handler)
	return r
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	token, input := newTestToken(t, jwtService)

	var gotUserID, gotUsername string
	r := newProtectedRouter(DefaultJWTConfig(jwtService), func(c *gin.Context) {
		gotUserID = GetJWTUserID(c)
		gotUsername = GetJWTUsername(c)
		okHandler(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, input.UserID.String(), gotUserID)
	assert.Equal(t, "testuser", gotUsername)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	r := newProtectedRouter(DefaultJWTConfig(newTestJWTService()), okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	r := newProtectedRouter(DefaultJWTConfig(newTestJWTService()), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	expiredService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "test-issuer",
	})
	token, _ := newTestToken(t, expiredService)

	r := newProtectedRouter(DefaultJWTConfig(expiredService), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	r := newProtectedRouter(DefaultJWTConfig(newTestJWTService()), okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_ForwardCredential(t *testing.T) {
	jwtService := newTestJWTService()
	token, _ := newTestToken(t, jwtService)

	var forwarded string
	var found bool
	r := newProtectedRouter(DefaultJWTConfig(jwtService), func(c *gin.Context) {
		forwarded, found = authority.CredentialFromContext(c.Request.Context())
		okHandler(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, found)
	assert.Equal(t, token, forwarded)
}

func TestJWTAuthMiddleware_ForwardCredentialDisabled(t *testing.T) {
	jwtService := newTestJWTService()
	token, _ := newTestToken(t, jwtService)

	cfg := DefaultJWTConfig(jwtService)
	cfg.ForwardCredential = false

	var found bool
	r := newProtectedRouter(cfg, func(c *gin.Context) {
		_, found = authority.CredentialFromContext(c.Request.Context())
		okHandler(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, found)
}

func TestJWTAuthMiddleware_OnErrorCallback(t *testing.T) {
	cfg := DefaultJWTConfig(newTestJWTService())
	var callbackErr error
	cfg.OnError = func(c *gin.Context, err error) {
		callbackErr = err
		c.AbortWithStatus(http.StatusForbidden)
	}

	r := newProtectedRouter(cfg, okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.ErrorIs(t, callbackErr, auth.ErrInvalidToken)
}

func TestGetJWTClaims(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTUsername(c))

	claims := &auth.Claims{UserID: "u-1", Username: "testuser"}
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTUsernameKey, claims.Username)

	assert.Equal(t, claims, GetJWTClaims(c))
	assert.Equal(t, "u-1", GetJWTUserID(c))
	assert.Equal(t, "testuser", GetJWTUsername(c))
}
