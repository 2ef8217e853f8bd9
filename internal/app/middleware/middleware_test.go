package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, claims tokenClaims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter(handler gin.HandlerFunc, mws ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", append(mws, handler)...)
	return r
}

func TestAuthRequiredRejectsMissingCookie(t *testing.T) {
	r := newAuthRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, AuthRequired(testSecret))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsBadSignature(t *testing.T) {
	r := newAuthRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, AuthRequired(testSecret))

	token := signTestToken(t, "some-other-secret", tokenClaims{UserID: "u1"})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsExpiredToken(t *testing.T) {
	r := newAuthRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, AuthRequired(testSecret))

	token := signTestToken(t, testSecret, tokenClaims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredPopulatesContext(t *testing.T) {
	var gotID, gotEmail string
	var gotAdmin bool
	r := newAuthRouter(func(c *gin.Context) {
		gotID = GetUserIDFromContext(c)
		gotEmail = GetUserEmailFromContext(c)
		gotAdmin = IsAdminFromContext(c)
		c.Status(http.StatusOK)
	}, AuthRequired(testSecret))

	token := signTestToken(t, testSecret, tokenClaims{
		UserID:  "3a61011c-0000-0000-0000-000000000001",
		Email:   "traveler@example.com",
		IsAdmin: true,
	})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3a61011c-0000-0000-0000-000000000001", gotID)
	assert.Equal(t, "traveler@example.com", gotEmail)
	assert.True(t, gotAdmin)
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	var gotID string
	r := newAuthRouter(func(c *gin.Context) {
		gotID = GetUserIDFromContext(c)
		c.Status(http.StatusOK)
	}, OptionalAuth(testSecret))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, gotID)
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	var gotID string
	r := newAuthRouter(func(c *gin.Context) {
		gotID = GetUserIDFromContext(c)
		c.Status(http.StatusOK)
	}, OptionalAuth(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "not-a-jwt"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, gotID)
}

func TestAdminRequiredForbidsNonAdmin(t *testing.T) {
	r := newAuthRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, AuthRequired(testSecret), AdminRequired())

	token := signTestToken(t, testSecret, tokenClaims{UserID: "u1", IsAdmin: false})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRequiredAllowsAdmin(t *testing.T) {
	r := newAuthRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, AuthRequired(testSecret), AdminRequired())

	token := signTestToken(t, testSecret, tokenClaims{UserID: "u1", IsAdmin: true})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
