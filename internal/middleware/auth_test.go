package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	claims *TokenClaims
	err    error
}

func (s stubValidator) ValidateToken(token string) (*TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func runRequest(handler gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, uint) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var viewerID uint
	router.GET("/probe", handler, func(c *gin.Context) {
		viewerID = ViewerID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder, viewerID
}

func TestAuthMiddleware(t *testing.T) {
	valid := stubValidator{claims: &TokenClaims{UserID: 42}}

	resp, viewerID := runRequest(AuthMiddleware(valid), "Bearer good-token")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 42, viewerID)

	resp, _ = runRequest(AuthMiddleware(valid), "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp, _ = runRequest(AuthMiddleware(valid), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	bad := stubValidator{err: errors.New("expired")}
	resp, _ = runRequest(AuthMiddleware(bad), "Bearer expired-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	valid := stubValidator{claims: &TokenClaims{UserID: 7}}

	// Anonymous requests pass through with a zero viewer id.
	resp, viewerID := runRequest(OptionalAuthMiddleware(valid), "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Zero(t, viewerID)

	resp, viewerID = runRequest(OptionalAuthMiddleware(valid), "Bearer good-token")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.EqualValues(t, 7, viewerID)

	// A supplied but invalid token is still rejected.
	bad := stubValidator{err: errors.New("expired")}
	resp, _ = runRequest(OptionalAuthMiddleware(bad), "Bearer expired-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
