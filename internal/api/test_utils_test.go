package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/service"
	"github.com/cookbook-app/backend/internal/testhelpers"
)

type stubImageStore struct{}

func (stubImageStore) Store(ctx context.Context, encoded string) (string, error) {
	return "https://img.test/stored.png", nil
}

// setupTestRouter builds the full API against an in-memory database.
// Rate limiting is off because no Redis client is wired.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	router := gin.New()
	router.Use(gin.Recovery())

	SetupAPI(router, Dependencies{
		DB:        db,
		Images:    stubImageStore{},
		JWTSecret: "test-jwt-secret",
		Limits:    service.DefaultRecipeLimits(),
	})

	return router, db
}

// doRequest performs one request against the router. A non-empty token
// is sent as a bearer credential; a non-nil body is JSON-encoded.
func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

// registerAndLogin creates an account through the API and returns its
// bearer token together with the user id.
func registerAndLogin(t *testing.T, router *gin.Engine, slug string) (string, uint) {
	t.Helper()

	email := fmt.Sprintf("%s@example.com", slug)
	register := doRequest(t, router, http.MethodPost, "/api/users", "", gin.H{
		"email":      email,
		"username":   slug,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "supersecret",
	})
	require.Equal(t, http.StatusCreated, register.Code, register.Body.String())

	var user UserResponse
	require.NoError(t, json.Unmarshal(register.Body.Bytes(), &user))

	login := doRequest(t, router, http.MethodPost, "/api/auth/token/login", "", gin.H{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	var payload struct {
		AuthToken string `json:"auth_token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.AuthToken)

	return payload.AuthToken, user.ID
}

func decodeJSON(t *testing.T, recorder *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), target), recorder.Body.String())
}
