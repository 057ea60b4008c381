package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/api/store"
	"portfolio/api/utils"
)

var secret = []byte("middleware-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func gatedRouter(t *testing.T, password, apiKey string) *gin.Engine {
	t.Helper()
	admin, err := store.NewAdminStore(password, "")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/report", AdminRequired(admin, secret, apiKey), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func get(r http.Handler, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRequired(t *testing.T) {
	valid, _, err := utils.GenerateJWT(secret, time.Now(), time.Hour)
	require.NoError(t, err)
	expired, _, err := utils.GenerateJWT(secret, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	foreign, _, err := utils.GenerateJWT([]byte("other"), time.Now(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*http.Request)
		want   int
	}{
		{"no credentials", nil, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AdminCookieName, Value: valid}) }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) }, http.StatusOK},
		{"expired", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) }, http.StatusUnauthorized},
		{"foreign secret", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+foreign) }, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, http.StatusUnauthorized},
		{"api key", func(r *http.Request) { r.Header.Set("X-API-KEY", "key-123") }, http.StatusOK},
		{"wrong api key", func(r *http.Request) { r.Header.Set("X-API-KEY", "key-999") }, http.StatusUnauthorized},
	}
	r := gatedRouter(t, "pw", "key-123")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(r, tt.mutate).Code)
		})
	}
}

func TestAdminRequiredEmptyAPIKeyNeverMatches(t *testing.T) {
	r := gatedRouter(t, "pw", "")
	w := get(r, func(req *http.Request) { req.Header.Set("X-API-KEY", "") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequiredDisabledPassesThrough(t *testing.T) {
	r := gatedRouter(t, "", "")
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
}
