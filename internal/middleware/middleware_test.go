package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"questpath/internal/model"
	"questpath/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name         string
		user         *model.UserProgress
		header       string
		expectedCode int
	}{
		{name: "anonymous", header: "Bearer tok-1", expectedCode: http.StatusUnauthorized},
		{name: "no credential", user: &model.UserProgress{ID: "u1"}, expectedCode: http.StatusUnauthorized},
		{name: "wrong token", user: &model.UserProgress{ID: "u1"}, header: "Bearer tok-2", expectedCode: http.StatusUnauthorized},
		{name: "not a bearer", user: &model.UserProgress{ID: "u1"}, header: "Basic tok-1", expectedCode: http.StatusUnauthorized},
		{name: "matching token", user: &model.UserProgress{ID: "u1"}, header: "Bearer tok-1", expectedCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &mocks.MockSessionService{}
			session.On("CurrentUser").Return(tt.user)
			session.On("Token").Return("tok-1").Maybe()
			authz := NewAuthorization(session)

			router := gin.New()
			router.GET("/me", authz.RequireSession(), func(c *gin.Context) {
				user, ok := CurrentUser(c)
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"id": user.ID})
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				assert.JSONEq(t, `{"id":"u1"}`, w.Body.String())
			}
		})
	}
}

func TestRequireSession_QueryTokenOnlyForUpgrades(t *testing.T) {
	session := &mocks.MockSessionService{}
	session.On("CurrentUser").Return(&model.UserProgress{ID: "u1"})
	session.On("Token").Return("tok-1")
	authz := NewAuthorization(session)

	router := gin.New()
	router.GET("/feed", authz.RequireSession(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed?access_token=tok-1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/feed?access_token=tok-1", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSession_EmptySessionToken(t *testing.T) {
	session := &mocks.MockSessionService{}
	session.On("CurrentUser").Return(&model.UserProgress{ID: "u1"})
	session.On("Token").Return("")
	authz := NewAuthorization(session)

	router := gin.New()
	router.GET("/me", authz.RequireSession(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrigins(t *testing.T) {
	origins := Origins{"https://app.example", "http://localhost:5173/"}

	assert.True(t, origins.Allow("https://app.example"))
	assert.True(t, origins.Allow("HTTPS://APP.EXAMPLE/"))
	assert.True(t, origins.Allow("http://localhost:5173"))
	assert.False(t, origins.Allow("https://evil.example"))
	assert.False(t, origins.Allow(""))

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{name: "non-browser client", origin: "", want: true},
		{name: "same host", origin: "http://api.local:8080", want: true},
		{name: "listed", origin: "https://app.example", want: true},
		{name: "foreign", origin: "https://evil.example", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://api.local:8080/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, origins.CheckRequest(req))
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiter("a")
	now = now.Add(visitorTTL + time.Second)
	rl.limiter("b")
	rl.evictIdle()

	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestRateLimiter_CleanupStops(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}

func TestRequestLogger(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(), Monitor())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed")
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed", w.Header().Get(RequestIDHeader))
}
