package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lefri/config"
	"lefri/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/private", JWTAuthUserMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.ContextKeyUserID))
	})
	return r
}

func TestJWTAuthUserMiddleware(t *testing.T) {
	valid, _ := utils.GenerateToken("u1", "a@b.c", time.Hour)
	expired, _ := utils.GenerateToken("u1", "a@b.c", -time.Hour)
	revoked, _ := utils.GenerateToken("u2", "b@b.c", time.Hour)
	if err := utils.RevokeToken(context.Background(), revoked, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"revoked token", "Bearer " + revoked, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}
	r := protectedRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK && w.Body.String() != "u1" {
				t.Errorf("userID = %q", w.Body.String())
			}
		})
	}
}

func TestDevSecretRejectedInProduction(t *testing.T) {
	saved := config.AppConfig
	t.Cleanup(func() { config.AppConfig = saved })

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "victim-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("lefri-dev-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name   string
		env    string
		secret string
		status int
	}{
		{"production without secret", "production", "", http.StatusUnauthorized},
		{"production with real secret", "production", "s3cr3t-from-env", http.StatusUnauthorized},
		{"development without secret", "development", "", http.StatusOK},
	}
	r := protectedRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.AppConfig.Env = tt.env
			config.AppConfig.JWTSecret = tt.secret
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Header.Set("Authorization", "Bearer "+forged)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
		})
	}

	config.AppConfig.Env = "production"
	config.AppConfig.JWTSecret = ""
	if _, err := utils.GenerateToken("u1", "a@b.c", time.Hour); !errors.Is(err, utils.ErrMissingSecret) {
		t.Errorf("GenerateToken without secret in production: got %v", err)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("second client limited: %d", w.Code)
	}
}

func TestLimiterStoreEvictsIdleVisitors(t *testing.T) {
	s := newRateLimiterStore(10)
	now := time.Now()
	s.getLimiter("a", now)
	s.getLimiter("b", now.Add(2*limiterIdleTTL))
	if _, ok := s.visitors["a"]; ok {
		t.Error("idle visitor not evicted")
	}
}
