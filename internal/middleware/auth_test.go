package middleware

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/model"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
}

func testRouter(cfg *config.Config, roles ...model.UserRole) *gin.Engine {
	r := gin.New()
	group := r.Group("/", AuthMiddleware(cfg))
	if len(roles) > 0 {
		group.Use(RoleMiddleware(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	return r
}

func tokenFor(t *testing.T, cfg *config.Config, role model.UserRole) string {
	t.Helper()
	user := &model.User{Email: "dev@example.com", Role: role}
	user.ID = 42
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	router := testRouter(cfg)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d; want 401", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d; want 401", w.Code)
		}
	})

	t.Run("valid bearer token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Student))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d; want 200", w.Code)
		}
	})

	t.Run("token via query parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping?token="+tokenFor(t, cfg, model.Student), nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d; want 200", w.Code)
		}
	})

	t.Run("wrong signing secret", func(t *testing.T) {
		other := &config.Config{JWT: config.JWTConfig{Secret: "other-secret"}}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, other, model.Student))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d; want 401", w.Code)
		}
	})
}

func TestRoleMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	router := testRouter(cfg, model.Author)

	t.Run("student blocked from author route", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Student))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d; want 403", w.Code)
		}
	})

	t.Run("author allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Author))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d; want 200", w.Code)
		}
	})

	t.Run("admin passes every role check", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Admin))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d; want 200", w.Code)
		}
	})
}
