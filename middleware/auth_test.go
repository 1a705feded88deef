package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/repair-ticket-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		JWTIssuer:   "repair-ticket-api",
		JWTAudience: "repair-ticket-clients",
	}
}

func signToken(t *testing.T, cfg *config.Config, subject, role string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   subject,
		"iss":   cfg.JWTIssuer,
		"aud":   []string{cfg.JWTAudience},
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
		"role":  role,
		"email": "someone@example.com",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return signed
}

func protectedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", EnsureValidToken(cfg), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	router.GET("/admin", EnsureValidToken(cfg), RequireRole("ADMIN"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestEnsureValidToken(t *testing.T) {
	cfg := testConfig()
	router := protectedRouter(cfg)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{
			name:       "valid token",
			header:     "Bearer " + signToken(t, cfg, "42", "USER", time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			header:     "Bearer " + signToken(t, cfg, "42", "USER", time.Now().Add(-time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong secret",
			header: "Bearer " + signToken(t, &config.Config{
				JWTSecret:   "other-secret",
				JWTIssuer:   cfg.JWTIssuer,
				JWTAudience: cfg.JWTAudience,
			}, "42", "USER", time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown role",
			header:     "Bearer " + signToken(t, cfg, "42", "ROOT", time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non-numeric subject",
			header:     "Bearer " + signToken(t, cfg, "auth0|123", "USER", time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":42,"role":"USER"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func TestRequireRoleWithToken(t *testing.T) {
	cfg := testConfig()
	router := protectedRouter(cfg)

	for role, want := range map[string]int{"ADMIN": http.StatusNoContent, "USER": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, "7", role, time.Now().Add(time.Hour)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantID    uint
		wantErr   bool
	}{
		{
			name: "successfully extracts user ID",
			setupFunc: func(c *gin.Context) {
				c.Set(ContextUserID, uint(12))
			},
			wantID: 12,
		},
		{
			name:      "user ID not found in context",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name: "user ID has the wrong type",
			setupFunc: func(c *gin.Context) {
				c.Set(ContextUserID, "12")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			gotID, err := GetUserID(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Zero(t, gotID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, gotID)
			}
		})
	}
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, err := GetClaims(c)
	assert.Error(t, err)

	c.Set(ContextClaims, "invalid")
	_, err = GetClaims(c)
	assert.Error(t, err)

	c.Set(ContextClaims, &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: "3"},
		CustomClaims:     &CustomClaims{Role: "USER"},
	})
	claims, err := GetClaims(c)
	require.NoError(t, err)
	assert.Equal(t, "3", claims.RegisteredClaims.Subject)
}

func withClaims(custom *CustomClaims) func(*gin.Context) {
	return func(c *gin.Context) {
		claims := &validator.ValidatedClaims{RegisteredClaims: validator.RegisteredClaims{Subject: "1"}}
		if custom != nil {
			claims.CustomClaims = custom
		}
		c.Set(ContextClaims, claims)
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupFunc      func(*gin.Context)
		wantStatusCode int
		wantAborted    bool
	}{
		{
			name:        "has required role",
			setupFunc:   withClaims(&CustomClaims{Role: "ADMIN"}),
			wantAborted: false,
		},
		{
			name:           "wrong role",
			setupFunc:      withClaims(&CustomClaims{Role: "USER"}),
			wantStatusCode: http.StatusForbidden,
			wantAborted:    true,
		},
		{
			name:           "role key without validated claims",
			setupFunc:      func(c *gin.Context) { c.Set(ContextRole, "ADMIN") },
			wantStatusCode: http.StatusUnauthorized,
			wantAborted:    true,
		},
		{
			name:           "claims without custom claims",
			setupFunc:      withClaims(nil),
			wantStatusCode: http.StatusUnauthorized,
			wantAborted:    true,
		},
		{
			name:           "claims not in context",
			setupFunc:      func(c *gin.Context) {},
			wantStatusCode: http.StatusUnauthorized,
			wantAborted:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			tt.setupFunc(c)
			RequireRole("ADMIN")(c)

			if tt.wantAborted {
				assert.True(t, c.IsAborted())
				assert.Equal(t, tt.wantStatusCode, w.Code)
			} else {
				assert.False(t, c.IsAborted())
			}
		})
	}
}

func TestCustomClaims(t *testing.T) {
	assert.NoError(t, CustomClaims{Role: "USER"}.Validate(context.Background()))
	assert.NoError(t, CustomClaims{Role: "ADMIN"}.Validate(context.Background()))
	assert.Error(t, CustomClaims{Role: ""}.Validate(context.Background()))

	assert.True(t, CustomClaims{Role: "ADMIN"}.HasRole("USER", "ADMIN"))
	assert.False(t, CustomClaims{Role: "USER"}.HasRole("ADMIN"))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, "warn", entries[1].Level.String())
}
