package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-ticket-api/config"
	"github.com/kendall-kelly/repair-ticket-api/services"
	"github.com/kendall-kelly/repair-ticket-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestHealthCheck is a unit test for the healthCheck handler function
func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	healthCheck(c)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status code 200")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")

	assert.Equal(t, true, response["success"], "Expected success to be true")
	assert.Equal(t, "Repair Ticket API is running", response["message"], "Expected correct message")
}

// TestHealthCheckResponseFormat tests the exact JSON format
func TestHealthCheckResponseFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	healthCheck(c)

	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 2, "Response should have exactly 2 fields")
	assert.Contains(t, response, "success")
	assert.Contains(t, response, "message")
}

func TestCORSConfig(t *testing.T) {
	t.Run("explicit origins", func(t *testing.T) {
		cfg := &config.Config{CORSOrigins: []string{"https://repair.example.com", "http://localhost:5173"}}
		corsCfg := corsConfig(cfg)
		assert.False(t, corsCfg.AllowAllOrigins)
		assert.True(t, corsCfg.AllowCredentials)
		assert.Equal(t, cfg.CORSOrigins, corsCfg.AllowOrigins)
		assert.Contains(t, corsCfg.AllowHeaders, "Authorization")
		assert.Contains(t, corsCfg.AllowMethods, "PATCH")
	})

	t.Run("wildcard", func(t *testing.T) {
		corsCfg := corsConfig(&config.Config{CORSOrigins: []string{"*"}})
		assert.True(t, corsCfg.AllowAllOrigins)
		assert.False(t, corsCfg.AllowCredentials)
		assert.Empty(t, corsCfg.AllowOrigins)
	})

	t.Run("none configured", func(t *testing.T) {
		corsCfg := corsConfig(&config.Config{})
		assert.True(t, corsCfg.AllowAllOrigins)
	})
}

func TestNewStorage_Local(t *testing.T) {
	previous := utils.UploadDir
	t.Cleanup(func() { utils.UploadDir = previous })

	dir := filepath.Join(t.TempDir(), "uploads")
	storage, err := newStorage(context.Background(), &config.Config{StorageDriver: "local", UploadDir: dir})
	require.NoError(t, err)

	assert.IsType(t, &services.LocalStorage{}, storage)
	assert.Equal(t, dir, utils.UploadDir)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStateStore_MemoryWithoutRedis(t *testing.T) {
	store, closeStore := newStateStore(context.Background(), &config.Config{}, zap.NewNop())
	defer closeStore()

	assert.IsType(t, &services.MemoryStateStore{}, store)
}
