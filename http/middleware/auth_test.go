package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EldoranCodes/FileStorageApi/config"
	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/EldoranCodes/FileStorageApi/service"
	"github.com/EldoranCodes/FileStorageApi/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newAuthRouter seeds one active credential and returns a router whose single
// route echoes the identity the middleware injected.
func newAuthRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Consumer{}, &entity.APIKey{}))

	repo := repository.NewRepository(db)

	consumer := &entity.Consumer{
		ID:     uuid.New(),
		Name:   "alice",
		Status: entity.ConsumerStatusActive,
		Role:   "consumer",
	}
	require.NoError(t, repo.ConsumerRepo.Create(consumer))

	plaintext, err := utils.GenerateAPIKey()
	require.NoError(t, err)
	require.NoError(t, repo.APIKeyRepo.Create(&entity.APIKey{
		ID:         uuid.New(),
		KeyDigest:  utils.HashAPIKey(plaintext),
		ConsumerID: consumer.ID,
		AppName:    "demo-app",
		Status:     entity.APIKeyStatusActive,
	}))

	apiKeys := service.NewAPIKeyService(
		repo.APIKeyRepo, nil, infra.InitLoggerClient(&config.EnvConfig{}))

	router := gin.New()
	router.GET("/whoami", APIKeyAuthMiddleware(apiKeys), func(c *gin.Context) {
		caller := c.MustGet("consumer").(*entity.Consumer)
		c.JSON(http.StatusOK, gin.H{
			"name":    caller.Name,
			"appName": c.GetString("app_name"),
		})
	})
	return router, plaintext
}

func TestAPIKeyAuthMiddleware_MissingKey(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization")
}

func TestAPIKeyAuthMiddleware_UnknownKey(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "ApiKey not-a-real-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestAPIKeyAuthMiddleware_HeaderKey(t *testing.T) {
	router, key := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "ApiKey "+key)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"alice"`)
	assert.Contains(t, w.Body.String(), `"appName":"demo-app"`)
}

func TestAPIKeyAuthMiddleware_QueryKey(t *testing.T) {
	router, key := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami?apiKey="+key, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"alice"`)
}

func TestAPIKeyAuthMiddleware_WrongScheme(t *testing.T) {
	router, key := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
