package middlewares

import (
	"strings"

	"github.com/EldoranCodes/FileStorageApi/service"
	"github.com/EldoranCodes/FileStorageApi/utils"
	"github.com/gin-gonic/gin"
)

const apiKeyScheme = "ApiKey "

// APIKeyAuthMiddleware authenticates the request from an API key presented
// either as `Authorization: ApiKey <key>` or as an `apiKey` query parameter,
// and injects the owning consumer and the credential's application name into
// the request context.
func APIKeyAuthMiddleware(apiKeys *service.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := extractAPIKey(c)
		if !ok {
			utils.JSON401(c, "Missing or invalid Authorization header. Expected: Authorization: ApiKey <key>")
			c.Abort()
			return
		}

		credential := apiKeys.ValidateAPIKey(c.Request.Context(), key)
		if credential == nil {
			utils.JSON401(c, "Invalid API key")
			c.Abort()
			return
		}

		c.Set("consumer", credential.Consumer)
		c.Set("app_name", credential.AppName)
		c.Next()
	}
}

func extractAPIKey(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, apiKeyScheme) {
		key := strings.TrimPrefix(authHeader, apiKeyScheme)
		if key != "" {
			return key, true
		}
	}

	if key := c.Query("apiKey"); key != "" {
		return key, true
	}

	return "", false
}
