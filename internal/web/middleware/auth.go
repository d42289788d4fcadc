// internal/web/middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"station-hopper/internal/utils"
)

// APIKeyAuth API 키 인증 미들웨어
// 키가 비어 있으면 인증 없이 통과
func APIKeyAuth(expectedAPIKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if expectedAPIKey == "" {
			return c.Next()
		}

		apiKey := extractAPIKey(c)
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedAPIKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   true,
				"message": "유효하지 않은 API 키입니다",
				"code":    fiber.StatusUnauthorized,
			})
		}

		c.Locals("authenticated", true)
		return c.Next()
	}
}

// extractAPIKey X-API-Key 또는 Bearer 토큰
func extractAPIKey(c *fiber.Ctx) string {
	if apiKey := c.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequestIDMiddleware 요청 ID 미들웨어
// 클라이언트가 보낸 X-Request-ID는 그대로 사용
func RequestIDMiddleware() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  utils.ID.GenerateRequestID,
		ContextKey: "requestId",
	})
}
