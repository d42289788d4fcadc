// internal/web/middleware/logging.go
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"station-hopper/internal/utils"
)

// RequestLogger 요청 로깅 미들웨어
// 디버그 모드가 아니면 접근 로그를 남기지 않는다
func RequestLogger(appLogger *utils.Logger, timeZone string) fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return !appLogger.DebugEnabled()
		},
		Format:     "[${time}] ${status} - ${method} ${path} (${latency}) ${ip} ${locals:requestId}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   timeZone,
		Output:     appLogger.Writer(),
	})
}

// ErrorLogger 처리 중 에러를 돌려준 요청 기록
func ErrorLogger(appLogger *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			appLogger.Errorf("요청 실패 [%v] %s %s (%v): %v",
				c.Locals("requestId"), c.Method(), c.Path(), time.Since(start), err)
		}

		return err
	}
}

// RateLimit 세션 요청 제한
// 세션은 하나뿐이므로 IP가 아닌 전체 요청 기준으로 센다
func RateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "session"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   true,
				"message": getErrorMessage(fiber.StatusTooManyRequests),
				"code":    fiber.StatusTooManyRequests,
			})
		},
	})
}
