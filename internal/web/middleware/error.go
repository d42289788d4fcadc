// internal/web/middleware/error.go
package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler Fiber 전역 에러 핸들러
// 핸들러가 응답하지 못하고 돌려준 에러를 JSON으로 변환
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":     true,
		"message":   getErrorMessage(code),
		"details":   err.Error(),
		"code":      code,
		"timestamp": time.Now(),
		"path":      c.Path(),
		"requestId": c.Locals("requestId"),
	})
}

// NotFound 등록되지 않은 경로
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "API 엔드포인트를 찾을 수 없습니다",
			"code":    fiber.StatusNotFound,
			"path":    c.Path(),
		})
	}
}

// getErrorMessage 상태 코드에 따른 사용자 친화적 메시지
func getErrorMessage(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "잘못된 요청입니다"
	case fiber.StatusUnauthorized:
		return "인증이 필요합니다"
	case fiber.StatusNotFound:
		return "요청한 리소스를 찾을 수 없습니다"
	case fiber.StatusMethodNotAllowed:
		return "허용되지 않은 메서드입니다"
	case fiber.StatusConflict:
		return "현재 상태에서 수행할 수 없는 요청입니다"
	case fiber.StatusTooManyRequests:
		return "요청 한도를 초과했습니다"
	case fiber.StatusServiceUnavailable:
		return "서비스를 일시적으로 사용할 수 없습니다"
	default:
		return "서버 내부 오류가 발생했습니다"
	}
}
