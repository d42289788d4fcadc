// internal/web/utils/response.go
package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"station-hopper/internal/services/session"
	"station-hopper/internal/web/models/responses"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ErrArchiveDisabled 아카이브 저장소가 설정되지 않음
var ErrArchiveDisabled = errors.New("archive: not configured")

// StatusCodeFor 도메인 에러를 HTTP 상태 코드로 변환
func StatusCodeFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNoSession):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrUnknownLine):
		return fiber.StatusBadRequest
	case errors.Is(err, session.ErrNoPendingStation),
		errors.Is(err, session.ErrSessionCompleted),
		errors.Is(err, session.ErrNothingToFinish),
		errors.Is(err, session.ErrBusy):
		return fiber.StatusConflict
	case errors.Is(err, ErrArchiveDisabled):
		return fiber.StatusServiceUnavailable
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// HandleError 에러 응답 처리
func HandleError(c *fiber.Ctx, err error, message string) error {
	statusCode := StatusCodeFor(err)

	response := responses.NewErrorResponse(message, statusCode)
	response.Details = err.Error()

	return c.Status(statusCode).JSON(response)
}

// HandleValidationError 검증 에러 응답 처리
func HandleValidationError(c *fiber.Ctx, err error, message string) error {
	var details string

	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorMessages := make([]string, 0, len(validationErrors))
			for _, validationErr := range validationErrors {
				errorMessages = append(errorMessages, formatValidationError(validationErr))
			}
			details = strings.Join(errorMessages, "; ")
		} else {
			details = err.Error()
		}
	}

	response := responses.NewErrorResponse(message, fiber.StatusBadRequest)
	response.Details = details

	return c.Status(fiber.StatusBadRequest).JSON(response)
}

// formatValidationError 검증 에러 메시지 포맷팅
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s 필드는 필수입니다", err.Field())
	case "min":
		return fmt.Sprintf("%s 필드는 최소 %s 이상이어야 합니다", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s 필드는 최대 %s 이하여야 합니다", err.Field(), err.Param())
	case "datetime":
		return fmt.Sprintf("%s 필드는 %s 형식이어야 합니다", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s 필드가 유효하지 않습니다", err.Field())
	}
}

// ValidateStruct 구조체 검증
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar 단일 값 검증
func ValidateVar(v interface{}, tag string) error {
	return validate.Var(v, tag)
}

// ParseAndValidate 요청 본문 파싱 후 검증
// 실패 시 400 응답을 이미 보냈으면 handled=true
func ParseAndValidate(c *fiber.Ctx, out interface{}) (handled bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return true, HandleValidationError(c, err, "요청 본문을 해석할 수 없습니다")
	}
	if err := ValidateStruct(out); err != nil {
		return true, HandleValidationError(c, err, "요청 값이 올바르지 않습니다")
	}
	return false, nil
}

// SendSuccessResponse 성공 응답 전송
func SendSuccessResponse(c *fiber.Ctx, data interface{}, message string) error {
	response := responses.NewDataResponse(data, message)
	return c.JSON(response)
}

// SendListResponse 리스트 응답 전송
func SendListResponse(c *fiber.Ctx, data interface{}, count int, message string) error {
	response := responses.ListResponse{
		BaseResponse: responses.NewSuccessResponse(message),
		Data:         data,
		Count:        count,
	}
	return c.JSON(response)
}

// ClampQueryInt 쿼리 정수 파라미터를 범위 안으로
func ClampQueryInt(c *fiber.Ctx, key string, def, min, max int) int {
	v := c.QueryInt(key, def)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// SetResponseHeaders 공통 응답 헤더 설정
func SetResponseHeaders(c *fiber.Ctx) {
	c.Set("X-Content-Type-Options", "nosniff")
	c.Set("Cache-Control", "no-cache, no-store, must-revalidate")
}
