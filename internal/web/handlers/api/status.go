// internal/web/handlers/api/status.go
package api

import (
	"github.com/gofiber/fiber/v2"

	"station-hopper/internal/web/models/responses"
	"station-hopper/internal/web/services"
	webUtils "station-hopper/internal/web/utils"
)

// StatusHandler 상태 관련 API 핸들러
type StatusHandler struct {
	statusService *services.StatusService
}

// NewStatusHandler 상태 핸들러 생성
func NewStatusHandler(statusService *services.StatusService) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

// GetStatus 시스템 상태 조회
// @Router /api/v1/status [get]
func (h *StatusHandler) GetStatus(c *fiber.Ctx) error {
	return webUtils.SendSuccessResponse(c, h.statusService.GetSystemStatus(), "상태 조회 성공")
}

// GetHealthCheck 헬스체크
// @Router /api/v1/status/health [get]
func (h *StatusHandler) GetHealthCheck(c *fiber.Ctx) error {
	healthData, isHealthy := h.statusService.GetHealthCheck(c.UserContext())

	status := fiber.StatusOK
	message := "시스템이 정상적으로 작동 중입니다"
	if !isHealthy {
		status = fiber.StatusServiceUnavailable
		message = "시스템에 문제가 발견되었습니다"
	}

	response := responses.HealthCheckResponse{
		BaseResponse: responses.BaseResponse{
			Success:   isHealthy,
			Message:   message,
			Timestamp: healthData.CheckedAt,
		},
		Data: healthData,
	}
	return c.Status(status).JSON(response)
}
