// internal/web/handlers/api/config.go
package api

import (
	"github.com/gofiber/fiber/v2"

	"station-hopper/config"
	"station-hopper/internal/utils"
	webUtils "station-hopper/internal/web/utils"
)

// ConfigHandler 설정 관련 API 핸들러
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler 설정 핸들러 생성
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{config: cfg}
}

// GetConfig 설정 조회 (비밀값 제외)
// @Router /api/v1/config [get]
func (h *ConfigHandler) GetConfig(c *fiber.Ctx) error {
	cfg := h.config
	configData := map[string]interface{}{
		"dataset": map[string]interface{}{
			"path":         cfg.DatasetPath,
			"startGroupCd": cfg.StartGroupCd,
		},
		"store": map[string]interface{}{
			"backend":    cfg.StoreBackend,
			"sessionTTL": cfg.SessionTTL.String(),
		},
		"sessionDay": map[string]interface{}{
			"timezone":     cfg.Timezone,
			"dayStartHour": cfg.DayStartHour,
			"boundary":     cfg.GetDayBoundaryString(),
		},
		"elasticsearch": map[string]interface{}{
			"enabled":   cfg.ArchiveEnabled(),
			"indexName": cfg.IndexName,
			"hasAuth":   cfg.ElasticsearchUsername != "",
			"username":  maskIfSet(cfg.ElasticsearchUsername),
		},
		"server": map[string]interface{}{
			"port":    cfg.ServerPort,
			"hasAuth": cfg.APIKey != "",
			"apiKey":  maskIfSet(cfg.APIKey),
		},
	}

	return webUtils.SendSuccessResponse(c, configData, "설정 조회 성공")
}

// maskIfSet 비밀값은 앞뒤 두 글자만 남긴다
func maskIfSet(value string) string {
	if value == "" {
		return ""
	}
	return utils.String.MaskSensitive(value, 2, 2)
}
