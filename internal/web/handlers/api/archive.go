// internal/web/handlers/api/archive.go
package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"station-hopper/internal/models"
	webUtils "station-hopper/internal/web/utils"
)

// VisitRanker 보관된 세션의 방문 순위 조회
type VisitRanker interface {
	TopVisitedStations(ctx context.Context, size int) ([]models.VisitStat, error)
}

// ArchiveHandler 아카이브 조회 API 핸들러
type ArchiveHandler struct {
	ranker VisitRanker
}

// NewArchiveHandler 아카이브 핸들러 생성 (ranker가 nil이면 503)
func NewArchiveHandler(ranker VisitRanker) *ArchiveHandler {
	return &ArchiveHandler{ranker: ranker}
}

// GetTopVisited 가장 많이 방문한 역
// @Router /api/v1/archive/top [get]
func (h *ArchiveHandler) GetTopVisited(c *fiber.Ctx) error {
	if h.ranker == nil {
		return webUtils.HandleError(c, webUtils.ErrArchiveDisabled, "아카이브가 설정되지 않았습니다")
	}

	size := webUtils.ClampQueryInt(c, "size", 10, 1, 100)
	stats, err := h.ranker.TopVisitedStations(c.UserContext(), size)
	if err != nil {
		return webUtils.HandleError(c, err, "방문 순위 조회 실패")
	}
	return webUtils.SendListResponse(c, stats, len(stats), "방문 순위 조회 성공")
}
