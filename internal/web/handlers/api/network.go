// internal/web/handlers/api/network.go
package api

import (
	"github.com/gofiber/fiber/v2"

	"station-hopper/internal/metro"
	"station-hopper/internal/models"
	"station-hopper/internal/web/models/responses"
	webUtils "station-hopper/internal/web/utils"
)

// NetworkHandler 노선망 조회 API 핸들러
type NetworkHandler struct {
	graph *metro.Graph
}

// NewNetworkHandler 노선망 핸들러 생성
func NewNetworkHandler(graph *metro.Graph) *NetworkHandler {
	return &NetworkHandler{graph: graph}
}

// GetLines 노선 목록
// @Router /api/v1/network/lines [get]
func (h *NetworkHandler) GetLines(c *fiber.Ctx) error {
	lines := h.graph.Lines()
	return webUtils.SendListResponse(c, lines, len(lines), "노선 목록 조회 성공")
}

// GetStation 역 상세
// @Router /api/v1/network/stations/{cd} [get]
func (h *NetworkHandler) GetStation(c *fiber.Ctx) error {
	cd := c.Params("cd")
	station, ok := h.graph.Station(cd)
	if !ok {
		return webUtils.HandleError(c, fiber.NewError(fiber.StatusNotFound, "unknown station "+cd), "역을 찾을 수 없습니다")
	}

	detail := responses.StationDetail{
		Station:   station,
		Adjacent:  h.stations(h.graph.Adjacency[cd], ""),
		Transfers: h.stations(h.graph.TransferMap[station.StationGCd], cd),
	}
	return webUtils.SendSuccessResponse(c, detail, "역 조회 성공")
}

func (h *NetworkHandler) stations(cds []string, skipCd string) []models.Station {
	out := make([]models.Station, 0, len(cds))
	for _, cd := range cds {
		if cd == skipCd {
			continue
		}
		if s, ok := h.graph.Station(cd); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetRoute 두 역 사이 최소 환승 경로
// @Router /api/v1/network/route [get]
func (h *NetworkHandler) GetRoute(c *fiber.Ctx) error {
	from, to := c.Query("from"), c.Query("to")
	for _, cd := range []string{from, to} {
		if _, ok := h.graph.Station(cd); !ok {
			return webUtils.HandleError(c, fiber.NewError(fiber.StatusNotFound, "unknown station "+cd), "역을 찾을 수 없습니다")
		}
	}

	steps := metro.FindRoute(h.graph, from, to, nil)
	transfers := 0
	for _, step := range steps {
		if step.Action == models.ActionTransfer {
			transfers++
		}
	}

	return webUtils.SendSuccessResponse(c, responses.RouteData{
		From:      from,
		To:        to,
		Steps:     steps,
		RideCount: metro.CountRides(steps),
		Transfers: transfers,
	}, "경로 조회 성공")
}

// GetDistances 기준 역에서 환승 1회 이내로 닿는 역까지의 거리
// @Router /api/v1/network/distances/{cd} [get]
func (h *NetworkHandler) GetDistances(c *fiber.Ctx) error {
	cd := c.Params("cd")
	if _, ok := h.graph.Station(cd); !ok {
		return webUtils.HandleError(c, fiber.NewError(fiber.StatusNotFound, "unknown station "+cd), "역을 찾을 수 없습니다")
	}

	distances := metro.ComputeStationDistances(h.graph, cd, nil)
	entries := make([]responses.DistanceEntry, 0, len(distances))
	for _, stationCd := range h.graph.StationCds() {
		d, ok := distances[stationCd]
		if !ok {
			continue
		}
		s, _ := h.graph.Station(stationCd)
		entries = append(entries, responses.DistanceEntry{
			StationCd: stationCd,
			Name:      s.Name,
			LineCd:    s.LineCd,
			Distance:  d,
		})
	}
	return webUtils.SendListResponse(c, entries, len(entries), "거리 조회 성공")
}
