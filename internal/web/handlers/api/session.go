// internal/web/handlers/api/session.go
package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"station-hopper/internal/metro"
	"station-hopper/internal/models"
	"station-hopper/internal/services/session"
	"station-hopper/internal/utils"
	"station-hopper/internal/web/models/responses"
	webUtils "station-hopper/internal/web/utils"
)

// SessionHandler 탐험 세션 API 핸들러
type SessionHandler struct {
	manager *session.Manager
	logger  *utils.Logger
}

// NewSessionHandler 세션 핸들러 생성
func NewSessionHandler(manager *session.Manager, logger *utils.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

// view 상태에 역 정보와 설정값을 붙인다
func (h *SessionHandler) view(ctx context.Context, st *models.PersistedState) responses.SessionView {
	g := h.manager.Graph()
	v := responses.SessionView{
		State:              st,
		RideCount:          metro.CountRides(st.PendingRoute),
		ExcludePastVisited: h.manager.ExcludePastVisited(ctx),
	}
	if s, ok := g.Station(st.CurrentStationCd); ok {
		v.CurrentStation = &s
	}
	if st.PendingNextCd != nil {
		if s, ok := g.Station(*st.PendingNextCd); ok {
			v.PendingStation = &s
		}
	}
	return v
}

// respond 상태 변경 결과 응답
func (h *SessionHandler) respond(c *fiber.Ctx, st *models.PersistedState, err error, failMsg, okMsg string) error {
	if err != nil {
		return webUtils.HandleError(c, err, failMsg)
	}
	return webUtils.SendSuccessResponse(c, h.view(c.UserContext(), st), okMsg)
}

// GetSession 오늘 세션 조회 (없으면 생성)
// @Router /api/v1/session [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	st, err := h.manager.Current(c.UserContext())
	return h.respond(c, st, err, "세션 조회 실패", "세션 조회 성공")
}

// Start 새 세션 시작 (오늘 세션을 덮어쓴다)
// @Router /api/v1/session/start [post]
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	st, err := h.manager.Start(c.UserContext())
	return h.respond(c, st, err, "세션 시작 실패", "세션 시작")
}

// Go 대기 중인 목적지로 이동
// @Router /api/v1/session/go [post]
func (h *SessionHandler) Go(c *fiber.Ctx) error {
	st, err := h.manager.Go(c.UserContext())
	return h.respond(c, st, err, "이동 실패", "이동 완료")
}

// Reroll 목적지 다시 뽑기
// @Router /api/v1/session/reroll [post]
func (h *SessionHandler) Reroll(c *fiber.Ctx) error {
	st, err := h.manager.Reroll(c.UserContext())
	return h.respond(c, st, err, "목적지 재추첨 실패", "목적지 재추첨 완료")
}

// ToggleSuspension 노선 운휴 토글
// @Router /api/v1/session/suspension [post]
func (h *SessionHandler) ToggleSuspension(c *fiber.Ctx) error {
	var req responses.SuspensionRequest
	if handled, err := webUtils.ParseAndValidate(c, &req); handled {
		return err
	}

	st, err := h.manager.ToggleSuspension(c.UserContext(), req.LineCd)
	return h.respond(c, st, err, "운휴 설정 실패", "운휴 설정 변경")
}

// SetExcludePast 지난 방문 제외 설정
// @Router /api/v1/session/exclude-past [post]
func (h *SessionHandler) SetExcludePast(c *fiber.Ctx) error {
	var req responses.ExcludePastRequest
	if handled, err := webUtils.ParseAndValidate(c, &req); handled {
		return err
	}

	st, err := h.manager.SetExcludePastVisited(c.UserContext(), *req.Enabled)
	return h.respond(c, st, err, "설정 변경 실패", "지난 방문 제외 설정 변경")
}

// GetRevealPlan 목적지 공개 연출 정보
// @Router /api/v1/session/reveal-plan [get]
func (h *SessionHandler) GetRevealPlan(c *fiber.Ctx) error {
	plan, err := h.manager.RevealPlan(c.UserContext())
	if err != nil {
		return webUtils.HandleError(c, err, "공개 정보 조회 실패")
	}
	return webUtils.SendSuccessResponse(c, plan, "공개 정보 조회 성공")
}

// MarkRevealed 목적지 공개 확정
// @Router /api/v1/session/reveal [post]
func (h *SessionHandler) MarkRevealed(c *fiber.Ctx) error {
	var req responses.RevealRequest
	if handled, err := webUtils.ParseAndValidate(c, &req); handled {
		return err
	}

	st, err := h.manager.MarkRevealed(c.UserContext(), req.DiceFaces)
	return h.respond(c, st, err, "목적지 공개 실패", "목적지 공개")
}

// Finish 오늘 탐험 종료
// @Router /api/v1/session/finish [post]
func (h *SessionHandler) Finish(c *fiber.Ctx) error {
	st, err := h.manager.Finish(c.UserContext())
	if err != nil {
		h.logger.Warnf("세션 종료 요청 거절: %v", err)
	}
	return h.respond(c, st, err, "세션 종료 실패", "세션 종료")
}

// Reset 오늘 세션 초기화
// @Router /api/v1/session/reset [post]
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	st, err := h.manager.Reset(c.UserContext())
	return h.respond(c, st, err, "세션 초기화 실패", "세션 초기화")
}

// GetPastDays 지난 날짜 방문 기록
// @Router /api/v1/session/past [get]
func (h *SessionHandler) GetPastDays(c *fiber.Ctx) error {
	days, err := h.manager.PastDays(c.UserContext())
	if err != nil {
		return webUtils.HandleError(c, err, "지난 기록 조회 실패")
	}
	return webUtils.SendListResponse(c, days, len(days), "지난 기록 조회 성공")
}

// DeletePastDay 지난 날짜 기록 삭제
// @Router /api/v1/session/past/{date} [delete]
func (h *SessionHandler) DeletePastDay(c *fiber.Ctx) error {
	date := c.Params("date")
	if err := webUtils.ValidateVar(date, "required,datetime=2006-01-02"); err != nil {
		return webUtils.HandleValidationError(c, err, "날짜 형식이 올바르지 않습니다")
	}

	if err := h.manager.DeletePastDay(c.UserContext(), date); err != nil {
		return webUtils.HandleError(c, err, "지난 기록 삭제 실패")
	}
	return webUtils.SendSuccessResponse(c, fiber.Map{"date": date}, "지난 기록 삭제")
}

// GetStats 세션 진행 통계
// @Router /api/v1/session/stats [get]
func (h *SessionHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.manager.Stats(c.UserContext())
	if err != nil {
		return webUtils.HandleError(c, err, "통계 조회 실패")
	}
	return webUtils.SendSuccessResponse(c, stats, "통계 조회 성공")
}
