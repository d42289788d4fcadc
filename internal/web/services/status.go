// internal/web/services/status.go
package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"station-hopper/config"
	"station-hopper/internal/metro"
	"station-hopper/internal/services/store"
	"station-hopper/internal/utils"
	"station-hopper/internal/web/models/responses"
)

// healthProbeKey 저장소 응답 확인용 키 (값이 없어도 조회 성공이면 정상)
const healthProbeKey = "health-probe"

// ArchivePinger 아카이브 연결 확인
type ArchivePinger interface {
	TestConnection(ctx context.Context) error
	IndexName() string
}

// StatusService 상태 관련 서비스
type StatusService struct {
	config    *config.Config
	logger    *utils.Logger
	graph     *metro.Graph
	kv        store.KVStore
	archive   ArchivePinger
	startTime time.Time
}

// NewStatusService 상태 서비스 생성 (archive는 nil 가능)
func NewStatusService(
	cfg *config.Config,
	logger *utils.Logger,
	graph *metro.Graph,
	kv store.KVStore,
	archive ArchivePinger,
	startTime time.Time,
) *StatusService {
	return &StatusService{
		config:    cfg,
		logger:    logger,
		graph:     graph,
		kv:        kv,
		archive:   archive,
		startTime: startTime,
	}
}

// GetSystemStatus 시스템 상태 조회
func (s *StatusService) GetSystemStatus() responses.StatusData {
	now := time.Now()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return responses.StatusData{
		Status:       "running",
		Uptime:       utils.Time.CalculateUptime(s.startTime),
		StartTime:    s.startTime,
		Mode:         s.config.Mode,
		SessionDate:  s.config.SessionDate(now),
		DayBoundary:  s.config.GetDayBoundaryString(),
		NextRollover: s.config.NextRollover(now),
		MemoryUsage:  fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
		Goroutines:   runtime.NumGoroutine(),
	}
}

// GetHealthCheck 헬스체크 수행
// 저장소 장애만 비정상으로 판정하고 아카이브 연결 끊김은 보고만 한다
func (s *StatusService) GetHealthCheck(ctx context.Context) (responses.HealthCheckData, bool) {
	checks := make(map[string]string)
	isHealthy := true

	if _, _, err := s.kv.Get(ctx, healthProbeKey); err != nil {
		s.logger.Warnf("저장소 헬스체크 실패: %v", err)
		checks["store"] = "unhealthy"
		isHealthy = false
	} else {
		checks["store"] = "healthy"
	}

	archive := responses.ArchiveInfo{Enabled: s.archive != nil}
	if s.archive != nil {
		archive.IndexName = s.archive.IndexName()
		if err := s.archive.TestConnection(ctx); err != nil {
			s.logger.Warnf("아카이브 헬스체크 실패: %v", err)
			checks["archive"] = "unreachable"
		} else {
			archive.Connected = true
			checks["archive"] = "healthy"
		}
	} else {
		checks["archive"] = "disabled"
	}

	status := "healthy"
	if !isHealthy {
		status = "unhealthy"
	}

	return responses.HealthCheckData{
		Status: status,
		Uptime: utils.Time.CalculateUptime(s.startTime),
		Dataset: responses.DatasetInfo{
			Lines:          len(s.graph.LineCds()),
			Stations:       len(s.graph.StationCds()),
			UniqueStations: s.graph.UniqueStationCount(),
		},
		Store:     s.config.StoreBackend,
		Archive:   archive,
		Checks:    checks,
		CheckedAt: time.Now(),
	}, isHealthy
}
