package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"station-hopper/config"
	"station-hopper/internal/metro"
	"station-hopper/internal/models"
	"station-hopper/internal/picker"
	"station-hopper/internal/reveal"
	"station-hopper/internal/services/session"
	"station-hopper/internal/services/storage"
	"station-hopper/internal/services/store"
	"station-hopper/internal/utils"
	"station-hopper/internal/web"
	"station-hopper/internal/web/routes"
)

func main() {
	cfg := config.LoadConfig()
	logger := utils.NewLogger()
	logger.SetDebug(cfg.LogDebug)

	logger.Info("=== 역 탐험기 시작 ===")
	cfg.PrintConfig()

	switch cfg.Mode {
	case config.ModeServer:
		runServerMode(cfg, logger)
	case config.ModeSimulate:
		runSimulateMode(cfg, logger)
	default:
		logger.Fatalf("지원하지 않는 모드입니다: %s (server, simulate 중 선택)", cfg.Mode)
	}
}

// loadGraph 노선 데이터 적재
func loadGraph(cfg *config.Config, logger *utils.Logger) *metro.Graph {
	g, err := metro.LoadGraph(cfg.DatasetPath)
	if err != nil {
		logger.Fatalf("노선 데이터 로드 실패: %v", err)
	}
	logger.Infof("✅ 노선 데이터 로드 완료 - 노선: %d개, 역: %d개 (물리 역 %d개)",
		len(g.LineCds()), len(g.StationCds()), g.UniqueStationCount())
	return g
}

// storeOptions 설정 → 저장소 옵션
func storeOptions(cfg *config.Config) store.Options {
	return store.Options{
		Backend: cfg.StoreBackend,
		Redis: store.RedisOptions{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxRetries:  cfg.Redis.MaxRetries,
			PoolSize:    cfg.Redis.PoolSize,
			IdleTimeout: cfg.Redis.IdleTimeout,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			TTL:         cfg.SessionTTL,
			TTLScope:    session.StateKeyPrefix,
		},
		SQLitePath: cfg.SQLitePath,
	}
}

// connectArchive 아카이브가 설정되어 있으면 연결 (실패해도 계속 실행)
func connectArchive(ctx context.Context, cfg *config.Config, logger *utils.Logger) *storage.ElasticsearchService {
	if !cfg.ArchiveEnabled() {
		logger.Info("Elasticsearch 아카이브 비활성")
		return nil
	}

	esService, err := storage.NewElasticsearchService(cfg, logger)
	if err != nil {
		logger.Errorf("Elasticsearch 클라이언트 생성 실패, 아카이브 없이 실행: %v", err)
		return nil
	}
	if err := esService.TestConnection(ctx); err != nil {
		logger.Warnf("Elasticsearch 연결 실패 (세션 종료 시 재시도): %v", err)
	} else {
		logger.Info("Elasticsearch 연결 테스트 성공")
	}
	return esService
}

func newManager(p *picker.Picker, kv store.KVStore, archive *storage.ElasticsearchService, cfg *config.Config, logger *utils.Logger) *session.Manager {
	opts := []session.Option{session.WithDateFunc(cfg.SessionDate)}
	if archive != nil {
		opts = append(opts, session.WithArchiver(archive))
	}
	return session.NewManager(p, kv, logger, opts...)
}

func runServerMode(cfg *config.Config, logger *utils.Logger) {
	logger.Info("=== 서버 모드로 실행 ===")
	startTime := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g := loadGraph(cfg, logger)
	p := picker.NewPicker(g, picker.WithStartGroupCd(cfg.StartGroupCd))

	kv, err := store.New(ctx, storeOptions(cfg), logger)
	if err != nil {
		logger.Fatalf("저장소 초기화 실패: %v", err)
	}
	defer kv.Close()

	archive := connectArchive(ctx, cfg, logger)
	manager := newManager(p, kv, archive, cfg, logger)

	rollover := session.NewRolloverWorker(manager, logger, time.Minute, cfg.SessionTTL)
	rollover.Start(ctx)
	defer rollover.Stop()

	server := web.NewFiberServer(&routes.Dependencies{
		Config:    cfg,
		Logger:    logger,
		Manager:   manager,
		Store:     kv,
		Archive:   archive,
		StartTime: startTime,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.ServerPort)
	}()

	logger.Info("종료하려면 Ctrl+C를 누르세요")

	select {
	case err := <-errCh:
		if err != nil {
			logger.Errorf("서버 실행 오류: %v", err)
		}
	case <-ctx.Done():
		logger.Info("=== 종료 신호 수신 - 우아한 종료 시작 ===")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Errorf("서버 종료 오류: %v", err)
		}
	}

	logger.Infof("=== 역 탐험기 종료 (가동 시간: %s) ===", utils.Time.CalculateUptime(startTime))
}

func runSimulateMode(cfg *config.Config, logger *utils.Logger) {
	logger.Info("=== 시뮬레이션 모드로 실행 ===")
	ctx := context.Background()

	seed := cfg.SimulateSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Infof("시드: %d", seed)

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g := loadGraph(cfg, logger)
	p := picker.NewPicker(g, picker.WithStartGroupCd(cfg.StartGroupCd), picker.WithRand(r))

	// 실제 세션을 덮어쓰지 않도록 시뮬레이션은 항상 메모리 저장소 사용
	kv := store.NewMemoryStore()
	archive := connectArchive(ctx, cfg, logger)
	manager := newManager(p, kv, archive, cfg, logger)

	if err := simulate(ctx, manager, r, cfg.SimulateSteps, logger); err != nil {
		logger.Fatalf("시뮬레이션 실패: %v", err)
	}
}

// simulate steps번 이동 후 세션 종료
// 매 이동마다 공개 연출을 즉시 시계로 끝까지 돌린 뒤 이동한다
func simulate(ctx context.Context, manager *session.Manager, r reveal.Rand, steps int, logger *utils.Logger) error {
	st, err := manager.Start(ctx)
	if err != nil {
		return err
	}
	start := st.History[0]
	logger.Infof("🚉 출발: %s (%s)", start.Name, start.LineName)

	moves := 0
	for moves < steps {
		target, err := manager.RevealTarget(ctx)
		if errors.Is(err, session.ErrNoPendingStation) {
			logger.Info("더 이상 갈 수 있는 역이 없어 시뮬레이션을 마칩니다")
			break
		}
		if err != nil {
			return err
		}

		faces := runReveal(target, r, logger)
		if _, err := manager.MarkRevealed(ctx, faces); err != nil {
			return err
		}

		st, err = manager.Go(ctx)
		if err != nil {
			return err
		}
		moves++

		current := st.History[len(st.History)-1]
		logger.Infof("[%d/%d] %s (%s) - 주사위 %v", moves, steps, current.Name, current.LineName, faces)
		logRoute(st.PendingRoute, logger)
	}

	if moves == 0 {
		logger.Warn("이동 기록이 없어 세션을 종료하지 않습니다")
		return nil
	}

	st, err = manager.Finish(ctx)
	if err != nil {
		return err
	}
	logger.Infof("🏁 시뮬레이션 완료 - 방문 %d역", len(st.History))
	return nil
}

// runReveal 공개 연출을 끝까지 실행하고 최종 주사위 눈 반환
func runReveal(target reveal.Target, r reveal.Rand, logger *utils.Logger) []int {
	var final []int
	machine := reveal.NewMachine(reveal.InstantClock{}, r, reveal.Hooks{
		OnPhase: func(phase reveal.Phase) {
			logger.Debugf("  연출 단계: %s", phase)
		},
		OnFaces: func(faces []int) {
			logger.Debugf("  주사위: %v", faces)
		},
		OnName: func(name string) {
			logger.Debugf("  룰렛: %s", name)
		},
		OnRevealed: func(faces []int) {
			final = faces
		},
	})
	machine.Start(target)

	logger.Infof("🎲 목적지 공개: %s (%d정거장)", target.FinalName, target.RideCount)
	return final
}

// logRoute 다음 목적지까지의 경로 (디버그)
func logRoute(route []models.RouteStep, logger *utils.Logger) {
	if !logger.DebugEnabled() {
		return
	}
	for _, step := range route {
		logger.Debugf("    %s %s (%s)", step.Action, step.Name, step.LineName)
	}
}
