package session

import (
	"context"
	"sync"
	"time"

	"station-hopper/internal/utils"
)

// RolloverWorker 세션 날짜 전환 감시 워커
// 날짜가 바뀌면 오늘 세션을 미리 준비하고 보존 기간이 지난 기록을 정리한다
type RolloverWorker struct {
	manager   *Manager
	logger    *utils.Logger
	interval  time.Duration
	retention time.Duration // 0이면 지난 기록 유지

	mu       sync.Mutex
	lastDate string
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRolloverWorker 날짜 전환 워커 생성
func NewRolloverWorker(m *Manager, logger *utils.Logger, interval, retention time.Duration) *RolloverWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &RolloverWorker{
		manager:   m,
		logger:    logger,
		interval:  interval,
		retention: retention,
	}
}

// Start 워커 시작
func (w *RolloverWorker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx)
}

// Stop 워커 정지 (실행 중인 점검이 끝날 때까지 대기)
func (w *RolloverWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (w *RolloverWorker) run(ctx context.Context) {
	defer close(w.done)
	w.logger.Info("🔄 세션 날짜 전환 워커 시작")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.CheckAndRollover(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("🔄 세션 날짜 전환 워커 종료")
			return
		case <-ticker.C:
			w.CheckAndRollover(ctx)
		}
	}
}

// CheckAndRollover 날짜가 바뀌었으면 오늘 세션 준비 후 오래된 기록 정리
// 전환을 처리했으면 true
func (w *RolloverWorker) CheckAndRollover(ctx context.Context) bool {
	today := w.manager.today()

	w.mu.Lock()
	defer w.mu.Unlock()
	if today == w.lastDate {
		return false
	}

	if _, err := w.manager.Current(ctx); err != nil {
		w.logger.Errorf("오늘 세션 준비 실패 (%s): %v", today, err)
		return false
	}
	w.logger.Infof("🗓️ 세션 날짜 %s 준비 완료", today)
	w.lastDate = today

	if w.retention > 0 {
		cutoff := w.manager.dateOf(w.manager.now().Add(-w.retention))
		pruned, err := w.manager.PruneBefore(ctx, cutoff)
		if err != nil {
			w.logger.Warnf("오래된 세션 정리 실패: %v", err)
		} else if pruned > 0 {
			w.logger.Infof("🧹 %s 이전 세션 %d건 정리", cutoff, pruned)
		}
	}
	return true
}
