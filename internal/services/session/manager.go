// internal/services/session/manager.go - 날짜별 탐험 세션 관리
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"station-hopper/internal/metro"
	"station-hopper/internal/models"
	"station-hopper/internal/picker"
	"station-hopper/internal/services/store"
	"station-hopper/internal/utils"
)

// 저장소 키
const (
	StateKeyPrefix = "eco-hop-state-"
	ExcludePastKey = "eco-hop-exclude-past"
)

var (
	ErrNoSession        = errors.New("session: no session")
	ErrNoPendingStation = errors.New("session: no pending station")
	ErrSessionCompleted = errors.New("session: already completed")
	ErrUnknownLine      = errors.New("session: unknown line")
	ErrNothingToFinish  = errors.New("session: no moves to finish")
	ErrBusy             = errors.New("session: another operation in progress")
)

// Archiver 완료된 세션의 이동 기록 보관소
type Archiver interface {
	ArchiveHops(ctx context.Context, hops []models.HopDocument) error
}

// Option Manager 설정
type Option func(*Manager)

// WithArchiver 세션 완료 시 기록을 보관
func WithArchiver(a Archiver) Option {
	return func(m *Manager) { m.archiver = a }
}

// WithClock 현재 시각 함수 교체
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithDateFunc 시각 → 세션 날짜 변환 교체 (기본: 로컬 날짜)
func WithDateFunc(f func(time.Time) string) Option {
	return func(m *Manager) { m.dateOf = f }
}

// Manager 활성 세션 하나를 메모리에 들고 변경마다 저장소에 기록한다
// 모든 상태 전이는 mu 아래에서 원자적으로 수행된다
type Manager struct {
	mu       sync.Mutex
	graph    *metro.Graph
	picker   *picker.Picker
	store    store.KVStore
	logger   *utils.Logger
	archiver Archiver
	now      func() time.Time
	dateOf   func(time.Time) string

	state *models.PersistedState
}

// NewManager 세션 매니저 생성
func NewManager(p *picker.Picker, kv store.KVStore, logger *utils.Logger, opts ...Option) *Manager {
	m := &Manager{
		graph:  p.Graph(),
		picker: p,
		store:  kv,
		logger: logger,
		now:    time.Now,
		dateOf: func(t time.Time) string { return utils.Time.SessionDate(t, nil) },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Graph 노선 그래프
func (m *Manager) Graph() *metro.Graph {
	return m.graph
}

// Picker 역 선택기
func (m *Manager) Picker() *picker.Picker {
	return m.picker
}

func stateKey(date string) string {
	return StateKeyPrefix + date
}

func (m *Manager) today() string {
	return m.dateOf(m.now())
}

// Load 지정 날짜의 저장된 세션 조회 (없으면 ErrNoSession)
func (m *Manager) Load(ctx context.Context, date string) (*models.PersistedState, error) {
	st, err := m.load(ctx, date)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, date)
	}
	return st, nil
}

// load 손상된 기록은 없는 것으로 취급
func (m *Manager) load(ctx context.Context, date string) (*models.PersistedState, error) {
	raw, ok, err := m.store.Get(ctx, stateKey(date))
	if err != nil {
		return nil, fmt.Errorf("세션 조회 실패 (%s): %w", date, err)
	}
	if !ok {
		return nil, nil
	}

	var st models.PersistedState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		m.logger.Warnf("손상된 세션 기록 무시 (%s): %v", date, err)
		return nil, nil
	}
	if st.SessionDate == "" {
		st.SessionDate = date
	}
	return &st, nil
}

func (m *Manager) save(ctx context.Context, st *models.PersistedState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("세션 직렬화 실패: %w", err)
	}
	date := st.SessionDate
	if date == "" {
		date = m.today()
	}
	if err := m.store.Put(ctx, stateKey(date), string(data)); err != nil {
		return fmt.Errorf("세션 저장 실패 (%s): %w", date, err)
	}
	return nil
}

// commit 저장에 성공했을 때만 활성 세션 교체
func (m *Manager) commit(ctx context.Context, st *models.PersistedState) (*models.PersistedState, error) {
	if err := m.save(ctx, st); err != nil {
		return nil, err
	}
	m.state = st
	return clone(st), nil
}

// Current 활성 세션 (처음 호출 시 오늘 세션을 복원하거나 새로 시작)
func (m *Manager) Current(ctx context.Context) (*models.PersistedState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLocked(ctx); err != nil {
		return nil, err
	}
	return clone(m.state), nil
}

func (m *Manager) ensureLocked(ctx context.Context) error {
	today := m.today()
	if m.state != nil {
		if m.state.SessionDate == today {
			return nil
		}
		// 날짜가 바뀌면 지난 세션은 저장소에 남겨 두고 오늘 세션으로 넘어간다
		m.logger.Infof("세션 날짜 변경 - %s → %s", m.state.SessionDate, today)
		m.state = nil
	}

	saved, err := m.load(ctx, today)
	if err != nil {
		return err
	}

	// 첫 목적지를 공개하기 전까지는 접속할 때마다 출발역을 다시 뽑는다
	if saved != nil && (saved.Completed || len(saved.History) > 1 || saved.DestinationRevealed) {
		m.logger.Infof("세션 복원 - 날짜: %s, 방문: %d역", saved.SessionDate, len(saved.History))
		m.state = saved
		return nil
	}

	initial, err := m.initialize(ctx)
	if err != nil {
		return err
	}
	_, err = m.commit(ctx, initial)
	return err
}

// initialize 출발역과 첫 목적지를 뽑은 새 세션
func (m *Manager) initialize(ctx context.Context) (*models.PersistedState, error) {
	startCd, err := m.picker.PickStartStation()
	if err != nil {
		return nil, err
	}
	start, _ := m.graph.Station(startCd)

	st := &models.PersistedState{
		CurrentStationCd: startCd,
		VisitedGroupCds:  []string{start.StationGCd},
		History:          []models.HistoryEntry{m.historyEntry(start)},
		SessionDate:      m.today(),
		SessionID:        utils.ID.GenerateSessionID(),
	}
	m.repick(ctx, st, nil)

	m.logger.Infof("새 세션 시작 - %s (%s %s)", st.SessionDate, start.Name, start.LineName)
	return st, nil
}

func (m *Manager) historyEntry(s models.Station) models.HistoryEntry {
	return models.HistoryEntry{
		StationCd:  s.StationCd,
		StationGCd: s.StationGCd,
		Name:       s.Name,
		LineName:   s.LineName,
		LineColor:  s.LineColor,
		Timestamp:  m.now().UnixMilli(),
	}
}

// repick 현재 위치에서 다음 목적지와 경로를 다시 계산 (공개 상태 초기화)
// pastVisited가 nil이면 설정에 따라 지난 날짜 방문 역을 조회한다
func (m *Manager) repick(ctx context.Context, st *models.PersistedState, pastVisited map[string]bool) {
	if pastVisited == nil && m.excludePastEnabled(ctx) {
		pastVisited = m.pastVisitedGroupCds(ctx, st.SessionDate)
	}

	suspended := utils.Slice.ToSet(st.SuspendedLineCds)
	nextCd, ok := m.picker.PickNextStation(
		st.CurrentStationCd,
		utils.Slice.ToSet(st.VisitedGroupCds),
		st.History,
		suspended,
		pastVisited,
	)

	st.DestinationRevealed = false
	st.DiceFaces = nil
	if !ok {
		st.PendingNextCd = nil
		st.PendingRoute = nil
		m.logger.Infof("더 이상 갈 수 있는 역이 없습니다 (현재: %s)", st.CurrentStationCd)
		return
	}

	st.PendingNextCd = &nextCd
	st.PendingRoute = metro.FindRoute(m.graph, st.CurrentStationCd, nextCd, suspended)
	m.logger.Debugf("다음 목적지 - %s → %s (%d단계)", st.CurrentStationCd, nextCd, len(st.PendingRoute))
}

// lockBusy 진행 중인 조작이 있으면 ErrBusy
func (m *Manager) lockBusy() error {
	if !m.mu.TryLock() {
		return ErrBusy
	}
	return nil
}

// active 조작 가능한 (완료되지 않은) 세션 복사본
func (m *Manager) active(ctx context.Context) (*models.PersistedState, error) {
	if err := m.ensureLocked(ctx); err != nil {
		return nil, err
	}
	if m.state.Completed {
		return nil, ErrSessionCompleted
	}
	return clone(m.state), nil
}

// Start 새 세션 시작 (같은 날짜의 기존 세션은 덮어쓴다)
func (m *Manager) Start(ctx context.Context) (*models.PersistedState, error) {
	if err := m.lockBusy(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	st, err := m.initialize(ctx)
	if err != nil {
		return nil, err
	}
	return m.commit(ctx, st)
}

// Go 대기 중인 목적지로 이동하고 다음 목적지를 뽑는다
func (m *Manager) Go(ctx context.Context) (*models.PersistedState, error) {
	if err := m.lockBusy(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	st, err := m.active(ctx)
	if err != nil {
		return nil, err
	}
	if st.PendingNextCd == nil {
		return nil, ErrNoPendingStation
	}

	next, ok := m.graph.Station(*st.PendingNextCd)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPendingStation, *st.PendingNextCd)
	}

	st.CurrentStationCd = next.StationCd
	st.History = append(st.History, m.historyEntry(next))
	st.VisitedGroupCds = append(st.VisitedGroupCds, next.StationGCd)
	m.repick(ctx, st, nil)

	m.logger.Infof("🚇 이동 - %s (%s), 방문 %d역", next.Name, next.LineName, len(st.History))
	return m.commit(ctx, st)
}

// Reroll 같은 위치에서 목적지 다시 뽑기
func (m *Manager) Reroll(ctx context.Context) (*models.PersistedState, error) {
	if err := m.lockBusy(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	st, err := m.active(ctx)
	if err != nil {
		return nil, err
	}
	m.repick(ctx, st, nil)
	return m.commit(ctx, st)
}

// ToggleSuspension 노선 운휴 여부를 뒤집고 목적지를 다시 뽑는다
func (m *Manager) ToggleSuspension(ctx context.Context, lineCd string) (*models.PersistedState, error) {
	if !m.graph.HasLine(lineCd) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLine, lineCd)
	}

	if err := m.lockBusy(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	st, err := m.active(ctx)
	if err != nil {
		return nil, err
	}

	if utils.Slice.ContainsString(st.SuspendedLineCds, lineCd) {
		kept := st.SuspendedLineCds[:0]
		for _, cd := range st.SuspendedLineCds {
			if cd != lineCd {
				kept = append(kept, cd)
			}
		}
		st.SuspendedLineCds = kept
		m.logger.Infof("운휴 해제 - %s", lineCd)
	} else {
		st.SuspendedLineCds = append(st.SuspendedLineCds, lineCd)
		m.logger.Infof("운휴 설정 - %s", lineCd)
	}

	m.repick(ctx, st, nil)
	return m.commit(ctx, st)
}

// ExcludePastVisited 지난 날짜 방문 역 제외 설정
func (m *Manager) ExcludePastVisited(ctx context.Context) bool {
	return m.excludePastEnabled(ctx)
}

func (m *Manager) excludePastEnabled(ctx context.Context) bool {
	v, ok, err := m.store.Get(ctx, ExcludePastKey)
	if err != nil {
		m.logger.Warnf("제외 설정 조회 실패: %v", err)
		return false
	}
	return ok && v == "true"
}

// SetExcludePastVisited 설정 저장 후 목적지를 다시 뽑는다
func (m *Manager) SetExcludePastVisited(ctx context.Context, enabled bool) (*models.PersistedState, error) {
	if err := m.lockBusy(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	value := "false"
	if enabled {
		value = "true"
	}
	if err := m.store.Put(ctx, ExcludePastKey, value); err != nil {
		return nil, fmt.Errorf("제외 설정 저장 실패: %w", err)
	}

	if err := m.ensureLocked(ctx); err != nil {
		return nil, err
	}
	if m.state.Completed {
		return clone(m.state), nil
	}

	st := clone(m.state)
	past := map[string]bool{}
	if enabled {
		past = m.pastVisitedGroupCds(ctx, st.SessionDate)
	}
	m.repick(ctx, st, past)
	return m.commit(ctx, st)
}

// MarkRevealed 목적지 공개 완료와 주사위 눈 기록
func (m *Manager) MarkRevealed(ctx context.Context, diceFaces []int) (*models.PersistedState, error) {
	if err := m.lockBusy(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	st, err := m.active(ctx)
	if err != nil {
		return nil, err
	}
	if st.PendingNextCd == nil {
		return nil, ErrNoPendingStation
	}

	st.DestinationRevealed = true
	st.DiceFaces = append([]int(nil), diceFaces...)
	return m.commit(ctx, st)
}

// Finish 세션 종료 (보관소가 있으면 이동 기록 전송, 실패해도 종료는 유지)
func (m *Manager) Finish(ctx context.Context) (*models.PersistedState, error) {
	if err := m.lockBusy(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	st, err := m.active(ctx)
	if err != nil {
		return nil, err
	}
	if len(st.History) <= 1 {
		return nil, ErrNothingToFinish
	}

	st.PendingNextCd = nil
	st.PendingRoute = nil
	st.Completed = true
	st.DestinationRevealed = false
	st.DiceFaces = nil

	result, err := m.commit(ctx, st)
	if err != nil {
		return nil, err
	}

	m.logger.Infof("🏁 세션 종료 - %s, 방문 %d역", st.SessionDate, len(st.History))
	if m.archiver != nil {
		if err := m.archiver.ArchiveHops(ctx, m.hopDocuments(st)); err != nil {
			m.logger.Errorf("세션 기록 보관 실패 (%s): %v", st.SessionDate, err)
		}
	}
	return result, nil
}

func (m *Manager) hopDocuments(st *models.PersistedState) []models.HopDocument {
	hops := make([]models.HopDocument, 0, len(st.History))
	for i, h := range st.History {
		doc := models.HopDocument{
			SessionID:   st.SessionID,
			SessionDate: st.SessionDate,
			Seq:         i,
			StationCd:   h.StationCd,
			StationGCd:  h.StationGCd,
			StationName: h.Name,
			LineName:    h.LineName,
			Timestamp:   time.UnixMilli(h.Timestamp).UTC().Format(time.RFC3339),
		}
		if s, ok := m.graph.Station(h.StationCd); ok {
			doc.LineCd = s.LineCd
			doc.Lon = s.Lon
			doc.Lat = s.Lat
		}
		hops = append(hops, doc)
	}
	return hops
}

// Reset 활성 세션 기록을 지우고 새로 시작
func (m *Manager) Reset(ctx context.Context) (*models.PersistedState, error) {
	if err := m.lockBusy(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	// 날짜가 바뀐 뒤라면 메모리의 세션은 지난 날짜 기록이므로 지우지 않는다
	date := m.today()
	if err := m.store.Delete(ctx, stateKey(date)); err != nil {
		return nil, fmt.Errorf("세션 삭제 실패 (%s): %w", date, err)
	}
	m.state = nil

	st, err := m.initialize(ctx)
	if err != nil {
		return nil, err
	}
	return m.commit(ctx, st)
}

func clone(st *models.PersistedState) *models.PersistedState {
	if st == nil {
		return nil
	}
	c := *st
	c.VisitedGroupCds = append([]string(nil), st.VisitedGroupCds...)
	c.History = append([]models.HistoryEntry(nil), st.History...)
	c.SuspendedLineCds = append([]string(nil), st.SuspendedLineCds...)
	c.DiceFaces = append([]int(nil), st.DiceFaces...)
	if st.PendingRoute != nil {
		c.PendingRoute = append([]models.RouteStep{}, st.PendingRoute...)
	}
	if st.PendingNextCd != nil {
		next := *st.PendingNextCd
		c.PendingNextCd = &next
	}
	return &c
}
