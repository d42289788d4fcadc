package session

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"station-hopper/internal/models"
)

// PastDays 활성 세션과 오늘을 제외한, 방문 기록이 있는 날짜들 (최신순)
func (m *Manager) PastDays(ctx context.Context) ([]models.PastDay, error) {
	m.mu.Lock()
	active := m.activeDateLocked()
	m.mu.Unlock()

	return m.pastDays(ctx, active)
}

func (m *Manager) activeDateLocked() string {
	if m.state != nil && m.state.SessionDate != "" {
		return m.state.SessionDate
	}
	return m.today()
}

func (m *Manager) pastDays(ctx context.Context, activeDate string) ([]models.PastDay, error) {
	keys, err := m.store.ListKeys(ctx, StateKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("세션 목록 조회 실패: %w", err)
	}

	today := m.today()
	days := make([]models.PastDay, 0, len(keys))
	for _, key := range keys {
		date := strings.TrimPrefix(key, StateKeyPrefix)
		if date == today || date == activeDate {
			continue
		}
		st, err := m.load(ctx, date)
		if err != nil {
			return nil, err
		}
		if st == nil || len(st.History) == 0 {
			continue
		}
		days = append(days, models.PastDay{Date: date, History: st.History})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days, nil
}

// DeletePastDay 지난 날짜의 기록 삭제 (활성 세션은 Reset 사용)
func (m *Manager) DeletePastDay(ctx context.Context, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if date == m.activeDateLocked() {
		return fmt.Errorf("%w: %s is the active session", ErrNoSession, date)
	}
	_, ok, err := m.store.Get(ctx, stateKey(date))
	if err != nil {
		return fmt.Errorf("세션 조회 실패 (%s): %w", date, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSession, date)
	}
	if err := m.store.Delete(ctx, stateKey(date)); err != nil {
		return fmt.Errorf("세션 삭제 실패 (%s): %w", date, err)
	}

	m.logger.Infof("지난 기록 삭제 - %s", date)
	return nil
}

// PastVisitedGroupCds 지난 날짜들에 방문한 역 그룹 전체
func (m *Manager) PastVisitedGroupCds(ctx context.Context) (map[string]bool, error) {
	m.mu.Lock()
	active := m.activeDateLocked()
	m.mu.Unlock()

	days, err := m.pastDays(ctx, active)
	if err != nil {
		return nil, err
	}
	return groupCdsOf(days), nil
}

// pastVisitedGroupCds 선택 중 사용 (실패 시 제외 없이 진행)
func (m *Manager) pastVisitedGroupCds(ctx context.Context, activeDate string) map[string]bool {
	days, err := m.pastDays(ctx, activeDate)
	if err != nil {
		m.logger.Warnf("지난 방문 기록 조회 실패, 제외 없이 진행: %v", err)
		return map[string]bool{}
	}
	return groupCdsOf(days)
}

func groupCdsOf(days []models.PastDay) map[string]bool {
	gcds := make(map[string]bool)
	for _, day := range days {
		for _, entry := range day.History {
			gcds[entry.StationGCd] = true
		}
	}
	return gcds
}

// Stats 활성 세션 진행 통계
func (m *Manager) Stats(ctx context.Context) (models.SessionStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLocked(ctx); err != nil {
		return models.SessionStats{}, err
	}

	unique := make(map[string]bool, len(m.state.VisitedGroupCds))
	for _, gcd := range m.state.VisitedGroupCds {
		unique[gcd] = true
	}

	return models.SessionStats{
		SessionDate:   m.state.SessionDate,
		VisitedCount:  len(m.state.History),
		UniqueVisited: len(unique),
		TotalStations: m.graph.UniqueStationCount(),
		Completed:     m.state.Completed,
	}, nil
}

// PruneBefore cutoff 날짜보다 이전의 세션 기록 삭제 (활성 세션 제외)
func (m *Manager) PruneBefore(ctx context.Context, cutoff string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys, err := m.store.ListKeys(ctx, StateKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("세션 목록 조회 실패: %w", err)
	}

	active := m.activeDateLocked()
	pruned := 0
	for _, key := range keys {
		date := strings.TrimPrefix(key, StateKeyPrefix)
		if date >= cutoff || date == active {
			continue
		}
		if err := m.store.Delete(ctx, key); err != nil {
			return pruned, fmt.Errorf("세션 삭제 실패 (%s): %w", date, err)
		}
		pruned++
	}
	return pruned, nil
}
