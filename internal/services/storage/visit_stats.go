package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"station-hopper/internal/models"
)

// visitSearchResponse 방문 집계 응답
type visitSearchResponse struct {
	Aggregations struct {
		Groups struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int64  `json:"doc_count"`
				Latest   struct {
					Hits struct {
						Hits []struct {
							Source models.HopDocument `json:"_source"`
						} `json:"hits"`
					} `json:"hits"`
				} `json:"latest"`
			} `json:"buckets"`
		} `json:"groups"`
	} `json:"aggregations"`
}

// TopVisitedStations 아카이브 전체에서 가장 많이 방문한 역 그룹
func (es *ElasticsearchService) TopVisitedStations(ctx context.Context, size int) ([]models.VisitStat, error) {
	if size <= 0 {
		size = 10
	}

	query := map[string]interface{}{
		"size": 0, // 집계 결과만 필요
		"aggs": map[string]interface{}{
			"groups": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "stationGCd.keyword",
					"size":  size,
				},
				"aggs": map[string]interface{}{
					"latest": map[string]interface{}{
						"top_hits": map[string]interface{}{
							"sort": []map[string]interface{}{
								{"@timestamp": map[string]interface{}{"order": "desc"}},
							},
							"size":    1,
							"_source": []string{"stationGCd", "stationName", "@timestamp"},
						},
					},
				},
			},
		},
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("쿼리 마샬링 실패: %w", err)
	}

	res, err := es.client.Search(
		es.client.Search.WithContext(ctx),
		es.client.Search.WithIndex(es.indexName),
		es.client.Search.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("Elasticsearch 쿼리 실행 실패: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("Elasticsearch 쿼리 오류 [%s]: %s", res.Status(), string(body))
	}

	var searchResponse visitSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResponse); err != nil {
		return nil, fmt.Errorf("응답 파싱 실패: %w", err)
	}

	stats := make([]models.VisitStat, 0, len(searchResponse.Aggregations.Groups.Buckets))
	for _, bucket := range searchResponse.Aggregations.Groups.Buckets {
		stat := models.VisitStat{StationGCd: bucket.Key, Visits: bucket.DocCount}
		if hits := bucket.Latest.Hits.Hits; len(hits) > 0 {
			stat.StationName = hits[0].Source.StationName
			stat.LastVisited = hits[0].Source.Timestamp
		}
		stats = append(stats, stat)
	}

	es.logger.Debugf("방문 집계 조회 완료 - %d개 그룹", len(stats))
	return stats, nil
}
