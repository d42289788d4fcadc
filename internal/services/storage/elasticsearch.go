package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"station-hopper/config"
	"station-hopper/internal/models"
	"station-hopper/internal/utils"
)

// ElasticsearchService 완료된 세션의 이동 기록을 보관하는 서비스
type ElasticsearchService struct {
	client    *elasticsearch.Client
	logger    *utils.Logger
	indexName string
}

// NewElasticsearchService 새로운 Elasticsearch 서비스 생성
func NewElasticsearchService(cfg *config.Config, logger *utils.Logger) (*ElasticsearchService, error) {
	esConfig := elasticsearch.Config{
		Addresses: []string{cfg.ElasticsearchURL},
	}

	// 인증 정보가 있는 경우 추가
	if cfg.ElasticsearchUsername != "" {
		esConfig.Username = cfg.ElasticsearchUsername
		esConfig.Password = cfg.ElasticsearchPassword
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, fmt.Errorf("Elasticsearch 클라이언트 생성 실패: %w", err)
	}

	return &ElasticsearchService{
		client:    client,
		logger:    logger,
		indexName: cfg.IndexName,
	}, nil
}

// IndexName 보관 인덱스 이름
func (es *ElasticsearchService) IndexName() string {
	return es.indexName
}

// TestConnection Elasticsearch 연결 테스트
func (es *ElasticsearchService) TestConnection(ctx context.Context) error {
	info, err := es.client.Info(es.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("연결 실패: %w", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return fmt.Errorf("연결 오류: %s", info.String())
	}

	return nil
}

// ArchiveHops 벌크 인서트로 이동 기록을 Elasticsearch에 전송
// 문서 ID는 sessionId-seq 이므로 같은 세션을 다시 보내도 중복되지 않는다
func (es *ElasticsearchService) ArchiveHops(ctx context.Context, hops []models.HopDocument) error {
	if len(hops) == 0 {
		return nil
	}

	var buf bytes.Buffer
	es.logger.Infof("📤 ES 전송 시작 - 인덱스: %s, 건수: %d건", es.indexName, len(hops))

	for _, hop := range hops {
		es.logger.Debugf("📤 [%d] %s %s (%s)", hop.Seq, hop.StationCd, hop.StationName, hop.LineName)

		meta := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": es.indexName,
				"_id":    fmt.Sprintf("%s-%d", hop.SessionID, hop.Seq),
			},
		}

		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("메타데이터 마샬링 실패: %w", err)
		}
		docBytes, err := json.Marshal(hop)
		if err != nil {
			return fmt.Errorf("문서 데이터 마샬링 실패: %w", err)
		}

		// 벌크 요청 형식: 각 라인은 \n으로 구분
		buf.Write(metaBytes)
		buf.WriteByte('\n')
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Index: es.indexName,
		Body:  bytes.NewReader(buf.Bytes()),
	}

	sendStart := time.Now()
	res, err := req.Do(ctx, es.client)
	sendDuration := time.Since(sendStart)

	if err != nil {
		es.logger.Errorf("❌ ES 전송 실패 (소요시간: %v): %v", sendDuration, err)
		return fmt.Errorf("벌크 요청 실행 실패: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		es.logger.Errorf("❌ ES 응답 오류 [%s] (소요시간: %v): %s", res.Status(), sendDuration, string(body))
		return fmt.Errorf("벌크 요청 오류 [%s]: %s", res.Status(), string(body))
	}

	var bulkResponse models.BulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return fmt.Errorf("벌크 응답 파싱 실패: %w", err)
	}

	errorCount := 0
	for i, item := range bulkResponse.Items {
		if item.Index.Error != nil {
			errorCount++
			if i < len(hops) {
				es.logger.Errorf("❌ ES 인덱싱 실패 [%d/%d] %s: %s - %s",
					i+1, len(hops), hops[i].StationCd, item.Index.Error.Type, item.Index.Error.Reason)
			}
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("벌크 인서트 중 %d개 항목 실패", errorCount)
	}

	es.logger.Infof("✅ ES 전송 완료 - %d건 성공, 소요시간: %v", len(hops), sendDuration)
	return nil
}
