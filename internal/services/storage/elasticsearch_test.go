package storage

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-hopper/config"
	"station-hopper/internal/models"
	"station-hopper/internal/utils"
)

type capturedRequest struct {
	method string
	path   string
	body   string
}

// fakeES 고정 응답을 돌려주는 Elasticsearch 대역
func fakeES(t *testing.T, status int, response string) (*ElasticsearchService, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	es, err := NewElasticsearchService(&config.Config{
		ElasticsearchURL: srv.URL,
		IndexName:        "station-hops",
	}, utils.NewDiscardLogger())
	require.NoError(t, err)
	return es, &captured
}

func sampleHops() []models.HopDocument {
	return []models.HopDocument{
		{SessionID: "sess-1", SessionDate: "2026-03-01", Seq: 0, StationCd: "A", StationGCd: "1160214", StationName: "Station A"},
		{SessionID: "sess-1", SessionDate: "2026-03-01", Seq: 1, StationCd: "a5", StationGCd: "G-a5", StationName: "Station a5"},
	}
}

func TestArchiveHops_SendsNDJSONWithStableIDs(t *testing.T) {
	es, captured := fakeES(t, http.StatusOK,
		`{"took":3,"errors":false,"items":[{"index":{"status":201}},{"index":{"status":201}}]}`)

	require.NoError(t, es.ArchiveHops(context.Background(), sampleHops()))

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/station-hops/_bulk", req.path)

	var lines []string
	sc := bufio.NewScanner(bytes.NewBufferString(req.body))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"_id":"sess-1-0"`)
	assert.Contains(t, lines[1], `"stationName":"Station A"`)
	assert.Contains(t, lines[2], `"_id":"sess-1-1"`)
}

func TestArchiveHops_ItemErrorsReported(t *testing.T) {
	es, _ := fakeES(t, http.StatusOK,
		`{"took":3,"errors":true,"items":[{"index":{"status":201}},{"index":{"status":400,"error":{"type":"mapper_parsing_exception","reason":"bad"}}}]}`)

	err := es.ArchiveHops(context.Background(), sampleHops())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1개 항목 실패")
}

func TestArchiveHops_HTTPError(t *testing.T) {
	es, _ := fakeES(t, http.StatusInternalServerError, `{"error":"boom"}`)

	err := es.ArchiveHops(context.Background(), sampleHops())
	assert.Error(t, err)
}

func TestArchiveHops_EmptyIsNoop(t *testing.T) {
	es, captured := fakeES(t, http.StatusOK, `{}`)

	require.NoError(t, es.ArchiveHops(context.Background(), nil))
	assert.Empty(t, *captured)
}

func TestTopVisitedStations_ParsesAggregation(t *testing.T) {
	es, captured := fakeES(t, http.StatusOK, `{
		"aggregations": {"groups": {"buckets": [
			{"key": "1160214", "doc_count": 7, "latest": {"hits": {"hits": [
				{"_source": {"stationGCd": "1160214", "stationName": "Station A", "@timestamp": "2026-03-01T10:00:00Z"}}
			]}}},
			{"key": "G-a5", "doc_count": 2, "latest": {"hits": {"hits": []}}}
		]}}
	}`)

	stats, err := es.TopVisitedStations(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, []models.VisitStat{
		{StationGCd: "1160214", StationName: "Station A", Visits: 7, LastVisited: "2026-03-01T10:00:00Z"},
		{StationGCd: "G-a5", Visits: 2},
	}, stats)

	require.Len(t, *captured, 1)
	assert.Equal(t, "/station-hops/_search", (*captured)[0].path)
	assert.True(t, strings.Contains((*captured)[0].body, `"size":5`))
}
