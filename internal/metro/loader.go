// internal/metro/loader.go - 데이터셋 파일 로드
package metro

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"station-hopper/internal/models"
)

// LoadDataset JSON 또는 YAML 데이터셋 파일 로드
func LoadDataset(path string) (*models.RawMetroData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("데이터셋 파일 읽기 실패 (%s): %w", path, err)
	}

	var data models.RawMetroData
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("YAML 데이터셋 파싱 실패: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("JSON 데이터셋 파싱 실패: %w", err)
		}
	default:
		return nil, fmt.Errorf("지원하지 않는 데이터셋 형식입니다: %s", path)
	}

	return &data, nil
}

// LoadGraph 데이터셋 파일을 읽어 그래프 생성
func LoadGraph(path string) (*Graph, error) {
	data, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	return BuildGraph(data), nil
}
