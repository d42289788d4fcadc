// Package metrotest 테스트용 노선 데이터 생성 헬퍼
package metrotest

import (
	"fmt"

	"station-hopper/internal/models"
)

// HubGroupCd ThreeLineHub의 환승 허브 그룹 코드
const HubGroupCd = "1160214"

// LineSpec 테스트용 노선 정의
type LineSpec struct {
	LineCd string
	Name   string
	Color  string
	Cds    []string          // 노선 순서대로의 stationCd
	Groups map[string]string // stationCd → stationGCd (없으면 "G-"+stationCd)
	Lon    float64           // 첫 역 경도
	Lat    float64           // 첫 역 위도
	DLon   float64           // 역마다 경도 증가량
	DLat   float64           // 역마다 위도 증가량
}

// Build 노선 정의로 데이터셋 생성
// 두 노선 이상이 공유하는 그룹은 환승 그룹으로 등록된다
func Build(specs ...LineSpec) *models.RawMetroData {
	data := &models.RawMetroData{
		Company: models.Company{CompanyCd: "999", Name: "Test Metro"},
	}

	members := make(map[string][]models.RawTransferEntry)
	var groupOrder []string

	for _, spec := range specs {
		line := models.RawLine{
			LineCd: spec.LineCd,
			Name:   spec.Name,
			Color:  spec.Color,
		}
		for i, cd := range spec.Cds {
			groupCd := spec.Groups[cd]
			if groupCd == "" {
				groupCd = "G-" + cd
			}
			line.Stations = append(line.Stations, models.RawStation{
				StationCd:  cd,
				StationGCd: groupCd,
				Name:       "Station " + cd,
				Lon:        spec.Lon + spec.DLon*float64(i),
				Lat:        spec.Lat + spec.DLat*float64(i),
			})
			if i > 0 {
				line.Connections = append(line.Connections, models.RawConnection{From: spec.Cds[i-1], To: cd})
			}

			if _, seen := members[groupCd]; !seen {
				groupOrder = append(groupOrder, groupCd)
			}
			members[groupCd] = append(members[groupCd], models.RawTransferEntry{
				StationCd: cd, LineCd: spec.LineCd, Name: "Station " + cd,
			})
		}
		data.Lines = append(data.Lines, line)
	}

	for _, groupCd := range groupOrder {
		if len(members[groupCd]) < 2 {
			continue
		}
		data.Transfers = append(data.Transfers, models.RawTransfer{
			StationGCd: groupCd,
			Stations:   members[groupCd],
		})
	}
	return data
}

// Cds prefix1..prefixN 형태의 stationCd 목록
func Cds(prefix string, n int) []string {
	cds := make([]string, n)
	for i := range cds {
		cds[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return cds
}

// LinearLine 환승 없는 단일 노선 S1..Sn
func LinearLine(n int) *models.RawMetroData {
	return Build(LineSpec{
		LineCd: "L1", Name: "Line 1", Color: "#e5171f",
		Cds: Cds("S", n), Lon: 135.40, Lat: 34.60, DLon: 0.01,
	})
}

// ThreeLineHub 세 노선이 한 물리 역(A/B/C)에서 만나는 네트워크
//
//	L1: a1 a2 a3 A a5 X1 a7   (X1에서 L2와 환승)
//	L2: b1 b2 b3 B b5 X2 b7
//	L3: c1 c2 c3 C c5 c6 c7
func ThreeLineHub() *models.RawMetroData {
	hub := map[string]string{"A": HubGroupCd, "B": HubGroupCd, "C": HubGroupCd, "X1": "GX", "X2": "GX"}
	return Build(
		LineSpec{
			LineCd: "L1", Name: "Line 1", Color: "#e5171f",
			Cds: []string{"a1", "a2", "a3", "A", "a5", "X1", "a7"}, Groups: hub,
			Lon: 135.47, Lat: 34.67, DLon: 0, DLat: 0.01,
		},
		LineSpec{
			LineCd: "L2", Name: "Line 2", Color: "#522886",
			Cds: []string{"b1", "b2", "b3", "B", "b5", "X2", "b7"}, Groups: hub,
			Lon: 135.44, Lat: 34.67, DLon: 0.01, DLat: 0.01,
		},
		LineSpec{
			LineCd: "L3", Name: "Line 3", Color: "#0078ba",
			Cds: []string{"c1", "c2", "c3", "C", "c5", "c6", "c7"}, Groups: hub,
			Lon: 135.44, Lat: 34.70, DLon: 0.01, DLat: 0,
		},
	)
}
