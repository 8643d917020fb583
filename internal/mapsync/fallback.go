package mapsync

import (
	"time"

	"gopkg.in/guregu/null.v3"

	"zonefinder.dev/backend/internal/model"
)

// FallbackZones is the demo dataset shown when the zone list cannot be
// fetched and nothing has been loaded yet. Its ids are negative so they never
// collide with backend ids.
func FallbackZones() []model.Zone {
	return []model.Zone{
		{
			ID:          -1,
			Region:      "서울특별시 중구",
			Type:        "지정구역",
			Subtype:     "흡연부스",
			Description: "명동역 근처 지정 흡연구역입니다. 실외 공간으로 환기가 잘 됩니다.",
			Latitude:    37.5665,
			Longitude:   126.978,
			Size:        "중형",
			Address:     "서울특별시 중구 명동길 26",
			User:        "관리자",
			Image:       null.StringFrom("/modern-outdoor-smoking-booth.png"),
			CreatedAt:   time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          -2,
			Region:      "서울특별시 중구",
			Type:        "일반구역",
			Subtype:     "야외공간",
			Description: "동대문디자인플라자 인근 흡연 공간입니다.",
			Latitude:    37.57,
			Longitude:   126.985,
			Size:        "대형",
			Address:     "서울특별시 중구 을지로 281",
			User:        "사용자1",
			Image:       null.StringFrom("/modern-building-smoking-area.png"),
			CreatedAt:   time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC),
		},
	}
}
