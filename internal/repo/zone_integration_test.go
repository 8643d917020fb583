package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/geo"
	"zonefinder.dev/backend/internal/pkg/testentry"
	"zonefinder.dev/backend/internal/pkg/zferr"
	"zonefinder.dev/backend/internal/repo"
)

func TestZoneLifecycle(t *testing.T) {
	var (
		db       *bun.DB
		zoneRepo *repo.Zone
	)
	testentry.Populate(t, &db, &zoneRepo)

	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx, db))

	zone := &model.Zone{
		Region:    "서울특별시 중구",
		Type:      "지정구역",
		Latitude:  37.5665,
		Longitude: 126.978,
		Size:      "중형",
		User:      model.AnonymousUser,
	}
	require.NoError(t, zoneRepo.CreateZone(ctx, zone))
	require.NotZero(t, zone.ID)
	t.Cleanup(func() { _ = zoneRepo.DeleteZone(ctx, zone.ID) })

	b := geo.BoundsAround(37.5665, 126.978, 200)
	nearby, err := zoneRepo.GetZones(ctx, &b)
	require.NoError(t, err)
	assert.Contains(t, zoneIDs(nearby), zone.ID)

	far := geo.BoundsAround(35.1796, 129.0756, 200)
	busan, err := zoneRepo.GetZones(ctx, &far)
	require.NoError(t, err)
	assert.NotContains(t, zoneIDs(busan), zone.ID)

	require.NoError(t, zoneRepo.FillAddress(ctx, zone.ID, "서울특별시 중구 세종대로 110"))
	assert.ErrorIs(t, zoneRepo.FillAddress(ctx, zone.ID, "overwritten"), zferr.ErrNotFound)

	got, err := zoneRepo.GetZoneByID(ctx, zone.ID)
	require.NoError(t, err)
	assert.Equal(t, "서울특별시 중구 세종대로 110", got.Address)

	require.NoError(t, zoneRepo.DeleteZone(ctx, zone.ID))
	_, err = zoneRepo.GetZoneByID(ctx, zone.ID)
	assert.ErrorIs(t, err, zferr.ErrNotFound)
}

func zoneIDs(zones []*model.Zone) []int64 {
	ids := make([]int64, 0, len(zones))
	for _, z := range zones {
		ids = append(ids, z.ID)
	}
	return ids
}
