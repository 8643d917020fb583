package repo

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/geo"
)

// offlineDB never connects; it is only used to render queries.
func offlineDB() *bun.DB {
	return bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN("postgres://localhost/zonefinder?sslmode=disable"))), pgdialect.New())
}

func TestWithinBounds(t *testing.T) {
	db := offlineDB()

	t.Run("no bounds lists everything", func(t *testing.T) {
		q := withinBounds(db.NewSelect().Model((*model.Zone)(nil)), nil).String()
		assert.NotContains(t, q, "BETWEEN")
		assert.Contains(t, q, "ORDER BY id ASC")
	})

	t.Run("bounds prefilter both axes", func(t *testing.T) {
		b := geo.BoundsAround(37.5665, 126.978, 1000)
		q := withinBounds(db.NewSelect().Model((*model.Zone)(nil)), &b).String()
		assert.Contains(t, q, `"z".latitude BETWEEN`)
		assert.Contains(t, q, `"z".longitude BETWEEN`)
		assert.Contains(t, q, `FROM "zones" AS "z"`)
	})
}
