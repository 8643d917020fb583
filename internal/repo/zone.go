package repo

import (
	"context"

	"github.com/uptrace/bun"

	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/geo"
	"zonefinder.dev/backend/internal/repo/selector"
)

type Zone struct {
	db  *bun.DB
	sel selector.S[model.Zone]
}

func NewZone(db *bun.DB) *Zone {
	return &Zone{
		db:  db,
		sel: selector.New[model.Zone](db),
	}
}

func withinBounds(q *bun.SelectQuery, bounds *geo.Bounds) *bun.SelectQuery {
	if bounds != nil {
		q = q.
			Where("?TableAlias.latitude BETWEEN ? AND ?", bounds.MinLat, bounds.MaxLat).
			Where("?TableAlias.longitude BETWEEN ? AND ?", bounds.MinLng, bounds.MaxLng)
	}
	return q.Order("id ASC")
}

// GetZones lists zones in id order. A non-nil bounds only keeps rows inside
// the box; callers apply the exact distance check.
func (r *Zone) GetZones(ctx context.Context, bounds *geo.Bounds) ([]*model.Zone, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return withinBounds(q, bounds)
	})
}

func (r *Zone) GetZoneByID(ctx context.Context, id int64) (*model.Zone, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	})
}

// CreateZone inserts zone and fills in the generated id and creation time.
func (r *Zone) CreateZone(ctx context.Context, zone *model.Zone) error {
	_, err := r.db.NewInsert().
		Model(zone).
		ExcludeColumn("id", "created_at").
		Returning("*").
		Exec(ctx)
	return err
}

// UpdateZone overwrites every user editable column of the zone with zone.ID.
func (r *Zone) UpdateZone(ctx context.Context, zone *model.Zone) error {
	return selector.Affected(r.db.NewUpdate().
		Model(zone).
		ExcludeColumn("id", "created_at").
		WherePK().
		Returning("*").
		Exec(ctx))
}

// FillAddress sets the address of a zone that has none yet. A zone whose
// address was set in the meantime is left untouched and reported as not found.
func (r *Zone) FillAddress(ctx context.Context, id int64, address string) error {
	return selector.Affected(r.db.NewUpdate().
		Model((*model.Zone)(nil)).
		Set("address = ?", address).
		Where("id = ?", id).
		Where("address = ''").
		Exec(ctx))
}

func (r *Zone) DeleteZone(ctx context.Context, id int64) error {
	return selector.Affected(r.db.NewDelete().
		Model((*model.Zone)(nil)).
		Where("id = ?", id).
		Exec(ctx))
}
