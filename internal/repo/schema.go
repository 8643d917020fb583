package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"zonefinder.dev/backend/internal/model"
)

// EnsureSchema creates the tables and indexes zonefinder needs when they do not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, m := range []any{(*model.User)(nil), (*model.Zone)(nil)} {
			if _, err := tx.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
				return errors.Wrapf(err, "create table for %T", m)
			}
		}

		_, err := tx.NewCreateIndex().
			Model((*model.Zone)(nil)).
			Index("zones_lat_lng_idx").
			IfNotExists().
			Column("latitude", "longitude").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "create zones coordinate index")
		}

		log.Info().Str("evt.name", "repo.schema.ensured").Msg("database schema is up to date")
		return nil
	})
}
