package selector

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"zonefinder.dev/backend/internal/pkg/zferr"
)

type S[T any] struct {
	DB *bun.DB
}

func New[T any](db *bun.DB) S[T] {
	return S[T]{
		DB: db,
	}
}

func (r S[T]) SelectOne(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) (*T, error) {
	var model T
	err := fn(r.DB.NewSelect().Model(&model)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, zferr.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return &model, nil
}

func (r S[T]) SelectMany(ctx context.Context, fn func(q *bun.SelectQuery) *bun.SelectQuery) ([]*T, error) {
	var model []*T
	err := fn(r.DB.NewSelect().Model(&model)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, zferr.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	return model, nil
}

// Affected turns a write that touched no row into zferr.ErrNotFound.
func Affected(res sql.Result, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return zferr.ErrNotFound
	} else if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return zferr.ErrNotFound
	}
	return nil
}
