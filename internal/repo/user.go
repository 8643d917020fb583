package repo

import (
	"context"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"

	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/repo/selector"
)

type User struct {
	db  *bun.DB
	sel selector.S[model.User]
}

func NewUser(db *bun.DB) *User {
	return &User{
		db:  db,
		sel: selector.New[model.User](db),
	}
}

func (r *User) GetUserByToken(ctx context.Context, token string) (*model.User, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("access_token = ?", token)
	})
}

func (r *User) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	})
}

func (r *User) UpdateNickname(ctx context.Context, id int64, nickname string) (*model.User, error) {
	user := &model.User{ID: id, Nickname: nickname}
	err := selector.Affected(r.db.NewUpdate().
		Model(user).
		Column("nickname").
		WherePK().
		Returning("*").
		Exec(ctx))
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *User) UpdateProfileImage(ctx context.Context, id int64, url string) (*model.User, error) {
	user := &model.User{ID: id, ProfileImageURL: null.StringFrom(url)}
	err := selector.Affected(r.db.NewUpdate().
		Model(user).
		Column("profile_image_url").
		WherePK().
		Returning("*").
		Exec(ctx))
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *User) DeleteUser(ctx context.Context, id int64) error {
	return selector.Affected(r.db.NewDelete().
		Model((*model.User)(nil)).
		Where("id = ?", id).
		Exec(ctx))
}
