package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

type User struct {
	bun.BaseModel `bun:"users,alias:u"`

	ID              int64       `bun:",pk,autoincrement" json:"id"`
	Nickname        string      `json:"nickname"`
	Email           string      `json:"email"`
	ProfileImageURL null.String `json:"profileImageUrl"`
	// AccessToken is issued by the social login flow, which lives outside this service.
	AccessToken string    `bun:",unique" json:"-"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

type NicknameUpdateRequest struct {
	Nickname string `json:"nickname" validate:"required,min=2,max=20"`
}
