package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zeebo/xxh3"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/model"
	modelcache "zonefinder.dev/backend/internal/model/cache"
	"zonefinder.dev/backend/internal/repo"
)

type User struct {
	UserRepo     *repo.User
	ImageService *Image
}

func NewUser(userRepo *repo.User, imageService *Image) *User {
	return &User{
		UserRepo:     userRepo,
		ImageService: imageService,
	}
}

// tokenKey keeps raw bearer tokens out of redis key names.
func tokenKey(token string) string {
	return strconv.FormatUint(xxh3.HashString(token), 16)
}

// Cache: user#token:{xxh3(token)}, 10 min
func (s *User) GetUserByToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	_, err := modelcache.UserByToken.MutexGetSet(ctx, tokenKey(token), &user, func() (model.User, error) {
		u, err := s.UserRepo.GetUserByToken(ctx, token)
		if err != nil {
			return model.User{}, err
		}
		return *u, nil
	}, time.Minute*10)
	if err != nil {
		return nil, err
	}
	user.AccessToken = token
	return &user, nil
}

func (s *User) evict(ctx context.Context, user *model.User) {
	if err := modelcache.UserByToken.Delete(ctx, tokenKey(user.AccessToken)); err != nil {
		log.Warn().Err(err).Int64("userId", user.ID).Msg("failed to evict user from cache")
	}
}

func (s *User) UpdateNickname(ctx context.Context, user *model.User, nickname string) (*model.User, error) {
	updated, err := s.UserRepo.UpdateNickname(ctx, user.ID, nickname)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, user)
	return updated, nil
}

func (s *User) UpdateProfileImage(ctx context.Context, user *model.User, img *model.ImageUpload) (*model.User, error) {
	url, err := s.ImageService.Upload(ctx, constant.ProfileImageKeyPrefix, img)
	if err != nil {
		return nil, err
	}

	updated, err := s.UserRepo.UpdateProfileImage(ctx, user.ID, url)
	if err != nil {
		return nil, err
	}
	if user.ProfileImageURL.Valid {
		s.ImageService.Delete(ctx, user.ProfileImageURL.String)
	}
	s.evict(ctx, user)
	return updated, nil
}

func (s *User) DeleteUser(ctx context.Context, user *model.User) error {
	if err := s.UserRepo.DeleteUser(ctx, user.ID); err != nil {
		return err
	}
	if user.ProfileImageURL.Valid {
		s.ImageService.Delete(ctx, user.ProfileImageURL.String)
	}
	s.evict(ctx, user)

	log.Info().Str("evt.name", "user.deleted").Int64("userId", user.ID).Msg("user deleted")
	return nil
}
