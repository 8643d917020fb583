package zoneclient

import (
	"context"
	"net/http"

	"zonefinder.dev/backend/internal/model"
)

func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	r, _ := jsonRequest(http.MethodGet, "/users/me", nil)
	var user model.User
	if err := c.do(ctx, r, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateNickname(ctx context.Context, nickname string) (*model.User, error) {
	r, err := jsonRequest(http.MethodPut, "/users/me/nickname", model.NicknameUpdateRequest{Nickname: nickname})
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := c.do(ctx, r, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfileImage(ctx context.Context, img *Image) (*model.User, error) {
	body, contentType, err := multipartBody(nil, img)
	if err != nil {
		return nil, err
	}
	var user model.User
	err = c.do(ctx, &request{method: http.MethodPut, path: "/users/me/profile-image", body: body, contentType: contentType}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteCurrentUser(ctx context.Context) error {
	r, _ := jsonRequest(http.MethodDelete, "/users/me", nil)
	return c.do(ctx, r, nil)
}
