package client

import (
	"context"
	"net/http"

	"wellness-hub/internal/api"
	"wellness-hub/internal/model"
)

func (c *Client) authenticate(ctx context.Context, path string, body any) (*model.User, error) {
	env, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	data, err := decodeData[api.AuthData](env)
	if err != nil {
		return nil, err
	}
	c.auth.Set(data.Token, data.User)
	return data.User, nil
}

// Register 註冊並以新帳號登入
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*model.User, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

// Login 登入並把 token 存入 AuthState
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	return c.authenticate(ctx, "/auth/login", api.LoginRequest{Email: email, Password: password})
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*model.User](env)
}

func (c *Client) UpdateDetails(ctx context.Context, req api.UpdateDetailsRequest) (*model.User, error) {
	env, err := c.do(ctx, http.MethodPut, "/auth/updatedetails", nil, req)
	if err != nil {
		return nil, err
	}
	user, err := decodeData[*model.User](env)
	if err != nil {
		return nil, err
	}
	c.auth.Set(c.auth.Token(), user)
	return user, nil
}

func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	_, err := c.do(ctx, http.MethodPut, "/auth/updatepassword", nil, api.UpdatePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	return err
}

// Logout 撤銷伺服器端 token；不論結果都會清空本地狀態
func (c *Client) Logout(ctx context.Context) error {
	defer c.auth.Clear()
	if !c.auth.LoggedIn() {
		return nil
	}
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}
