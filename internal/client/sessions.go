package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"wellness-hub/internal/api"
	"wellness-hub/internal/model"
)

// Page 是一頁公開列表結果
type Page struct {
	Sessions   []model.Session
	Count      int
	Pagination model.Pagination
}

func sessionPath(id int, suffix string) string {
	return fmt.Sprintf("/sessions/%d%s", id, suffix)
}

func (c *Client) session(ctx context.Context, method, path string, body any) (*model.Session, error) {
	env, err := c.do(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	return decodeData[*model.Session](env)
}

// ListSessions 取得公開列表，filter 的零值欄位不送出
func (c *Client) ListSessions(ctx context.Context, f model.SessionFilter) (*Page, error) {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Difficulty != "" {
		q.Set("difficulty", f.Difficulty)
	}
	if f.Featured {
		q.Set("featured", "true")
	}

	env, err := c.do(ctx, http.MethodGet, "/sessions", q, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeData[[]model.Session](env)
	if err != nil {
		return nil, err
	}
	p := &Page{Sessions: items, Count: len(items)}
	if env.Count != nil {
		p.Count = *env.Count
	}
	if env.Pagination != nil {
		p.Pagination = *env.Pagination
	}
	return p, nil
}

// MySessions 取得自己的 session，status 可為空
func (c *Client) MySessions(ctx context.Context, status string) ([]model.Session, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	env, err := c.do(ctx, http.MethodGet, "/sessions/my-sessions", q, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[[]model.Session](env)
}

func (c *Client) GetSession(ctx context.Context, id int) (*model.Session, error) {
	return c.session(ctx, http.MethodGet, sessionPath(id, ""), nil)
}

func (c *Client) CreateSession(ctx context.Context, fields api.SessionRequest) (*model.Session, error) {
	return c.session(ctx, http.MethodPost, "/sessions", fields)
}

// UpdateSession 只送出非 nil 欄位
func (c *Client) UpdateSession(ctx context.Context, id int, fields api.SessionRequest) (*model.Session, error) {
	return c.session(ctx, http.MethodPut, sessionPath(id, ""), fields)
}

func (c *Client) DeleteSession(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, sessionPath(id, ""), nil, nil)
	return err
}

func (c *Client) PublishSession(ctx context.Context, id int) (*model.Session, error) {
	return c.session(ctx, http.MethodPut, sessionPath(id, "/publish"), nil)
}

// ToggleLike 切換按讚，回傳更新後的 session 與目前是否已讚
func (c *Client) ToggleLike(ctx context.Context, id int) (*model.Session, bool, error) {
	s, err := c.session(ctx, http.MethodPut, sessionPath(id, "/like"), nil)
	if err != nil {
		return nil, false, err
	}
	liked := false
	if u := c.auth.User(); u != nil {
		liked = s.LikedBy(u.ID)
	}
	return s, liked, nil
}

// FeatureSession 設定精選 (需要 admin)
func (c *Client) FeatureSession(ctx context.Context, id int, featured bool) (*model.Session, error) {
	return c.session(ctx, http.MethodPut, sessionPath(id, "/feature"), api.FeatureRequest{Featured: &featured})
}
