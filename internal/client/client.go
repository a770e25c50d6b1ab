// Package client 是 wellness-hub HTTP API 的 Go 客戶端
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"wellness-hub/internal/model"
)

// Error 是 API 回傳 success=false 時的錯誤
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsStatus 判斷 err 是否為指定狀態碼的 API 錯誤
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}

type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Count      *int              `json:"count"`
	Pagination *model.Pagination `json:"pagination"`
}

type Client struct {
	baseURL string
	http    *http.Client
	auth    *AuthState
}

// New 建立客戶端；httpClient 為 nil 時使用 http.DefaultClient
func New(baseURL string, auth *AuthState, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if auth == nil {
		auth = NewAuthState()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, auth: auth}
}

func (c *Client) Auth() *AuthState { return c.auth }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	u := c.baseURL + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.auth.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return nil, &Error{Status: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}

func decodeData[T any](env *envelope) (T, error) {
	var out T
	if len(env.Data) == 0 {
		return out, nil
	}
	err := json.Unmarshal(env.Data, &out)
	return out, err
}

// Ping 呼叫健康檢查
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/ping", nil, nil)
	return err
}
