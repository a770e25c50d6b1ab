package client

import (
	"sync"

	"wellness-hub/internal/model"
)

// AuthState 保存目前登入者的 token 與資料。由程式入口建立一次，
// 以指標傳給需要身分的元件；登出時清空
type AuthState struct {
	mu    sync.RWMutex
	token string
	user  *model.User
}

func NewAuthState() *AuthState {
	return &AuthState{}
}

func (a *AuthState) Set(token string, user *model.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
	a.user = user
}

func (a *AuthState) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// User 回傳副本，呼叫端修改不會影響狀態
func (a *AuthState) User() *model.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

func (a *AuthState) LoggedIn() bool {
	return a.Token() != ""
}

func (a *AuthState) Clear() {
	a.Set("", nil)
}
