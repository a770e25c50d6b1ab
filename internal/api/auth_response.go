// File: internal/api/auth_response.go
package api

import "wellness-hub/internal/model"

// AuthData 是註冊與登入成功的 data 內容
// swagger:model api.AuthData
type AuthData struct {
	Token string      `json:"token" example:"eyJhbGciOi..."`
	User  *model.User `json:"user"`
}
