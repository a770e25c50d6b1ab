// File: internal/api/auth_request.go
package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" validate:"omitempty,max=50" example:"Alice"`
	Email    string `json:"email" validate:"required" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"secret1"`
}

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"secret1"`
}

// UpdateDetailsRequest 未提供的欄位維持原值
// swagger:model api.UpdateDetailsRequest
type UpdateDetailsRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=50" example:"Alice B"`
	Email *string `json:"email,omitempty" example:"alice.b@example.com"`
}

// swagger:model api.UpdatePasswordRequest
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required" example:"secret1"`
	NewPassword     string `json:"newPassword" validate:"required" example:"secret2"`
}
