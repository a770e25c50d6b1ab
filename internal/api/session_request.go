// File: internal/api/session_request.go
package api

import "wellness-hub/internal/service"

// SessionRequest 用於建立與部分更新，nil 欄位不會覆寫既有值
// swagger:model api.SessionRequest
type SessionRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=100" example:"Morning Flow"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000" example:"A gentle wake-up sequence"`
	Tags        *string `json:"tags,omitempty" example:"yoga, morning"`
	JSONFileURL *string `json:"json_file_url,omitempty" example:"https://cdn.example.com/flow.json"`
	Duration    *string `json:"duration,omitempty" example:"30 min"`
	Difficulty  *string `json:"difficulty,omitempty" example:"beginner"`
	Category    *string `json:"category,omitempty" example:"yoga"`
}

func (r SessionRequest) Input() service.SessionInput {
	return service.SessionInput{
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
		JSONFileURL: r.JSONFileURL,
		Duration:    r.Duration,
		Difficulty:  r.Difficulty,
		Category:    r.Category,
	}
}

// swagger:model api.FeatureRequest
// Featured 必填；缺少時不可當成 false
type FeatureRequest struct {
	Featured *bool `json:"featured" validate:"required" example:"true"`
}

// SessionListQuery 是公開列表的查詢參數
type SessionListQuery struct {
	Page       int    `query:"page" example:"1"`
	Limit      int    `query:"limit" example:"10"`
	Search     string `query:"search" example:"yoga"`
	Category   string `query:"category" example:"meditation"`
	Difficulty string `query:"difficulty" example:"beginner"`
	Featured   bool   `query:"featured" example:"false"`
}
