// File: internal/api/response.go
package api

import "wellness-hub/internal/model"

// Response 是所有端點共用的回應外層
// swagger:model api.Response
type Response struct {
	Success    bool              `json:"success" example:"true"`
	Message    string            `json:"message,omitempty" example:"Session created successfully"`
	Data       any               `json:"data,omitempty"`
	Count      *int              `json:"count,omitempty" example:"10"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

// ErrorResponse 是失敗時的回應，success 固定為 false
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Session not found"`
}

func OK(data any) Response {
	return Response{Success: true, Data: data}
}

func OKMessage(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// List 包裝列表結果並帶上筆數
func List[T any](items []T, p *model.Pagination) Response {
	n := len(items)
	return Response{Success: true, Data: items, Count: &n, Pagination: p}
}

func Fail(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// Empty 是沒有內容時的 data ({})
type Empty struct{}
