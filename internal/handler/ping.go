// File: internal/handler/ping.go
package handler

import (
	"net/http"
	"time"

	"wellness-hub/internal/api"
	"wellness-hub/internal/cache"
	"wellness-hub/internal/database"

	"github.com/labstack/echo/v4"
)

const pingKey = "health:ping"

// PingData 健康檢查回應內容
// swagger:model PingData
type PingData struct {
	// 回應訊息
	Message string `json:"message" example:"pong"`
}

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} api.Response{data=PingData}
// @Failure     500 {object} api.ErrorResponse
// @Router      /ping [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			c.Logger().Errorf("ping database: %v", err)
			return c.JSON(http.StatusInternalServerError, api.Fail("database unhealthy"))
		}
		if err := cch.Set(ctx, pingKey, "pong", time.Minute).Err(); err != nil {
			c.Logger().Errorf("ping cache: %v", err)
			return c.JSON(http.StatusInternalServerError, api.Fail("cache unhealthy"))
		}
		return c.JSON(http.StatusOK, api.OK(PingData{Message: "pong"}))
	}
}
