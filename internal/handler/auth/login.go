// File: internal/handler/auth/login.go
package auth

import (
	"net/http"
	"time"

	"wellness-hub/internal/api"
	"wellness-hub/internal/database"
	"wellness-hub/internal/service"
	"wellness-hub/internal/worker"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 建立帳號並回傳 JWT
// @Summary     註冊使用者
// @Description 以 email/password 建立帳號，name 未提供時取 email 前綴；email 會自動轉小寫
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.Response{data=api.AuthData}
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, jobs worker.Pool, ttl time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return errInvalidBody()
		}
		if err := c.Validate(&req); err != nil {
			return err
		}

		res, err := register(c.Request().Context(), db, service.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		}, ttl)
		if err != nil {
			return err
		}
		submitLastLogin(c, db, jobs, res.User)

		return c.JSON(http.StatusCreated, api.OKMessage("User registered successfully", api.AuthData{Token: res.Token, User: res.User}))
	}
}

// LoginHandler 使用 email/password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 帳號不存在、停用或密碼錯誤皆回傳相同的 401 訊息
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.Response{data=api.AuthData}
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, jobs worker.Pool, ttl time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return errInvalidBody()
		}
		if err := c.Validate(&req); err != nil {
			return err
		}

		res, err := login(c.Request().Context(), db, req.Email, req.Password, ttl)
		if err != nil {
			return err
		}
		submitLastLogin(c, db, jobs, res.User)

		return c.JSON(http.StatusOK, api.OKMessage("Login successful", api.AuthData{Token: res.Token, User: res.User}))
	}
}
