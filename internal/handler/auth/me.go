// File: internal/handler/auth/me.go
package auth

import (
	"net/http"

	"wellness-hub/internal/api"
	"wellness-hub/internal/cache"
	"wellness-hub/internal/database"
	"wellness-hub/internal/middleware"
	"wellness-hub/internal/service"

	"github.com/labstack/echo/v4"
)

// GetMeHandler 取得目前登入者資料
// @Summary     取得個人資料
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.Response{data=model.User}
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c.Request().Context(), db, *middleware.Identity(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OK(user))
	}
}

// UpdateDetailsHandler 部分更新 name / email
// @Summary     更新個人資料
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateDetailsRequest true "要更新的欄位"
// @Success     200  {object} api.Response{data=model.User}
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/updatedetails [put]
func UpdateDetailsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateDetailsRequest
		if err := c.Bind(&req); err != nil {
			return errInvalidBody()
		}
		if err := c.Validate(&req); err != nil {
			return err
		}

		user, err := updateDetails(c.Request().Context(), db, *middleware.Identity(c), service.UpdateDetailsInput{
			Name:  req.Name,
			Email: req.Email,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OKMessage("User details updated successfully", user))
	}
}

// UpdatePasswordHandler 驗證目前密碼後更換新密碼
// @Summary     更新密碼
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdatePasswordRequest true "目前與新密碼"
// @Success     200  {object} api.Response
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/updatepassword [put]
func UpdatePasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdatePasswordRequest
		if err := c.Bind(&req); err != nil {
			return errInvalidBody()
		}
		if err := c.Validate(&req); err != nil {
			return err
		}

		if err := updatePassword(c.Request().Context(), db, *middleware.Identity(c), req.CurrentPassword, req.NewPassword); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OKMessage("Password updated successfully", api.Empty{}))
	}
}

// LogoutHandler 將目前的 token 加入黑名單直到過期
// @Summary     登出
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.Response
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/logout [post]
func LogoutHandler(cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := revokeToken(c.Request().Context(), cch, middleware.Claims(c)); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OKMessage("Logged out successfully", api.Empty{}))
	}
}
