// File: internal/handler/sessions/manage.go
package sessions

import (
	"net/http"

	"wellness-hub/internal/api"
	"wellness-hub/internal/database"
	"wellness-hub/internal/middleware"
	"wellness-hub/internal/service"

	"github.com/labstack/echo/v4"
)

// CreateSessionHandler 建立 draft session
// @Summary     建立 session
// @Description tags 以逗號分隔，會轉小寫並去除重複
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Param       body body     api.SessionRequest true "Session 欄位"
// @Success     201  {object} api.Response{data=model.Session}
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /sessions [post]
func CreateSessionHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		in, err := bindSession(c)
		if err != nil {
			return err
		}
		s, err := createSession(c.Request().Context(), db, *middleware.Identity(c), in)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, api.OKMessage("Session created successfully", s))
	}
}

// UpdateSessionHandler 部分更新 session，未提供的欄位不變
// @Summary     更新 session
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Param       id   path     int                true "Session ID"
// @Param       body body     api.SessionRequest true "要更新的欄位"
// @Success     200  {object} api.Response{data=model.Session}
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /sessions/{id} [put]
func UpdateSessionHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		in, err := bindSession(c)
		if err != nil {
			return err
		}
		s, err := updateSession(c.Request().Context(), db, *middleware.Identity(c), id, in)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OKMessage("Session updated successfully", s))
	}
}

// DeleteSessionHandler 刪除 session (owner 或 admin)
// @Summary     刪除 session
// @Tags        sessions
// @Produce     json
// @Param       id  path     int true "Session ID"
// @Success     200 {object} api.Response
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /sessions/{id} [delete]
func DeleteSessionHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		if err := deleteSession(c.Request().Context(), db, *middleware.Identity(c), id); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OKMessage("Session deleted successfully", api.Empty{}))
	}
}

// PublishSessionHandler 發佈 session；重複發佈不會出錯
// @Summary     發佈 session
// @Tags        sessions
// @Produce     json
// @Param       id  path     int true "Session ID"
// @Success     200 {object} api.Response{data=model.Session}
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /sessions/{id}/publish [put]
func PublishSessionHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		s, err := publishSession(c.Request().Context(), db, *middleware.Identity(c), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OKMessage("Session published successfully", s))
	}
}

// LikeSessionHandler 切換按讚狀態，只能對已發佈的 session
// @Summary     按讚 / 取消按讚
// @Tags        sessions
// @Produce     json
// @Param       id  path     int true "Session ID"
// @Success     200 {object} api.Response{data=model.Session}
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /sessions/{id}/like [put]
func LikeSessionHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		s, liked, err := toggleLike(c.Request().Context(), db, *middleware.Identity(c), id)
		if err != nil {
			return err
		}
		msg := "Session unliked"
		if liked {
			msg = "Session liked"
		}
		return c.JSON(http.StatusOK, api.OKMessage(msg, s))
	}
}

// FeatureSessionHandler 設定精選 (admin)
// @Summary     設定精選
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Param       id   path     int                true "Session ID"
// @Param       body body     api.FeatureRequest true "是否精選"
// @Success     200  {object} api.Response{data=model.Session}
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /sessions/{id}/feature [put]
func FeatureSessionHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		var req api.FeatureRequest
		if err := c.Bind(&req); err != nil {
			return &service.Error{Kind: service.KindValidation, Message: "Invalid request body"}
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
		s, err := setFeatured(c.Request().Context(), db, id, *req.Featured)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OK(s))
	}
}
