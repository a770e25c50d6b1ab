// File: internal/handler/sessions/sessions.go
package sessions

import (
	"net/http"
	"strconv"

	"wellness-hub/internal/api"
	"wellness-hub/internal/database"
	"wellness-hub/internal/middleware"
	"wellness-hub/internal/model"
	"wellness-hub/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	listPublic     = service.ListPublic
	listOwned      = service.ListOwned
	viewSession    = service.ViewSession
	createSession  = service.CreateSession
	updateSession  = service.UpdateSession
	deleteSession  = service.DeleteSession
	publishSession = service.PublishSession
	toggleLike     = service.ToggleLike
	setFeatured    = service.SetFeatured
)

func sessionID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, &service.Error{Kind: service.KindNotFound, Message: "Session not found"}
	}
	return id, nil
}

func bindSession(c echo.Context) (service.SessionInput, error) {
	var req api.SessionRequest
	if err := c.Bind(&req); err != nil {
		return service.SessionInput{}, &service.Error{Kind: service.KindValidation, Message: "Invalid request body"}
	}
	if err := c.Validate(&req); err != nil {
		return service.SessionInput{}, err
	}
	return req.Input(), nil
}

// ListSessionsHandler 公開的已發佈 session 列表
// @Summary     列出公開 session
// @Description 依 search/category/difficulty/featured 篩選 (AND)，新到舊排序
// @Tags        sessions
// @Produce     json
// @Param       page       query    int    false "頁碼 (預設 1)"
// @Param       limit      query    int    false "每頁筆數 (預設 10，上限 100)"
// @Param       search     query    string false "比對標題、描述與標籤"
// @Param       category   query    string false "類別"
// @Param       difficulty query    string false "難度"
// @Param       featured   query    bool   false "只列精選"
// @Success     200        {object} api.Response{data=[]model.Session}
// @Failure     400        {object} api.ErrorResponse
// @Router      /sessions [get]
func ListSessionsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var q api.SessionListQuery
		if err := c.Bind(&q); err != nil {
			return &service.Error{Kind: service.KindValidation, Message: "Invalid query parameters"}
		}

		items, p, err := listPublic(c.Request().Context(), db, model.SessionFilter{
			Search:     q.Search,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			Featured:   q.Featured,
			Page:       q.Page,
			Limit:      q.Limit,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.List(items, &p))
	}
}

// ListMySessionsHandler 列出自己的 session
// @Summary     我的 session
// @Tags        sessions
// @Produce     json
// @Param       status query    string false "draft 或 published"
// @Success     200    {object} api.Response{data=[]model.Session}
// @Failure     400    {object} api.ErrorResponse
// @Failure     401    {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /sessions/my-sessions [get]
func ListMySessionsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := listOwned(c.Request().Context(), db, *middleware.Identity(c), c.QueryParam("status"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.List(items, nil))
	}
}

// GetSessionHandler 取得單筆 session；draft 只有 owner 看得到
// @Summary     取得 session
// @Tags        sessions
// @Produce     json
// @Param       id  path     int true "Session ID"
// @Success     200 {object} api.Response{data=model.Session}
// @Failure     404 {object} api.ErrorResponse
// @Router      /sessions/{id} [get]
func GetSessionHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		s, err := viewSession(c.Request().Context(), db, middleware.Identity(c), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.OK(s))
	}
}
