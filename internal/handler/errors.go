// File: internal/handler/errors.go
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"wellness-hub/internal/api"
	"wellness-hub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// statusFor 將錯誤轉成 HTTP 狀態碼與回給客戶端的訊息。
// 越權 (非 owner) 沿用 401 而不是 403
func statusFor(err error) (int, string) {
	var se *service.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case service.KindValidation, service.KindConflict, service.KindInvalidState:
			return http.StatusBadRequest, se.Message
		case service.KindUnauthorized:
			return http.StatusUnauthorized, se.Message
		case service.KindNotFound:
			return http.StatusNotFound, se.Message
		}
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		return http.StatusBadRequest, service.ValidationMessage(ves)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	return http.StatusInternalServerError, "server error"
}

// ErrorHandler 是 echo 的唯一錯誤出口，所有 handler 直接 return error
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, api.Fail(message))
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
