// File: internal/handler/auth/auth.go
package auth

import (
	"context"
	"time"

	"wellness-hub/internal/database"
	"wellness-hub/internal/model"
	"wellness-hub/internal/service"
	"wellness-hub/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	register         = service.Register
	login            = service.Login
	recordLogin      = service.RecordLogin
	currentUser      = service.CurrentUser
	updateDetails    = service.UpdateDetails
	updatePassword   = service.UpdatePassword
	revokeToken      = service.RevokeToken
	timeNow          = time.Now
	backgroundCtx    = context.Background
	lastLoginTimeout = 5 * time.Second
)

func errInvalidBody() error {
	return &service.Error{Kind: service.KindValidation, Message: "Invalid request body"}
}

// submitLastLogin 將最後登入時間交給 worker 寫入，請求不等待結果
func submitLastLogin(c echo.Context, db database.DB, jobs worker.Pool, user *model.User) {
	logger := c.Logger()
	id := user.ID
	at := timeNow()
	if user.LastLogin != nil {
		at = *user.LastLogin
	}
	jobs.Submit(func() {
		ctx, cancel := context.WithTimeout(backgroundCtx(), lastLoginTimeout)
		defer cancel()
		if err := recordLogin(ctx, db, id, at); err != nil {
			logger.Errorf("record last login for user %d: %v", id, err)
		}
	})
}
