// File: internal/router/router.go
package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"wellness-hub/internal/cache"
	"wellness-hub/internal/database"
	"wellness-hub/internal/handler"
	"wellness-hub/internal/handler/auth"
	"wellness-hub/internal/handler/sessions"
	"wellness-hub/internal/middleware"
	"wellness-hub/internal/worker"
)

// Setup 註冊所有路由與中介層；tokenTTL 為簽發 JWT 的有效期
func Setup(e *echo.Echo, db database.DB, cch cache.Cache, jobs worker.Pool, tokenTTL time.Duration) {
	requireAuth := middleware.RequireAuth(cch)
	optionalAuth := middleware.OptionalAuth(cch)

	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(db, cch))

	// 帳號
	apiAuth := api.Group("/auth")
	apiAuth.POST("/register", auth.RegisterHandler(db, jobs, tokenTTL))
	apiAuth.POST("/login", auth.LoginHandler(db, jobs, tokenTTL))
	apiAuth.GET("/me", auth.GetMeHandler(db), requireAuth)
	apiAuth.PUT("/updatedetails", auth.UpdateDetailsHandler(db), requireAuth)
	apiAuth.PUT("/updatepassword", auth.UpdatePasswordHandler(db), requireAuth)
	apiAuth.POST("/logout", auth.LogoutHandler(cch), requireAuth)

	// Sessions
	apiSessions := api.Group("/sessions")
	apiSessions.GET("", sessions.ListSessionsHandler(db), optionalAuth)
	apiSessions.GET("/my-sessions", sessions.ListMySessionsHandler(db), requireAuth)
	apiSessions.GET("/:id", sessions.GetSessionHandler(db), optionalAuth)
	apiSessions.POST("", sessions.CreateSessionHandler(db), requireAuth)
	apiSessions.PUT("/:id", sessions.UpdateSessionHandler(db), requireAuth)
	apiSessions.DELETE("/:id", sessions.DeleteSessionHandler(db), requireAuth)
	apiSessions.PUT("/:id/publish", sessions.PublishSessionHandler(db), requireAuth)
	apiSessions.PUT("/:id/like", sessions.LikeSessionHandler(db), requireAuth)

	// 管理員專屬
	apiSessions.PUT("/:id/feature", sessions.FeatureSessionHandler(db), requireAuth, middleware.RequireAdmin)
}
