// File: cmd/service/main.go
// @title        Wellness Hub API
// @version      1.0
// @description  健康課程 (session) 發佈平台的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"wellness-hub/internal/cache"
	"wellness-hub/internal/config"
	"wellness-hub/internal/database"
	"wellness-hub/internal/handler"
	"wellness-hub/internal/router"
	"wellness-hub/internal/service"
	"wellness-hub/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "wellness-hub/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	setenv          = os.Setenv
	exitFunc        = os.Exit
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &CustomValidator{validator: service.NewValidator()}
	e.HTTPErrorHandler = handler.ErrorHandler
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	return e
}

func run() error {
	cfg, err := loadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}

	// token 簽發與驗證從環境變數讀取密鑰，設定檔提供的值也同步進去
	if err := setenv("JWT_SECRET", cfg.JWTSecret); err != nil {
		return fmt.Errorf("設定 JWT_SECRET 失敗: %v", err)
	}

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer rdb.Close()

	if cfg.MigrateReset {
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("RollbackAll 失敗: %v", err)
		}
	}
	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	e := newEcho()

	wp := newWorkerPool(cfg.WorkerCount, func(r any) {
		e.Logger.Errorf("worker panic: %v", r)
	})
	defer wp.Stop()

	router.Setup(e, db, rdb, wp, cfg.JWTExpire)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return startServer(e, cfg.HTTPAddr)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
