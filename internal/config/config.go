package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 是 API 服務的啟動設定，來源為選用的 YAML 檔與環境變數 (環境變數優先)
type Config struct {
	DatabaseURL   string        `mapstructure:"database_url"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisPassword string        `mapstructure:"redis_password"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpire     time.Duration `mapstructure:"jwt_expire"`
	WorkerCount   int           `mapstructure:"worker_count"`
	HTTPAddr      string        `mapstructure:"http_addr"`

	// MigrateReset 為 true 時啟動前先回滾全部 migration (僅開發環境使用)
	MigrateReset bool `mapstructure:"migrate_reset"`
}

// ClientConfig 是 sessionctl 使用的設定
type ClientConfig struct {
	APIURL        string        `mapstructure:"api_url"`
	APIToken      string        `mapstructure:"api_token"`
	AutosaveDelay time.Duration `mapstructure:"autosave_delay"`
}

var serverKeys = []string{
	"database_url", "redis_addr", "redis_db", "redis_password",
	"jwt_secret", "jwt_expire", "worker_count", "http_addr", "migrate_reset",
}

var clientKeys = []string{"api_url", "api_token", "autosave_delay"}

func newViper(path string, keys []string) (*viper.Viper, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// 環境變數使用大寫名稱，例如 DATABASE_URL
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, err
		}
	}
	v.AutomaticEnv()
	return v, nil
}

// Load 讀取服務設定並檢查必填欄位；path 為空時只讀環境變數
func Load(path string) (*Config, error) {
	v, err := newViper(path, serverKeys)
	if err != nil {
		return nil, err
	}
	v.SetDefault("jwt_expire", "720h")
	v.SetDefault("worker_count", 1)
	v.SetDefault("http_addr", ":8080")

	for _, k := range []string{"database_url", "redis_addr", "redis_db", "jwt_secret"} {
		if strings.TrimSpace(v.GetString(k)) == "" {
			return nil, fmt.Errorf("環境變數 %s 未設定", strings.ToUpper(k))
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.RedisDB < 0 {
		return nil, fmt.Errorf("無效的 REDIS_DB: %d", c.RedisDB)
	}
	if c.WorkerCount <= 0 {
		return nil, fmt.Errorf("無效的 WORKER_COUNT: %d", c.WorkerCount)
	}
	if c.JWTExpire <= 0 {
		return nil, fmt.Errorf("無效的 JWT_EXPIRE: %s", c.JWTExpire)
	}
	return &c, nil
}

// LoadClient 讀取 CLI 設定
func LoadClient(path string) (*ClientConfig, error) {
	v, err := newViper(path, clientKeys)
	if err != nil {
		return nil, err
	}
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("autosave_delay", "2s")

	var c ClientConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.AutosaveDelay <= 0 {
		return nil, fmt.Errorf("無效的 AUTOSAVE_DELAY: %s", c.AutosaveDelay)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return &c, nil
}
