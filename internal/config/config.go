// Package config 載入服務設定：內嵌的 YAML 預設值，再以環境變數覆寫
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.yaml
var defaults []byte

type Config struct {
	DatabaseURL     string        `koanf:"database_url"`
	RedisAddr       string        `koanf:"redis_addr"`
	RedisPassword   string        `koanf:"redis_password"`
	RedisDB         int           `koanf:"redis_db"`
	JWTSecret       string        `koanf:"jwt_secret"`
	HTTPAddr        string        `koanf:"http_addr"`
	WorkerCount     int           `koanf:"worker_count"`
	MediaRoot       string        `koanf:"media_root"`
	MediaURL        string        `koanf:"media_url"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`
	RateLimitRPS    float64       `koanf:"rate_limit_rps"`
	RateLimitBurst  int           `koanf:"rate_limit_burst"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
}

// Load 依序載入預設值與環境變數（DATABASE_URL -> database_url）
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate 檢查必要欄位與數值範圍，錯誤訊息帶出欄位名稱
func (c *Config) Validate() error {
	var errs []error
	for _, f := range []struct{ key, val string }{
		{"database_url", c.DatabaseURL},
		{"redis_addr", c.RedisAddr},
		{"jwt_secret", c.JWTSecret},
		{"http_addr", c.HTTPAddr},
		{"media_root", c.MediaRoot},
	} {
		if f.val == "" {
			errs = append(errs, fmt.Errorf("%s is required", f.key))
		}
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, errors.New("worker_count must be positive"))
	}
	if !strings.HasPrefix(c.MediaURL, "/") {
		errs = append(errs, errors.New("media_url must start with /"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("access_token_ttl must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("refresh_token_ttl must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate_limit_rps and rate_limit_burst must be positive"))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_format must be json or console, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
