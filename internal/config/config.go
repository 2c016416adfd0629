package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
	} `koanf:"app"`

	Sheets struct {
		URL           string        `koanf:"url"`
		FetchTimeout  time.Duration `koanf:"fetch_timeout"`
		SubmitTimeout time.Duration `koanf:"submit_timeout"`
	} `koanf:"sheets"`

	Storage struct {
		Backend string `koanf:"backend"` // "file" or "redis"
		Dir     string `koanf:"dir"`
	} `koanf:"storage"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Journal struct {
		DSN             string        `koanf:"dsn"` // empty disables journaling
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
		Workers         int           `koanf:"workers"`
		QueueSize       int           `koanf:"queue_size"`
	} `koanf:"journal"`

	Carousel struct {
		AutoAdvance time.Duration `koanf:"auto_advance"`
	} `koanf:"carousel"`
}

// Load reads base.yaml from pathDir, an optional <envName>.yaml overlay,
// and finally PAWS_-prefixed environment variables (nested keys with
// __), e.g. PAWS_SHEETS__URL, PAWS_REDIS__PASSWORD.
func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	if envName != "" {
		_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())
	}

	if err := k.Load(env.Provider("PAWS_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "PAWS_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Sheets.URL == "" {
		return fmt.Errorf("sheets.url required")
	}
	switch c.Storage.Backend {
	case "file":
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir required for file backend")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr required for redis backend")
		}
	default:
		return fmt.Errorf("storage.backend must be file or redis, got %q", c.Storage.Backend)
	}
	return nil
}
