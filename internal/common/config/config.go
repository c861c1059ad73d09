package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Session    SessionConfig    `mapstructure:"session"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Compositor CompositorConfig `mapstructure:"compositor"`
	Image      ImageConfig      `mapstructure:"image"`
	Redis      RedisConfig      `mapstructure:"redis"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Environment  string        `mapstructure:"env"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BodyLimit    int           `mapstructure:"body_limit"`
}

type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	ReferenceCm   float64       `mapstructure:"reference_cm"`
}

type CatalogConfig struct {
	DBPath     string `mapstructure:"db_path"`
	Migrations string `mapstructure:"migrations"`
	Seed       string `mapstructure:"seed"`
}

type CompositorConfig struct {
	URL         string        `mapstructure:"url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	AspectRatio string        `mapstructure:"aspect_ratio"`
	ImageSize   string        `mapstructure:"image_size"`
	APIKey      string        `mapstructure:"api_key"`
}

type ImageConfig struct {
	MaxSize int64 `mapstructure:"max_size"`
	MaxEdge int   `mapstructure:"max_edge"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load reads config.yaml (or CONFIG_FILE) when present and overlays
// environment variables. On error it still returns Default() so the caller
// can bring up logging before reporting the failure.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFile is Load with an explicit path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsHook reads a bare integer ("10", or 10 in YAML) as whole seconds.
// The deployment scripts set READ_TIMEOUT=10 and friends that way; unit
// strings like "90s" fall through to the stock duration hook.
func secondsHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType || from == durationType {
			return data, nil
		}
		switch from.Kind() {
		case reflect.String:
			raw := strings.TrimSpace(data.(string))
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return data, nil
			}
			return time.Duration(n) * time.Second, nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		}
		return data, nil
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			Environment:  "development",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			BodyLimit:    25 * 1024 * 1024,
		},
		Session: SessionConfig{
			TTL:           2 * time.Hour,
			SweepInterval: 5 * time.Minute,
			ReferenceCm:   29.7,
		},
		Catalog: CatalogConfig{
			DBPath:     "data/db/catalog.db",
			Migrations: "migrations/001_init_catalog.sql",
			Seed:       "catalog.yaml",
		},
		Compositor: CompositorConfig{
			URL:         "https://generativelanguage.googleapis.com/v1beta",
			Model:       "gemini-3-pro-image-preview",
			Timeout:     80 * time.Second,
			AspectRatio: "16:9",
			ImageSize:   "2K",
		},
		Image: ImageConfig{
			MaxSize: 10 * 1024 * 1024,
			MaxEdge: 2048,
		},
		Redis: RedisConfig{
			Addr: "",
			DB:   0,
			TTL:  24 * time.Hour,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.env", d.Server.Environment)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)

	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.sweep_interval", d.Session.SweepInterval)
	v.SetDefault("session.reference_cm", d.Session.ReferenceCm)

	v.SetDefault("catalog.db_path", d.Catalog.DBPath)
	v.SetDefault("catalog.migrations", d.Catalog.Migrations)
	v.SetDefault("catalog.seed", d.Catalog.Seed)

	v.SetDefault("compositor.url", d.Compositor.URL)
	v.SetDefault("compositor.model", d.Compositor.Model)
	v.SetDefault("compositor.timeout", d.Compositor.Timeout)
	v.SetDefault("compositor.aspect_ratio", d.Compositor.AspectRatio)
	v.SetDefault("compositor.image_size", d.Compositor.ImageSize)
	v.SetDefault("compositor.api_key", d.Compositor.APIKey)

	v.SetDefault("image.max_size", d.Image.MaxSize)
	v.SetDefault("image.max_edge", d.Image.MaxEdge)

	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.ttl", d.Redis.TTL)
}

// bindLegacyEnv keeps the short variable names used by the deployment
// scripts (PORT, ENV, READ_TIMEOUT, ...).
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT", "SERVER_PORT")
	_ = v.BindEnv("server.env", "ENV", "SERVER_ENV")
	_ = v.BindEnv("server.read_timeout", "READ_TIMEOUT", "SERVER_READ_TIMEOUT")
	_ = v.BindEnv("server.write_timeout", "WRITE_TIMEOUT", "SERVER_WRITE_TIMEOUT")
	_ = v.BindEnv("session.ttl", "SESSION_TTL")
	_ = v.BindEnv("redis.ttl", "RENDER_CACHE_TTL", "REDIS_TTL")
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
