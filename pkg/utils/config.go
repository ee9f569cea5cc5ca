package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"unihub/pkg/cache"
	"unihub/pkg/database"
	"unihub/pkg/logger"
)

// EnvPrefix prefixes every environment override, e.g. UNIHUB_DATABASE_PATH.
const EnvPrefix = "UNIHUB"

// DefaultJWTSecret is the development signing key. Servers refuse it in
// release mode.
const DefaultJWTSecret = "dev-secret-change-me"

const releaseMode = "release"

type AppConfig struct {
	App       AppSettings     `mapstructure:"app"`
	Log       logger.Config   `mapstructure:"log"`
	Database  database.Config `mapstructure:"database"`
	Redis     cache.Config    `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	GRPC      GrpcConfig      `mapstructure:"grpc"`
	Tail      TailConfig      `mapstructure:"tail"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	// Mode is the gin mode: debug, release or test.
	Mode     string `mapstructure:"mode"`
	HTTPAddr string `mapstructure:"http_addr"`
}

type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer"`
	JWTDuration time.Duration `mapstructure:"jwt_ttl"`
}

type GrpcConfig struct {
	Addr string `mapstructure:"addr"`
}

type TailConfig struct {
	// Addr is the TCP log-tail listener; empty disables it.
	Addr string `mapstructure:"addr"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

func setDefaults(v *viper.Viper) {
	db := database.DefaultConfig()

	v.SetDefault("app.name", "unihub")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.http_addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.filename", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", false)

	v.SetDefault("database.driver", db.Driver)
	v.SetDefault("database.path", db.Path)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", db.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", db.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", db.ConnMaxLifetime)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.jwt_issuer", "unihub")
	v.SetDefault("auth.jwt_ttl", 24*time.Hour)

	v.SetDefault("grpc.addr", ":9090")
	v.SetDefault("tail.addr", ":9091")

	v.SetDefault("rate_limit.rps", 20.0)
	v.SetDefault("rate_limit.burst", 40)
}

// Load reads defaults, then the optional YAML file, then UNIHUB_* env vars.
// An empty path falls back to $UNIHUB_CONFIG.
func Load(path string) (*AppConfig, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := new(AppConfig)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, v, nil
}

// Validate rejects settings a server must not start with. Anyone who
// knows the default secret can mint admin tokens, so release mode needs
// its own.
func (c *AppConfig) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret must not be empty")
	}
	if c.App.Mode == releaseMode && c.Auth.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("auth.jwt_secret is the development default; set %s_AUTH_JWT_SECRET or use app.mode=debug", EnvPrefix)
	}
	return nil
}

// Watch re-reads the config file on change and hands the new values to onChange.
// It is a no-op when no file was loaded.
func Watch(v *viper.Viper, onChange func(*AppConfig)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		cfg := new(AppConfig)
		if err := v.Unmarshal(cfg); err != nil {
			zap.L().Error("reload config", zap.Error(err))
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
