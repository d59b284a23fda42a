package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "EVMARKET"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Service ServiceConfig
	Backend BackendConfig
	Redis   RedisConfig
	Session SessionConfig
	CORS    CORSConfig
	Cron    CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"EVMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"EVMARKET_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"EVMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EVMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"EVMARKET_SERVICE_KIND" default:"api"`
}

// BackendConfig points at the marketplace backend this gateway fronts.
type BackendConfig struct {
	BaseURL        string        `envconfig:"EVMARKET_BACKEND_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"EVMARKET_BACKEND_REQUEST_TIMEOUT" default:"15s"`
	UploadTimeout  time.Duration `envconfig:"EVMARKET_BACKEND_UPLOAD_TIMEOUT" default:"60s"`
}

func (b BackendConfig) validate() error {
	u, err := url.Parse(b.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("EVMARKET_BACKEND_BASE_URL %q is not an absolute URL", b.BaseURL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"EVMARKET_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"EVMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EVMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EVMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EVMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EVMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	TTLMinutes int `envconfig:"EVMARKET_SESSION_TTL_MINUTES" default:"1440"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"EVMARKET_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

type CronConfig struct {
	ReconcileInterval time.Duration `envconfig:"EVMARKET_CRON_RECONCILE_INTERVAL" default:"5m"`
	LockTTL           time.Duration `envconfig:"EVMARKET_CRON_LOCK_TTL" default:"4m"`
}
