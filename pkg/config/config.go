package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PODOMALL_APP_ENV" required:"true"`
	Port         string `envconfig:"PODOMALL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PODOMALL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PODOMALL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PODOMALL_DB_DSN"`
	Driver string `envconfig:"PODOMALL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PODOMALL_DB_HOST"`
	LegacyPort     int    `envconfig:"PODOMALL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PODOMALL_DB_USER"`
	LegacyPassword string `envconfig:"PODOMALL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PODOMALL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PODOMALL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PODOMALL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PODOMALL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PODOMALL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PODOMALL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PODOMALL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PODOMALL_REDIS_ADDR"`
	Password     string        `envconfig:"PODOMALL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PODOMALL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PODOMALL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PODOMALL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PODOMALL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PODOMALL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PODOMALL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PODOMALL_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PODOMALL_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PODOMALL_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PODOMALL_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// PricingConfig holds the checkout fee schedule. All amounts are KRW.
type PricingConfig struct {
	ShippingFeeKRW int64  `envconfig:"PODOMALL_PRICING_SHIPPING_FEE_KRW" default:"15000"`
	ServiceFeeKRW  int64  `envconfig:"PODOMALL_PRICING_SERVICE_FEE_KRW" default:"3000"`
	DutyRate       string `envconfig:"PODOMALL_PRICING_DUTY_RATE" default:"0.10"`
}

func (p PricingConfig) validate() error {
	if p.ShippingFeeKRW < 0 || p.ServiceFeeKRW < 0 {
		return fmt.Errorf("pricing fees must be non-negative")
	}
	if strings.TrimSpace(p.DutyRate) == "" {
		return fmt.Errorf("pricing duty rate is required")
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PODOMALL_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"PODOMALL_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	TrackingTopic        string `envconfig:"PODOMALL_PUBSUB_TRACKING_TOPIC" default:"pm-tracking-events"`
	TrackingSubscription string `envconfig:"PODOMALL_PUBSUB_TRACKING_SUBSCRIPTION"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
