package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RENTGEAR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "RENTGEAR_DB_DSN"
	EnvDBHost = "RENTGEAR_DB_HOST"
	EnvDBUser = "RENTGEAR_DB_USER"
	EnvDBName = "RENTGEAR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Booking       BookingConfig
	Cron          CronConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RENTGEAR_APP_ENV" required:"true"`
	Port         string `envconfig:"RENTGEAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENTGEAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTGEAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"RENTGEAR_DB_DSN"`

	LegacyHost     string `envconfig:"RENTGEAR_DB_HOST"`
	LegacyPort     int    `envconfig:"RENTGEAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENTGEAR_DB_USER"`
	LegacyPassword string `envconfig:"RENTGEAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENTGEAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENTGEAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENTGEAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTGEAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTGEAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTGEAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTGEAR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RENTGEAR_REDIS_ADDR"`
	Password     string        `envconfig:"RENTGEAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTGEAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTGEAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTGEAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTGEAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTGEAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTGEAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RENTGEAR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RENTGEAR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RENTGEAR_JWT_EXPIRATION_MINUTES" default:"60"`
}

// BookingConfig bounds reservation queries so a single request cannot ask the
// grid endpoint to walk an unbounded calendar range.
type BookingConfig struct {
	MaxRangeDays    int `envconfig:"RENTGEAR_BOOKING_MAX_RANGE_DAYS" default:"180"`
	MaxCalendarDays int `envconfig:"RENTGEAR_BOOKING_MAX_CALENDAR_DAYS" default:"92"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RENTGEAR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RENTGEAR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RENTGEAR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RENTGEAR_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RENTGEAR_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RENTGEAR_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"RENTGEAR_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"RENTGEAR_CRON_LOCK_TTL" default:"50m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RENTGEAR_AUTO_MIGRATE" default:"false"`
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
