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
	FeatureFlags FeatureFlagsConfig
	Sessions     SessionsConfig
	Idempotency  IdempotencyConfig
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
	Env          string `envconfig:"LENSCARD_APP_ENV" required:"true"`
	Port         string `envconfig:"LENSCARD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LENSCARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LENSCARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LENSCARD_DB_DSN"`
	Driver string `envconfig:"LENSCARD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LENSCARD_DB_HOST"`
	LegacyPort     int    `envconfig:"LENSCARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LENSCARD_DB_USER"`
	LegacyPassword string `envconfig:"LENSCARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"LENSCARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"LENSCARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LENSCARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LENSCARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LENSCARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LENSCARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LENSCARD_REDIS_URL"`
	Address      string        `envconfig:"LENSCARD_REDIS_ADDR"`
	Password     string        `envconfig:"LENSCARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"LENSCARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LENSCARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LENSCARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LENSCARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LENSCARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LENSCARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The API can
// run without Redis; save idempotency is then best-effort only.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LENSCARD_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LENSCARD_AUTO_MIGRATE" default:"false"`
}

type SessionsConfig struct {
	// IdleTTL bounds how long an untouched order session is kept in memory.
	IdleTTL time.Duration `envconfig:"LENSCARD_SESSION_IDLE_TTL" default:"4h"`
}

type IdempotencyConfig struct {
	SaveTTL time.Duration `envconfig:"LENSCARD_IDEMPOTENCY_SAVE_TTL" default:"24h"`
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
