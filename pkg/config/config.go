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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"TABLESERVE_APP_ENV" required:"true"`
	Port         string `envconfig:"TABLESERVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TABLESERVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TABLESERVE_LOG_WARN_STACK" default:"false"`
	// CORSOrigins lists the dashboard origins allowed to call the API.
	CORSOrigins []string `envconfig:"TABLESERVE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Kind string `envconfig:"TABLESERVE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"TABLESERVE_DB_DSN"`
	Driver string `envconfig:"TABLESERVE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TABLESERVE_DB_HOST"`
	LegacyPort     int    `envconfig:"TABLESERVE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TABLESERVE_DB_USER"`
	LegacyPassword string `envconfig:"TABLESERVE_DB_PASSWORD"`
	LegacyName     string `envconfig:"TABLESERVE_DB_NAME"`
	LegacySSLMode  string `envconfig:"TABLESERVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TABLESERVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TABLESERVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TABLESERVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TABLESERVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TABLESERVE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TABLESERVE_REDIS_ADDR"`
	Password     string        `envconfig:"TABLESERVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"TABLESERVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TABLESERVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TABLESERVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TABLESERVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TABLESERVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TABLESERVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig holds the verification settings for staff tokens minted by the auth service.
type JWTConfig struct {
	Secret string `envconfig:"TABLESERVE_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"TABLESERVE_JWT_ISSUER" required:"true"`
	// ExpirationMinutes only applies to tokens minted locally for dev and tests.
	ExpirationMinutes int `envconfig:"TABLESERVE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// CartConfig bounds how long ordering state survives in redis.
type CartConfig struct {
	TTL               time.Duration `envconfig:"TABLESERVE_CART_TTL" default:"12h"`
	SubmitLockTTL     time.Duration `envconfig:"TABLESERVE_CART_SUBMIT_LOCK_TTL" default:"30s"`
	IdempotencyKeyTTL time.Duration `envconfig:"TABLESERVE_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TABLESERVE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TABLESERVE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TABLESERVE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TABLESERVE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"TABLESERVE_PUBSUB_ORDERS_TOPIC" default:"ts-order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"TABLESERVE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"TABLESERVE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"TABLESERVE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// PollInterval returns the configured outbox poll interval.
func (o OutboxConfig) PollInterval() time.Duration {
	if o.PollIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(o.PollIntervalMS) * time.Millisecond
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
