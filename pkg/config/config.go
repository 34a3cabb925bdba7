package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TRYFIT_DB_DSN"
	EnvDBHost = "TRYFIT_DB_HOST"
	EnvDBUser = "TRYFIT_DB_USER"
	EnvDBName = "TRYFIT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	FeatureFlags  FeatureFlagsConfig
	Checkout      CheckoutConfig
	Search        SearchConfig
	Notifications NotificationsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Cron          CronConfig
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
	Env          string `envconfig:"TRYFIT_APP_ENV" required:"true"`
	Port         string `envconfig:"TRYFIT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRYFIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRYFIT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRYFIT_DB_DSN"`
	Driver string `envconfig:"TRYFIT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRYFIT_DB_HOST"`
	LegacyPort     int    `envconfig:"TRYFIT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRYFIT_DB_USER"`
	LegacyPassword string `envconfig:"TRYFIT_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRYFIT_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRYFIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRYFIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRYFIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRYFIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRYFIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRYFIT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TRYFIT_REDIS_ADDR"`
	Password     string        `envconfig:"TRYFIT_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRYFIT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRYFIT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRYFIT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRYFIT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRYFIT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRYFIT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"TRYFIT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"TRYFIT_JWT_ISSUER" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRYFIT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRYFIT_AUTO_MIGRATE" default:"false"`
}

type CheckoutConfig struct {
	// DeliveryFee is a flat per-order fee in currency units.
	DeliveryFee int `envconfig:"TRYFIT_CHECKOUT_DELIVERY_FEE" default:"58"`
}

type SearchConfig struct {
	CorpusCacheTTL time.Duration `envconfig:"TRYFIT_SEARCH_CORPUS_CACHE_TTL" default:"2m"`
}

type NotificationsConfig struct {
	RetentionDays  int           `envconfig:"TRYFIT_NOTIFICATION_RETENTION_DAYS" default:"30"`
	UnreadCacheTTL time.Duration `envconfig:"TRYFIT_NOTIFICATION_UNREAD_CACHE_TTL" default:"30s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TRYFIT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TRYFIT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TRYFIT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	StorefrontTopic        string `envconfig:"TRYFIT_PUBSUB_STOREFRONT_TOPIC" default:"tryfit-storefront-events"`
	StorefrontSubscription string `envconfig:"TRYFIT_PUBSUB_STOREFRONT_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"TRYFIT_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"TRYFIT_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"TRYFIT_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"TRYFIT_CRON_INTERVAL" default:"24h"`
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
