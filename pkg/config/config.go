package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RELOVED"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "RELOVED_DB_DSN"
	EnvDBHost = "RELOVED_DB_HOST"
	EnvDBUser = "RELOVED_DB_USER"
	EnvDBName = "RELOVED_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Orders        OrdersConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
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
	Env          string `envconfig:"RELOVED_APP_ENV" required:"true"`
	Port         string `envconfig:"RELOVED_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RELOVED_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RELOVED_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RELOVED_DB_DSN"`
	Driver string `envconfig:"RELOVED_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RELOVED_DB_HOST"`
	LegacyPort     int    `envconfig:"RELOVED_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RELOVED_DB_USER"`
	LegacyPassword string `envconfig:"RELOVED_DB_PASSWORD"`
	LegacyName     string `envconfig:"RELOVED_DB_NAME"`
	LegacySSLMode  string `envconfig:"RELOVED_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RELOVED_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RELOVED_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RELOVED_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RELOVED_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RELOVED_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RELOVED_REDIS_ADDR"`
	Password     string        `envconfig:"RELOVED_REDIS_PASSWORD"`
	DB           int           `envconfig:"RELOVED_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RELOVED_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RELOVED_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RELOVED_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RELOVED_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RELOVED_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"RELOVED_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"RELOVED_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"RELOVED_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"RELOVED_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RELOVED_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RELOVED_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RELOVED_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RELOVED_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RELOVED_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RELOVED_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RELOVED_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RELOVED_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RELOVED_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RELOVED_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RELOVED_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RELOVED_AUTO_MIGRATE" default:"false"`
}

// OrdersConfig tunes order-number and item-code allocation.
type OrdersConfig struct {
	NumberPrefix   string `envconfig:"RELOVED_ORDER_NUMBER_PREFIX" default:"RLV"`
	AllocAttempts  int    `envconfig:"RELOVED_ORDER_ALLOC_ATTEMPTS" default:"3"`
	CodePadding    int    `envconfig:"RELOVED_ITEM_CODE_PADDING" default:"3"`
	CodeAllocRetry int    `envconfig:"RELOVED_ITEM_CODE_ALLOC_RETRY" default:"3"`
}

type GCPConfig struct {
	CredentialsJSON        string `envconfig:"RELOVED_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string        `envconfig:"RELOVED_GCS_BUCKET_NAME"`
	UploadTimeout time.Duration `envconfig:"RELOVED_GCS_UPLOAD_TIMEOUT" default:"30s"`
}

type MediaConfig struct {
	MaxUploadMB  int           `envconfig:"RELOVED_MAX_UPLOAD_MB" default:"5"`
	MaxImages    int           `envconfig:"RELOVED_MAX_ITEM_IMAGES" default:"5"`
	ProofLinkTTL time.Duration `envconfig:"RELOVED_PROOF_LINK_TTL" default:"15m"`
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
