package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "rentiva"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv     = "RENTIVA_APP_ENV"
	EnvPort       = "RENTIVA_APP_PORT"
	EnvDBDSN      = "RENTIVA_DB_DSN"
	EnvDBHost     = "RENTIVA_DB_HOST"
	EnvDBUser     = "RENTIVA_DB_USER"
	EnvDBName     = "RENTIVA_DB_NAME"
	EnvRedisURL   = "RENTIVA_REDIS_URL"
	EnvJWTSecret  = "RENTIVA_JWT_SECRET"
	EnvJWTIssuer  = "RENTIVA_JWT_ISSUER"
	EnvJWTExpMins = "RENTIVA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Uploads      UploadsConfig
	QR           QRConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"RENTIVA_APP_ENV" required:"true"`
	Port         string `envconfig:"RENTIVA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENTIVA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTIVA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RENTIVA_DB_DSN"`
	Driver string `envconfig:"RENTIVA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RENTIVA_DB_HOST"`
	LegacyPort     int    `envconfig:"RENTIVA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENTIVA_DB_USER"`
	LegacyPassword string `envconfig:"RENTIVA_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENTIVA_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENTIVA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENTIVA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTIVA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTIVA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTIVA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTIVA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RENTIVA_REDIS_ADDR"`
	Password     string        `envconfig:"RENTIVA_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTIVA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTIVA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTIVA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTIVA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTIVA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTIVA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RENTIVA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RENTIVA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RENTIVA_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionCheck      bool   `envconfig:"RENTIVA_JWT_SESSION_CHECK" default:"true"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type UploadsConfig struct {
	BaseDir     string `envconfig:"RENTIVA_UPLOADS_DIR" default:"uploads"`
	MaxImages   int    `envconfig:"RENTIVA_UPLOADS_MAX_IMAGES" default:"10"`
	MaxVideos   int    `envconfig:"RENTIVA_UPLOADS_MAX_VIDEOS" default:"5"`
	MaxUploadMB int    `envconfig:"RENTIVA_UPLOADS_MAX_MB" default:"200"`
}

type QRConfig struct {
	// PublicBaseURL is embedded in generated QR payloads so scans resolve
	// back to a product page, e.g. https://rentiva.app/products/42.
	PublicBaseURL string `envconfig:"RENTIVA_QR_PUBLIC_BASE_URL" default:"https://rentiva.app"`
	ImageSize     int    `envconfig:"RENTIVA_QR_IMAGE_SIZE" default:"256"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RENTIVA_AUTO_MIGRATE" default:"false"`
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
