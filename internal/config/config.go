package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SeakMengs/SecCert/internal/env"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"

	StorageDriverLocal = "local"
	StorageDriverMinio = "minio"
)

type Config struct {
	Port        string
	ENV         string
	DB          DatabaseConfig
	RateLimiter RateLimiterConfig
	Auth        AuthConfig
	Storage     StorageConfig
	Minio       MinioConfig
	Certificate CertificateConfig
	Cors        CorsConfig
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type AuthConfig struct {
	JWT_SECRET string
	// Key used to sign certificate payloads. Defaults to JWT_SECRET.
	SIGNING_SECRET string
	SessionTTL     time.Duration
	BcryptCost     int
}

type DatabaseConfig struct {
	Driver          string
	DB_HOST         string
	DB_PORT         string
	DB_DATABASE     string
	DB_USERNAME     string
	DB_PASSWORD     string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxIdleTime     string
	ConnectAttempts uint
	ConnectDelay    time.Duration
}

type StorageConfig struct {
	Driver   string
	LocalDir string
}

type MinioConfig struct {
	ENDPOINT   string
	ACCESS_KEY string
	SECRET_KEY string
	BUCKET     string
	USE_SSL    bool
}

type CertificateConfig struct {
	// fmt pattern receiving the verification token, e.g. https://host/verify/%s
	VerifyURLPattern  string
	EmbedQRCode       bool
	BatchMaxWorkers   int
	NumberMaxAttempts int
}

type CorsConfig struct {
	AllowOrigins []string
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

// Validate reports configuration that would make the server unusable.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Auth.JWT_SECRET) == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("AUTH_SESSION_TTL must be positive"))
	}

	switch c.DB.Driver {
	case DBDriverPostgres, DBDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver))
	}

	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverMinio:
		if c.Minio.ENDPOINT == "" || c.Minio.BUCKET == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required when STORAGE_DRIVER=minio"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	if strings.Count(c.Certificate.VerifyURLPattern, "%s") != 1 {
		errs = append(errs, errors.New("CERTIFICATE_VERIFY_URL_PATTERN must contain exactly one %s"))
	}
	if c.Certificate.NumberMaxAttempts < 1 {
		errs = append(errs, errors.New("CERTIFICATE_NUMBER_MAX_ATTEMPTS must be at least 1"))
	}

	return errors.Join(errs...)
}

func GetConfig() Config {
	jwtSecret := env.GetString("AUTH_JWT_SECRET", "")

	return Config{
		Port: env.GetString("PORT", "8080"),
		ENV:  env.GetString("ENV", "development"),
		DB: DatabaseConfig{
			Driver:          strings.ToLower(env.GetString("DB_DRIVER", DBDriverPostgres)),
			DB_HOST:         env.GetString("DB_HOST", "127.0.0.1"),
			DB_PORT:         env.GetString("DB_PORT", "5432"),
			DB_USERNAME:     env.GetString("DB_USERNAME", "root"),
			DB_PASSWORD:     env.GetString("DB_PASSWORD", ""),
			DB_DATABASE:     env.GetString("DB_DATABASE", "seccert"),
			MaxOpenConns:    env.GetInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns:    env.GetInt("DB_MAX_IDLE_CONNS", 30),
			MaxIdleTime:     env.GetString("DB_MAX_IDLE_TIME", "15m"),
			ConnectAttempts: uint(max(env.GetInt("DB_CONNECT_ATTEMPTS", 5), 1)),
			ConnectDelay:    env.GetDuration("DB_CONNECT_DELAY", 5*time.Second),
		},
		// By default if not specified, we allow 5000 requests per minute on all routes
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 5000),
			TimeFrame:            env.GetDuration("RATE_LIMIT_TIME_FRAME", time.Minute),
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
		Auth: AuthConfig{
			JWT_SECRET:     jwtSecret,
			SIGNING_SECRET: env.GetString("AUTH_SIGNING_SECRET", jwtSecret),
			SessionTTL:     env.GetDuration("AUTH_SESSION_TTL", 7*24*time.Hour),
			BcryptCost:     env.GetInt("AUTH_BCRYPT_COST", 10),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(env.GetString("STORAGE_DRIVER", StorageDriverLocal)),
			LocalDir: env.GetString("STORAGE_LOCAL_DIR", "uploads/certificates"),
		},
		Minio: MinioConfig{
			ENDPOINT:   env.GetString("MINIO_ENDPOINT", ""),
			ACCESS_KEY: env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY: env.GetString("MINIO_SECRET_KEY", ""),
			BUCKET:     env.GetString("MINIO_BUCKET", "seccert"),
			USE_SSL:    env.GetBool("MINIO_USE_SSL", false),
		},
		Certificate: CertificateConfig{
			VerifyURLPattern:  env.GetString("CERTIFICATE_VERIFY_URL_PATTERN", "http://localhost:8080/api/certificates/verify/%s"),
			EmbedQRCode:       env.GetBool("CERTIFICATE_EMBED_QR", true),
			BatchMaxWorkers:   env.GetInt("CERTIFICATE_BATCH_MAX_WORKERS", 0),
			NumberMaxAttempts: env.GetInt("CERTIFICATE_NUMBER_MAX_ATTEMPTS", 3),
		},
		Cors: CorsConfig{
			AllowOrigins: strings.Split(env.GetString("CORS_ALLOW_ORIGINS", "*"), ","),
		},
	}
}
