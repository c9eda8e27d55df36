package app

import (
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the admin console.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogFile   string `envconfig:"LOG_FILE"`

	APIURL     string        `envconfig:"API_URL" default:"http://localhost:3000"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"0s"`
	UploadsURL string        `envconfig:"UPLOADS_URL"`

	// AdminPassword is optional. When both admin secrets are empty every
	// login attempt succeeds.
	AdminPassword       string `envconfig:"ADMIN_PASSWORD"`
	AdminPasswordBcrypt string `envconfig:"ADMIN_PASSWORD_BCRYPT"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"logiparts_session"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"16777216"`

	LoginAttemptsPerMinute int `envconfig:"LOGIN_ATTEMPTS_PER_MINUTE" default:"10"`
	WorkerConcurrency      int `envconfig:"WORKER_CONCURRENCY" default:"2"`
}

// LoadConfig reads configuration from environment variables. A .env file in
// the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			slog.Default().Warn("load .env", slog.Any("error", err))
		}
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return nil, errors.New("api url must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// UploadsBase returns the public base URL images are resolved against.
func (c *Config) UploadsBase() string {
	if c == nil {
		return ""
	}
	if c.UploadsURL != "" {
		return strings.TrimRight(c.UploadsURL, "/")
	}
	return c.APIURL + "/uploads"
}

// AdminSecretConfigured reports whether login compares against a secret.
func (c *Config) AdminSecretConfigured() bool {
	return c != nil && (c.AdminPassword != "" || c.AdminPasswordBcrypt != "")
}

// uploadsOrigin is the scheme and host images are served from, for the
// content security policy.
func uploadsOrigin(c *Config) string {
	u, err := url.Parse(c.UploadsBase())
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
