package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	Database DatabaseConfig
	Auth     AuthConfig
	// RateLimit is the number of requests one client IP may make per second.
	RateLimit int
	// CORSOrigin is the one browser origin allowed to call /api. Empty means none.
	CORSOrigin string
}

type DatabaseConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
}

type AuthConfig struct {
	ClientID      string
	ClientSecret  string
	TenantID      string
	RedirectURL   string
	SessionSecret string
	SessionTTL    time.Duration
}

// Enabled reports whether identity-provider credentials are present.
func (a AuthConfig) Enabled() bool {
	return a.ClientID != "" && a.TenantID != ""
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: error loading .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_PER_SECOND", 50)
	v.SetDefault("CORS_ALLOWED_ORIGIN", "")

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "reservations")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "30s")

	v.SetDefault("AZURE_AD_CLIENT_ID", "")
	v.SetDefault("AZURE_AD_CLIENT_SECRET", "")
	v.SetDefault("AZURE_AD_TENANT_ID", "")
	v.SetDefault("AZURE_AD_REDIRECT_URI", "http://localhost:8080/auth/callback")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", "8h")

	cfg := &Config{
		Port:       v.GetString("PORT"),
		GinMode:    v.GetString("GIN_MODE"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		RateLimit:  v.GetInt("RATE_LIMIT_PER_SECOND"),
		CORSOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:             v.GetString("DB_DSN"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		Auth: AuthConfig{
			ClientID:      v.GetString("AZURE_AD_CLIENT_ID"),
			ClientSecret:  v.GetString("AZURE_AD_CLIENT_SECRET"),
			TenantID:      v.GetString("AZURE_AD_TENANT_ID"),
			RedirectURL:   v.GetString("AZURE_AD_REDIRECT_URI"),
			SessionSecret: v.GetString("SESSION_SECRET"),
			SessionTTL:    v.GetDuration("SESSION_TTL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Auth.Enabled() && c.Auth.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required when AZURE_AD_CLIENT_ID is set")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive, got %d", c.RateLimit)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Auth.SessionTTL)
	}
	return nil
}

// MySQLDSN builds the DSN from the discrete settings unless DB_DSN is set.
// clientFoundRows makes an update report matched rows, not changed rows.
func (d DatabaseConfig) MySQLDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// SQLiteDSN defaults to a file named after DB_NAME.
func (d DatabaseConfig) SQLiteDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return d.Name + ".db"
}
