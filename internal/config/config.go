package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer     string   `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string   `mapstructure:"AUTH_AUDIENCE"`
	JWTSigningKey  string   `mapstructure:"JWT_SIGNING_KEY"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	MigrationsDir  string   `mapstructure:"MIGRATIONS_DIR"`
	RequestTimeout int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	MaxBodySize    string   `mapstructure:"MAX_BODY_SIZE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("MAX_BODY_SIZE", "1M")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("MIGRATIONS_DIR")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")
	v.BindEnv("MAX_BODY_SIZE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active — all requests get admin access.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure JWT_SIGNING_KEY.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// mode JWT_SIGNING_KEY must be set so that real authentication is enforced.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSigningKey == "" {
		return fmt.Errorf(
			"JWT_SIGNING_KEY must be set when ENV=%q. "+
				"Refusing to start without authentication configuration", c.Env)
	}
	if c.JWTSigningKey != "" && len(c.JWTSigningKey) < 32 {
		return fmt.Errorf("JWT_SIGNING_KEY must be at least 32 characters, got %d", len(c.JWTSigningKey))
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeout)
	}
	return nil
}
