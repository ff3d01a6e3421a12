package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr            string        `yaml:"addr"`
	JWTSecret       string        `yaml:"jwt_secret"`
	APITimeout      time.Duration `yaml:"timeout"`
	DatabasePath    string        `yaml:"database_path"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	CORSOrigin      string        `yaml:"cors_origin"`
}

const insecureDefaultSecret = "supersecretkey"

// LoadConfig builds the config from environment defaults, then overlays the
// optional YAML file at path.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:            getEnv("JOBLINK_ADDR", ":8080"),
		JWTSecret:       getEnv("JOBLINK_JWT_SECRET", insecureDefaultSecret),
		APITimeout:      15 * time.Second,
		DatabasePath:    getEnv("JOBLINK_DATABASE_PATH", "joblink.db"),
		AccessTokenTTL:  1 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		CORSOrigin:      getEnv("JOBLINK_CORS_ORIGIN", "*"),
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that must not reach production. The
// insecure default JWT secret is tolerated only when JOBLINK_ENV is
// "development" (or unset).
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	env := getEnv("JOBLINK_ENV", "development")
	if env != "development" && c.JWTSecret == insecureDefaultSecret {
		return fmt.Errorf("jwt_secret must be overridden outside development")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
