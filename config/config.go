package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every runtime setting, populated from the environment
// (optionally seeded by a .env file).
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"courseshelf"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"local"`
	S3Bucket    string `env:"S3_BUCKET_NAME"`
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"./uploads"`

	FrontendDir    string   `env:"FRONTEND_DIR"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
	SweepGrace    time.Duration `env:"SWEEP_GRACE" envDefault:"1h"`
}

// Load reads .env when present, then parses the environment into a
// Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on the environment")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
