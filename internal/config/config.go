package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBSSLMode  string `koanf:"db_sslmode"`
	DBLogLevel string `koanf:"db_log_level"`

	JWTSecret        string `koanf:"jwt_secret"`
	JWTExpireHours   int    `koanf:"jwt_expire_hours"`
	AuthAutoRegister bool   `koanf:"auth_auto_register"`

	ServerPort  string `koanf:"server_port"`
	CORSOrigins string `koanf:"cors_origins"`

	// Round timings in seconds, baked into each round when it is created.
	RoundDuration    int           `koanf:"round_duration"`
	CooldownDuration int           `koanf:"cooldown_duration"`
	TapTxTimeout     time.Duration `koanf:"tap_tx_timeout"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

func defaults() *Config {
	return &Config{
		DBHost:           "localhost",
		DBPort:           "5432",
		DBUser:           "postgres",
		DBPassword:       "postgres",
		DBName:           "tapgoose",
		DBSSLMode:        "disable",
		DBLogLevel:       "warn",
		JWTSecret:        "super-secret-key-change-me",
		JWTExpireHours:   24,
		AuthAutoRegister: true,
		ServerPort:       "8080",
		CORSOrigins:      "*",
		RoundDuration:    60,
		CooldownDuration: 30,
		TapTxTimeout:     5 * time.Second,
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, a .env file and finally the process environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}

	// Empty variables are skipped so they fall back to the defaults below.
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if cfg.RoundDuration <= 0 {
		cfg.RoundDuration = 60
	}
	if cfg.CooldownDuration < 0 {
		cfg.CooldownDuration = 30
	}
	if cfg.TapTxTimeout <= 0 {
		cfg.TapTxTimeout = 5 * time.Second
	}
	if cfg.JWTExpireHours <= 0 {
		cfg.JWTExpireHours = 24
	}
	return cfg, nil
}

func (c *Config) RoundLength() time.Duration {
	return time.Duration(c.RoundDuration) * time.Second
}

func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownDuration) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpireHours) * time.Hour
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
