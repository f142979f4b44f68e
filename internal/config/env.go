package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddr            = ":8080"
	defaultTimeZone        = "Europe/Madrid"
	defaultTokenTTLMinutes = 90
)

type Env struct {
	AppAddr string `yaml:"addr" validate:"required"`
	GinMode string `yaml:"gin_mode" validate:"omitempty,oneof=debug release test"`

	DB DBConfig `yaml:"db"`

	// SecretKey signs bearer tokens. SecretKeyFile takes precedence when set.
	SecretKey       string `yaml:"secret_key"`
	SecretKeyFile   string `yaml:"secret_key_file"`
	TokenTTLMinutes int    `yaml:"access_token_expire_minutes" validate:"gte=1,lte=1440"`

	TimeZone    string   `yaml:"time_zone" validate:"required"`
	CORSOrigins []string `yaml:"cors_allowed_origins"`
	LogLevel    string   `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

type DBConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// TokenTTL returns the lifetime of interactive session tokens.
func (e Env) TokenTTL() time.Duration {
	return time.Duration(e.TokenTTLMinutes) * time.Minute
}

// Location resolves the reference time zone used for travel dates and the
// cancellation cutoff.
func (e Env) Location() (*time.Location, error) {
	return time.LoadLocation(e.TimeZone)
}

// Secret returns the token signing key, reading SecretKeyFile when configured.
func (e Env) Secret() ([]byte, error) {
	if e.SecretKeyFile != "" {
		b, err := os.ReadFile(e.SecretKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read secret key file: %w", err)
		}
		key := strings.TrimSpace(string(b))
		if key == "" {
			return nil, fmt.Errorf("secret key file %s is empty", e.SecretKeyFile)
		}
		return []byte(key), nil
	}
	if e.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY or SECRET_KEY_FILE must be set")
	}
	return []byte(e.SecretKey), nil
}

// BuildDSN returns the MySQL data source name. Times are stored and read as UTC.
func (c DBConfig) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		c.User,
		c.Password,
		c.Host,
		c.Name,
	)
}

func defaultEnv() Env {
	return Env{
		AppAddr:         defaultAddr,
		TokenTTLMinutes: defaultTokenTTLMinutes,
		TimeZone:        defaultTimeZone,
		LogLevel:        "info",
		DB: DBConfig{
			Host: "127.0.0.1:3306",
			User: "root",
			Name: "bus_system",
		},
	}
}

// LoadEnv reads the optional YAML file at path, then applies environment
// overrides and validates the result.
func LoadEnv(path string) (Env, error) {
	env := defaultEnv()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return env, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &env); err != nil {
			return env, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&env, os.Getenv)

	if err := validator.New().Struct(env); err != nil {
		return env, fmt.Errorf("invalid config: %w", err)
	}
	return env, nil
}

func applyEnvOverrides(env *Env, getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	str("APP_ADDR", &env.AppAddr)
	str("GIN_MODE", &env.GinMode)
	str("DB_DSN", &env.DB.DSN)
	str("DB_HOST", &env.DB.Host)
	str("DB_USER", &env.DB.User)
	str("DB_PASSWORD", &env.DB.Password)
	str("DB_NAME", &env.DB.Name)
	str("SECRET_KEY", &env.SecretKey)
	str("SECRET_KEY_FILE", &env.SecretKeyFile)
	str("TIME_ZONE", &env.TimeZone)
	str("LOG_LEVEL", &env.LogLevel)

	if v := strings.TrimSpace(getenv("ACCESS_TOKEN_EXPIRE_MINUTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			env.TokenTTLMinutes = n
		}
	}

	if v := strings.TrimSpace(getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		origins := []string{}
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		env.CORSOrigins = origins
	}
}
