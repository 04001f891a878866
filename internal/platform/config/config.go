// Package config arma la configuración del servicio: defaults, luego un YAML
// opcional (CONFIG_FILE), luego variables de entorno (.env incluido).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// DBDSN vacío => repos in-memory.
	DBDSN       string `yaml:"db_dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`

	// NATSURL vacío => bus de cambios in-memory.
	NATSURL           string `yaml:"nats_url"`
	NATSSubjectPrefix string `yaml:"nats_subject_prefix"`

	// PublicBaseURL se usa para armar las URLs de suscripción (https:// y webcal://).
	// Fijarlo en producción; vacío = se deriva de cada request.
	PublicBaseURL string `yaml:"public_base_url"`

	// TrustProxy: respetar X-Forwarded-* (solo detrás de un proxy propio).
	TrustProxy bool `yaml:"trust_proxy"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	AppName   string `yaml:"app_name"`

	// AuthVerifyURL vacío => modo dev (X-Debug-User-ID).
	AuthVerifyURL string `yaml:"auth_verify_url"`
	AuthAPIKey    string `yaml:"auth_api_key"`

	ExpiryCron       string `yaml:"expiry_cron"`
	ExpiryWindowDays int    `yaml:"expiry_window_days"`

	MetricsNamespace string `yaml:"metrics_namespace"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func Default() Config {
	return Config{
		Port:              "8080",
		NATSSubjectPrefix: "petcare.changes",
		LogLevel:          "info",
		LogFormat:         "text",
		AppName:           "pet-care-records",
		ExpiryCron:        "0 8 * * *",
		ExpiryWindowDays:  7,
		MetricsNamespace:  "petcare",
		ShutdownTimeout:   10 * time.Second,
	}
}

// Normalize completa valores vacíos o inválidos con los defaults.
func (c *Config) Normalize() {
	d := Default()
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if c.Port == "" {
		c.Port = d.Port
	}
	if c.NATSSubjectPrefix == "" {
		c.NATSSubjectPrefix = d.NATSSubjectPrefix
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.AppName == "" {
		c.AppName = d.AppName
	}
	if c.ExpiryCron == "" {
		c.ExpiryCron = d.ExpiryCron
	}
	if c.ExpiryWindowDays <= 0 {
		c.ExpiryWindowDays = d.ExpiryWindowDays
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = d.MetricsNamespace
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
}

// Addr es la dirección de escucha del server HTTP.
func (c Config) Addr() string { return ":" + c.Port }

// Load lee .env (opcional), CONFIG_FILE (opcional) y el entorno.
func Load() (Config, error) {
	// .env es opcional; en producción las vars vienen del entorno
	_ = godotenv.Load()

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.Normalize()
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &cfg.Port)
	str("DB_DSN", &cfg.DBDSN)
	str("NATS_URL", &cfg.NATSURL)
	str("NATS_SUBJECT_PREFIX", &cfg.NATSSubjectPrefix)
	str("PUBLIC_BASE_URL", &cfg.PublicBaseURL)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("APP_NAME", &cfg.AppName)
	str("AUTH_VERIFY_URL", &cfg.AuthVerifyURL)
	str("AUTH_API_KEY", &cfg.AuthAPIKey)
	str("EXPIRY_CRON", &cfg.ExpiryCron)
	str("METRICS_NAMESPACE", &cfg.MetricsNamespace)

	var errs []error
	if v, ok := lookup("EXPIRY_WINDOW_DAYS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("EXPIRY_WINDOW_DAYS: %w", err))
		} else {
			cfg.ExpiryWindowDays = n
		}
	}
	if v, ok := lookup("AUTO_MIGRATE"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("AUTO_MIGRATE: %w", err))
		} else {
			cfg.AutoMigrate = b
		}
	}
	if v, ok := lookup("TRUST_PROXY"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("TRUST_PROXY: %w", err))
		} else {
			cfg.TrustProxy = b
		}
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
		} else {
			cfg.ShutdownTimeout = d
		}
	}
	return errors.Join(errs...)
}
