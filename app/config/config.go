// Package config loads inkpot settings from an optional YAML file and
// INKPOT_* environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to the yaml key (upper-cased) to form the override variable.
const EnvPrefix = "INKPOT_"

// Config holds everything the server and CLI need.
type Config struct {
	Addr               string        `yaml:"addr" validate:"required"`
	DBPath             string        `yaml:"db_path" validate:"required"`
	BackupDir          string        `yaml:"backup_dir" validate:"required"`
	LoginURL           string        `yaml:"login_url" validate:"required,startswith=/"`
	SessionLifetime    time.Duration `yaml:"session_lifetime" validate:"gt=0"`
	CookieSecure       bool          `yaml:"cookie_secure"`
	LogLevel           string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat          string        `yaml:"log_format" validate:"oneof=text json"`
	LoginRatePerMinute float64       `yaml:"login_rate_per_minute" validate:"gt=0"`
	LoginBurst         int           `yaml:"login_burst" validate:"gte=1"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	// CSRFKey is 32 bytes in hex; a random key is used for the process when empty.
	CSRFKey            string        `yaml:"csrf_key" validate:"omitempty,hexadecimal,len=64"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:               ":8080",
		DBPath:             filepath.Join("data", "badger"),
		BackupDir:          filepath.Join("data", "backups"),
		LoginURL:           "/login",
		SessionLifetime:    24 * time.Hour,
		CookieSecure:       false,
		LogLevel:           "info",
		LogFormat:          "text",
		LoginRatePerMinute: 10,
		LoginBurst:         5,
		ShutdownTimeout:    10 * time.Second,
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads path (skipped when empty), applies environment overrides and validates.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment.
func LoadWithEnv(path string, lookup LookupFunc) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read the config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
}

// Validate reports the first invalid setting by its yaml key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("invalid config: %w", err)
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("DB_PATH", &c.DBPath)
	str("BACKUP_DIR", &c.BackupDir)
	str("LOGIN_URL", &c.LoginURL)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("CSRF_KEY", &c.CSRFKey)

	var errs []error
	parse := func(key string, set func(string) error) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if err := set(v); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			}
		}
	}
	parse("SESSION_LIFETIME", func(v string) (err error) {
		c.SessionLifetime, err = time.ParseDuration(v)
		return
	})
	parse("SHUTDOWN_TIMEOUT", func(v string) (err error) {
		c.ShutdownTimeout, err = time.ParseDuration(v)
		return
	})
	parse("COOKIE_SECURE", func(v string) (err error) {
		c.CookieSecure, err = strconv.ParseBool(v)
		return
	})
	parse("LOGIN_RATE_PER_MINUTE", func(v string) (err error) {
		c.LoginRatePerMinute, err = strconv.ParseFloat(v, 64)
		return
	})
	parse("LOGIN_BURST", func(v string) (err error) {
		c.LoginBurst, err = strconv.Atoi(v)
		return
	})
	return errors.Join(errs...)
}

// WriteDefault writes the default settings, plus a fresh csrf_key, to path unless a file is already there.
// It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create the config directory: %w", err)
	}
	cfg := Default()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return false, err
	}
	cfg.CSRFKey = hex.EncodeToString(key)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
