package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"techlogshelf/internal/postgres"
)

const (
	EnvDatabaseURL    = "DATABASE_URL"
	EnvMaxConns       = "DATABASE_MAX_CONNS"
	EnvConnectTimeout = "DATABASE_CONNECT_TIMEOUT"

	DefaultEnvFile = ".env"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")
	ErrInvalidSetting     = errors.New("invalid setting")
)

// Error marks a configuration failure. It is returned before any network
// activity takes place.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config: %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type PoolConfig struct {
	MaxConns       int32         `yaml:"max_conns"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type Config struct {
	DatabaseURL string     `yaml:"-"`
	Pool        PoolConfig `yaml:"pool"`
}

type LoadOptions struct {
	// EnvFile is merged into the process environment when it exists.
	EnvFile string
	// SettingsFile is an optional YAML file with pool settings. When set it
	// must exist.
	SettingsFile string
}

func Load(opts LoadOptions, logger logrus.FieldLogger) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Key: envFile, Err: err}
		}
		logger.WithField("file", envFile).Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Pool: PoolConfig{MaxConns: postgres.DefaultMaxConns},
	}

	if opts.SettingsFile != "" {
		if err := cfg.readSettings(opts.SettingsFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) readSettings(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &Error{Key: path, Err: err}
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return &Error{Key: path, Err: fmt.Errorf("%w: %v", ErrInvalidSetting, err)}
	}
	return nil
}

func (cfg *Config) applyEnv() error {
	cfg.DatabaseURL = os.Getenv(EnvDatabaseURL)
	if cfg.DatabaseURL == "" {
		return &Error{Key: EnvDatabaseURL, Err: ErrMissingDatabaseURL}
	}

	if s := os.Getenv(EnvMaxConns); s != "" {
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return &Error{Key: EnvMaxConns, Err: fmt.Errorf("%w: %q is not an integer", ErrInvalidSetting, s)}
		}
		cfg.Pool.MaxConns = int32(n)
	}

	if s := os.Getenv(EnvConnectTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return &Error{Key: EnvConnectTimeout, Err: fmt.Errorf("%w: %q is not a duration", ErrInvalidSetting, s)}
		}
		cfg.Pool.ConnectTimeout = d
	}

	return nil
}

func (cfg *Config) validate() error {
	if cfg.Pool.MaxConns < 1 {
		return &Error{Key: "max_conns", Err: fmt.Errorf("%w: must be positive, got %d", ErrInvalidSetting, cfg.Pool.MaxConns)}
	}
	if cfg.Pool.ConnectTimeout < 0 {
		return &Error{Key: "connect_timeout", Err: fmt.Errorf("%w: must not be negative, got %s", ErrInvalidSetting, cfg.Pool.ConnectTimeout)}
	}
	return nil
}
