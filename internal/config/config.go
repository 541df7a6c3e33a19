package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/thermo-slots/internal/logger"
)

// Config holds the settings shared by thermo-server and thermoctl.
type Config struct {
	// HTTPAddress is the listen address of the web renderer.
	HTTPAddress string `yaml:"http_addr"`
	// GRPCAddress is the gRPC server address; the server binds its port,
	// thermoctl dials it.
	GRPCAddress string `yaml:"grpc_addr"`
	// Timeout bounds client RPC calls and server shutdown.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// SessionTTL is how long an untouched session is kept; 0 keeps sessions forever.
	SessionTTL time.Duration `yaml:"session_ttl"`
	// SessionSecret signs the browser session cookie. A random key is
	// generated at startup when it is empty.
	SessionSecret string `yaml:"session_secret"`
	// KeepSavingOnAdjust keeps saving mode active across +/- presses.
	KeepSavingOnAdjust bool `yaml:"keep_saving_on_adjust"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "thermo-slots.yaml"

	// DefaultHTTPAddress is where the web renderer listens by default.
	DefaultHTTPAddress = ":8080"

	// DefaultGRPCAddress is where the gRPC server listens by default.
	DefaultGRPCAddress = "127.0.0.1:50051"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultSessionTTL is the default idle lifetime of a session.
	DefaultSessionTTL = 30 * time.Minute

	// DefaultLogLevel is used when log_level is not set.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// minSecretLength is the shortest accepted cookie signing key.
	minSecretLength = 32
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeTTL is returned when session_ttl is below zero.
	errNegativeTTL = errors.New("session_ttl must not be negative")
	// errShortSecret is returned for cookie keys that are too short to be safe.
	errShortSecret = fmt.Errorf("session_secret must be at least %d bytes", minSecretLength)
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		HTTPAddress: DefaultHTTPAddress,
		GRPCAddress: DefaultGRPCAddress,
		Timeout:     DefaultTimeout,
		LogLevel:    DefaultLogLevel,
		SessionTTL:  DefaultSessionTTL,
	}
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is like Load but returns Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// The file may hold the cookie secret.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills in defaults for empty fields.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.HTTPAddress == "" {
		settings.HTTPAddress = DefaultHTTPAddress
	}

	if settings.GRPCAddress == "" {
		settings.GRPCAddress = DefaultGRPCAddress
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.HTTPAddress); err != nil {
		return fmt.Errorf("invalid http address: %w", err)
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.GRPCAddress); err != nil {
		return fmt.Errorf("invalid grpc address: %w", err)
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", settings.LogLevel)
	}

	if settings.SessionTTL < 0 {
		return errNegativeTTL
	}

	if settings.SessionSecret != "" && len(settings.SessionSecret) < minSecretLength {
		return errShortSecret
	}

	return nil
}
