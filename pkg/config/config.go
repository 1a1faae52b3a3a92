package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const delim = "."

// Config is a layered key/value configuration. Later layers win:
// defaults, YAML file, .env file, process environment.
type Config struct {
	k         *koanf.Koanf
	namespace string
}

// New returns an empty configuration.
func New() *Config {
	return &Config{k: koanf.New(delim)}
}

// NewFromMap returns a configuration holding only the given values.
// Keys use dotted paths ("webhook.base_url").
func NewFromMap(values map[string]any) *Config {
	cfg := New()
	_ = cfg.k.Load(confmap.Provider(values, delim), nil)
	return cfg
}

// Load builds the configuration for a service namespace.
//
// Recognised args: -config <path> (YAML file) and -env-file <path>
// (defaults to ".env"). Environment variables are read with the
// "<NAMESPACE>_" prefix; a double underscore separates path segments,
// so POS_WEBHOOK__BASE_URL maps to webhook.base_url.
func Load(namespace string, args []string, defaults map[string]any) (*Config, error) {
	flags := flag.NewFlagSet(namespace, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	configPath := flags.String("config", "", "path to a YAML config file")
	envFile := flags.String("env-file", ".env", "path to a dotenv file")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	prefix := strings.ToUpper(namespace) + "_"
	cfg := &Config{k: koanf.New(delim), namespace: namespace}

	if len(defaults) > 0 {
		if err := cfg.k.Load(confmap.Provider(defaults, delim), nil); err != nil {
			return nil, fmt.Errorf("load defaults: %w", err)
		}
	}

	path := *configPath
	if path == "" {
		path = os.Getenv(prefix + "CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(prefix, delim, func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		return strings.ReplaceAll(key, "__", delim)
	})
	if err := cfg.k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	return cfg, nil
}

// Namespace returns the namespace the configuration was loaded for.
func (c *Config) Namespace() string {
	return c.namespace
}

// Set overrides a single key.
func (c *Config) Set(key string, value any) {
	_ = c.k.Set(key, value)
}

func (c *Config) GetString(key string) (string, bool) {
	if c == nil || !c.k.Exists(key) {
		return "", false
	}
	return c.k.String(key), true
}

func (c *Config) GetInt(key string) (int, bool) {
	raw, ok := c.GetString(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c *Config) GetBool(key string) (bool, bool) {
	raw, ok := c.GetString(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v, true
}

// GetDuration reads Go duration strings ("10s", "5m").
func (c *Config) GetDuration(key string) (time.Duration, bool) {
	raw, ok := c.GetString(key)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return d, true
}

// StringOr returns the value for key or fallback when it is unset or blank.
func (c *Config) StringOr(key, fallback string) string {
	if v, ok := c.GetString(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// DurationOr returns the value for key or fallback when it is unset,
// unparseable, or not positive.
func (c *Config) DurationOr(key string, fallback time.Duration) time.Duration {
	if v, ok := c.GetDuration(key); ok && v > 0 {
		return v
	}
	return fallback
}
