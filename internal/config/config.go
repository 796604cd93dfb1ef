// Package config manages configuration.
//
// It reads variables from an optional YAML file, the environment and the
// `.env` file, loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused across the application runtime.
//
// Responsibilities:
//   - Load an optional config file, then environment variables on top.
//   - Map keys into a structured Go config (structs).
//   - Provide defaults for every key the service can run without.
//   - Validate values so the app fails fast on bad config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

/*
	Key layout:
	- Env vars are read using the prefix HELLO_
	- Keys are lowercased and "__" marks nesting
	  e.g. HELLO_LOOKUP__TIMEOUT -> lookup.timeout -> Config.Lookup.Timeout
	- A YAML file uses the same keys; env wins over the file.
*/

const (
	// EnvPrefix is the prefix of every environment variable the service reads.
	EnvPrefix = "HELLO_"

	// ConfigFileEnv names the variable holding an explicit config file path.
	ConfigFileEnv = EnvPrefix + "CONFIG_FILE"

	// DefaultConfigFile is read when present and ConfigFileEnv is unset.
	DefaultConfigFile = "config.yaml"

	// DefaultLookupURL is the fixed resource the lookup stage reads.
	DefaultLookupURL = "https://jsonplaceholder.typicode.com/todos/1"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Lookup        LookupConfig         `koanf:"lookup" validate:"required"`
	Rules         RulesConfig          `koanf:"rules" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required,min=1"`
}

// LookupConfig controls the downstream lookup stage.
//
// When Enabled is false the pipeline greets from the query alone.
type LookupConfig struct {
	Enabled bool          `koanf:"enabled"`
	URL     string        `koanf:"url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1ms"`
}

// RulesConfig holds business-rule parameters.
type RulesConfig struct {
	MaxAge int `koanf:"max_age" validate:"min=0"`
}

// defaults are applied for every key neither the file nor the env set.
var defaults = map[string]any{
	"primary.env":          "development",
	"server.port":          "3000",
	"server.read_timeout":  30,
	"server.write_timeout": 30,
	"server.idle_timeout":  60,
	"lookup.enabled":       false,
	"lookup.url":           DefaultLookupURL,
	"lookup.timeout":       "5s",
	"rules.max_age":        41,
}

// LoadConfig loads configuration from the optional config file and the
// environment, applies defaults, validates it, and returns the result.
//
// Behavior summary:
//   - Reads HELLO_CONFIG_FILE, or config.yaml when present
//   - Loads HELLO_* env vars on top
//   - Sets defaults for missing keys
//   - Unmarshals into Config and validates it
//   - Sets default observability if missing, then validates it
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := loadFile(k); err != nil {
		return nil, err
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return nil, fmt.Errorf("could not set default %s: %w", key, err)
			}
		}
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	mainConfig.Observability.applyDefaults()

	// Service name is fixed; environment always follows primary.env.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// loadFile reads the YAML config file. A missing default file is fine; a
// missing explicitly configured one is not.
func loadFile(k *koanf.Koanf) error {
	path, explicit := os.LookupEnv(ConfigFileEnv)
	if !explicit || path == "" {
		path = DefaultConfigFile
		explicit = false
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not load config file %s: %w", path, err)
	}
	return nil
}
