// Package config loads entrada settings from defaults, an optional YAML
// file, and ENTRADA_* environment variables, in increasing precedence.
// Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/entrada/internal/seed"
)

// EnvPrefix prefixes every environment override, e.g. ENTRADA_SEED_COUNT.
const EnvPrefix = "ENTRADA"

// Config holds application configuration.
type Config struct {
	Seed    SeedConfig    `mapstructure:"seed"`
	Journal JournalConfig `mapstructure:"journal"`
	Log     LogConfig     `mapstructure:"log"`
}

// SeedConfig controls the startup list.
type SeedConfig struct {
	Count  int    `mapstructure:"count"`
	Prefix string `mapstructure:"prefix"`
	IDs    string `mapstructure:"ids"`
}

// JournalConfig controls the diagnostic change journal. An empty path
// disables it.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Valid values for LogConfig fields.
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"text", "json"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed.count", seed.DefaultCount)
	v.SetDefault("seed.prefix", seed.DefaultPrefix)
	v.SetDefault("seed.ids", seed.GeneratorUUID)
	v.SetDefault("journal.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Seed:    SeedConfig{Count: seed.DefaultCount, Prefix: seed.DefaultPrefix, IDs: seed.GeneratorUUID},
		Journal: JournalConfig{},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration. If path is empty, ENTRADA_CONFIG is consulted,
// then ./entrada.yaml and $HOME/.config/entrada/entrada.yaml are searched;
// a missing file in the search is not an error. An explicitly named file
// must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("entrada")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "entrada"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Seed.Count < 0 {
		errs = append(errs, fmt.Errorf("seed.count must not be negative, got %d", c.Seed.Count))
	}
	if c.Seed.IDs != seed.GeneratorUUID && c.Seed.IDs != seed.GeneratorSequential {
		errs = append(errs, fmt.Errorf("seed.ids must be %s or %s, got %q", seed.GeneratorUUID, seed.GeneratorSequential, c.Seed.IDs))
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of %s, got %q", strings.Join(LogLevels, ", "), c.Log.Level))
	}
	if !slices.Contains(LogFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of %s, got %q", strings.Join(LogFormats, ", "), c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
