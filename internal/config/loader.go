package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "dmscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "DMSCAN"
)

// Loader merges defaults, a config file, environment variables and bound
// flags, in increasing order of precedence.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with its own viper instance.
func NewLoader() *Loader {
	l := &Loader{v: viper.New()}
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	// decode.try_harder is read from DMSCAN_DECODE_TRY_HARDER
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	l.setDefaults()
	return l
}

// BindFlag makes flag override key when it was set on the command line.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("config: no flag for %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads configFile, or searches the standard locations when it is
// empty, and returns the validated configuration. A missing file in the
// standard locations is not an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		for _, p := range SearchPaths() {
			l.v.AddConfigPath(p)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the config file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// SearchPaths returns the directories searched for dmscan.yaml.
func SearchPaths() []string {
	paths := []string{"."}
	if dir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		paths = append(paths, filepath.Join(dir, "dmscan"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "dmscan"))
	}
	return paths
}

func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("decode.try_harder", d.Decode.TryHarder)
	l.v.SetDefault("decode.try_rotate", d.Decode.TryRotate)
	l.v.SetDefault("decode.pure", d.Decode.Pure)
	l.v.SetDefault("decode.character_set", d.Decode.CharacterSet)
	l.v.SetDefault("decode.binarizers", d.Decode.Binarizers)

	l.v.SetDefault("image.max_dimension", d.Image.MaxDimension)
	l.v.SetDefault("output.format", d.Output.Format)

	l.v.SetDefault("log.level", d.Log.Level)
	l.v.SetDefault("log.pretty", d.Log.Pretty)

	l.v.SetDefault("metrics.textfile", d.Metrics.Textfile)
	l.v.SetDefault("scan.workers", d.Scan.Workers)
}
