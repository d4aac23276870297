// Package config holds the dmscan command configuration.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/charset"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the complete dmscan configuration.
type Config struct {
	Decode  DecodeConfig  `mapstructure:"decode" yaml:"decode" json:"decode"`
	Image   ImageConfig   `mapstructure:"image" yaml:"image" json:"image"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
	Scan    ScanConfig    `mapstructure:"scan" yaml:"scan" json:"scan"`
}

// DecodeConfig holds the reader options.
type DecodeConfig struct {
	TryHarder    bool   `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
	TryRotate    bool   `mapstructure:"try_rotate" yaml:"try_rotate" json:"try_rotate"`
	Pure         bool   `mapstructure:"pure" yaml:"pure" json:"pure"`
	CharacterSet string `mapstructure:"character_set" yaml:"character_set" json:"character_set"`

	// Binarizers are tried in order until one gives a result.
	Binarizers []string `mapstructure:"binarizers" yaml:"binarizers" json:"binarizers"`
}

// ImageConfig controls image loading.
type ImageConfig struct {
	// MaxDimension downscales larger images before binarization; 0 keeps
	// the original size.
	MaxDimension int `mapstructure:"max_dimension" yaml:"max_dimension" json:"max_dimension"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty" json:"pretty"`
}

type MetricsConfig struct {
	// Textfile receives the metrics in the Prometheus text format after a
	// scan. Empty disables it.
	Textfile string `mapstructure:"textfile" yaml:"textfile" json:"textfile"`
}

type ScanConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Decode: DecodeConfig{
			Binarizers: []string{"hybrid", "histogram"},
		},
		Image:  ImageConfig{MaxDimension: 2048},
		Output: OutputConfig{Format: FormatText},
		Log:    LogConfig{Level: "info"},
		Scan:   ScanConfig{Workers: runtime.NumCPU()},
	}
}

// DecodeOptions converts the decode section into reader options.
func (c *Config) DecodeOptions() *dmscan.DecodeOptions {
	return &dmscan.DecodeOptions{
		PureBarcode:  c.Decode.Pure,
		TryHarder:    c.Decode.TryHarder,
		TryRotate:    c.Decode.TryRotate,
		CharacterSet: c.Decode.CharacterSet,
	}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Decode.Binarizers) == 0 {
		errs = append(errs, errors.New("decode.binarizers: at least one binarizer is required"))
	}
	for _, b := range c.Decode.Binarizers {
		if b != "hybrid" && b != "histogram" {
			errs = append(errs, fmt.Errorf("decode.binarizers: unknown binarizer %q", b))
		}
	}
	if cs := c.Decode.CharacterSet; cs != "" && charset.ByName(cs) == nil {
		errs = append(errs, fmt.Errorf("decode.character_set: unknown character set %q", cs))
	}
	if c.Image.MaxDimension < 0 {
		errs = append(errs, fmt.Errorf("image.max_dimension: must not be negative, got %d", c.Image.MaxDimension))
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		errs = append(errs, fmt.Errorf("output.format: must be one of text, json, yaml, got %q", c.Output.Format))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Scan.Workers < 1 {
		errs = append(errs, fmt.Errorf("scan.workers: must be at least 1, got %d", c.Scan.Workers))
	}
	return errors.Join(errs...)
}
