package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"hybrid", "histogram"}, cfg.Decode.Binarizers)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.GreaterOrEqual(t, cfg.Scan.Workers, 1)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decode.Binarizers = []string{"otsu"}
	cfg.Decode.CharacterSet = "EBCDIC-42"
	cfg.Image.MaxDimension = -1
	cfg.Output.Format = "xml"
	cfg.Log.Level = "loud"
	cfg.Scan.Workers = 0

	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{
		"decode.binarizers", "decode.character_set", "image.max_dimension",
		"output.format", "log.level", "scan.workers",
	} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestDecodeOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decode.TryHarder = true
	cfg.Decode.Pure = true
	cfg.Decode.CharacterSet = "ISO-8859-1"
	opts := cfg.DecodeOptions()
	assert.True(t, opts.TryHarder)
	assert.False(t, opts.TryRotate)
	assert.True(t, opts.PureBarcode)
	assert.Equal(t, "ISO-8859-1", opts.CharacterSet)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
decode:
  try_rotate: true
  binarizers: [histogram]
output:
  format: json
scan:
  workers: 3
`), 0o600))

	l := NewLoader()
	cfg, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.ConfigFileUsed())
	assert.True(t, cfg.Decode.TryRotate)
	assert.Equal(t, []string{"histogram"}, cfg.Decode.Binarizers)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dmscan.yaml"), []byte("log:\n  level: debug\n"), 0o600))

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o600))

	_, err := NewLoader().Load(path)
	assert.ErrorContains(t, err, "output.format")
}

func TestEnvironmentOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DMSCAN_DECODE_TRY_HARDER", "true")
	t.Setenv("DMSCAN_SCAN_WORKERS", "7")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Decode.TryHarder)
	assert.Equal(t, 7, cfg.Scan.Workers)
}

func TestFlagOverridesEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DMSCAN_OUTPUT_FORMAT", "json")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("format", "text", "")
	require.NoError(t, fs.Parse([]string{"--format", "yaml"}))

	l := NewLoader()
	require.NoError(t, l.BindFlag("output.format", fs.Lookup("format")))
	assert.Error(t, l.BindFlag("output.format", fs.Lookup("missing")))

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
}
