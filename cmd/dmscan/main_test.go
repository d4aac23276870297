package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// sandbox isolates a test from config files and DMSCAN_ variables around
// it and returns a scratch directory.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, "DMSCAN_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	return dir
}

func run(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = execute(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func encodeTo(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	code, _, stderr := run("encode", text, "-o", path, "--size", "200")
	require.Equal(t, exitOK, code, stderr)
	return path
}

func blankImage(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "blank.png")
	require.NoError(t, imaging.Save(imaging.New(120, 120, color.White), path))
	return path
}

func TestEncodeThenScan(t *testing.T) {
	dir := sandbox(t)
	path := encodeTo(t, dir, "hello.png", "Hello, World!")

	code, stdout, stderr := run("scan", path)
	assert.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "Hello, World!\n", stdout)
}

func TestScanSeveralFilesKeepsOrder(t *testing.T) {
	dir := sandbox(t)
	var files []string
	for _, text := range []string{"one", "two", "three", "four", "five"} {
		files = append(files, encodeTo(t, dir, text+".png", text))
	}

	code, stdout, _ := run(append([]string{"scan", "-j", "3"}, files...)...)
	require.Equal(t, exitOK, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)
	for i, text := range []string{"one", "two", "three", "four", "five"} {
		assert.Equal(t, files[i]+": "+text, lines[i])
	}
}

func TestScanJSON(t *testing.T) {
	dir := sandbox(t)
	good := encodeTo(t, dir, "good.png", "12345678")
	blank := blankImage(t, dir)

	code, stdout, _ := run("scan", "--format", "json", good, blank)
	assert.Equal(t, exitNotFound, code)

	var results []scanResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "ok", results[0].Status)
	assert.Equal(t, "12345678", results[0].Text)
	assert.Equal(t, "]d1", results[0].SymbologyIdentifier)
	assert.Len(t, results[0].Position, 4)
	assert.NotEmpty(t, results[0].Binarizer)
	assert.Equal(t, "not_found", results[1].Status)
}

func TestScanYAMLFromEnvironment(t *testing.T) {
	dir := sandbox(t)
	good := encodeTo(t, dir, "good.png", "yaml please")
	t.Setenv("DMSCAN_OUTPUT_FORMAT", "yaml")

	code, stdout, _ := run("scan", good)
	require.Equal(t, exitOK, code)

	var results []scanResult
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "yaml please", results[0].Text)
}

func TestScanConfigFile(t *testing.T) {
	dir := sandbox(t)
	good := encodeTo(t, dir, "good.png", "configured")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dmscan.yaml"), []byte(`
decode:
  pure: true
  binarizers: [histogram]
output:
  format: json
`), 0o600))

	code, stdout, _ := run("scan", good)
	require.Equal(t, exitOK, code)
	var results []scanResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	assert.Equal(t, "histogram", results[0].Binarizer)
}

func TestScanFailures(t *testing.T) {
	dir := sandbox(t)

	code, _, stderr := run("scan", blankImage(t, dir))
	assert.Equal(t, exitNotFound, code)
	assert.Contains(t, stderr, "no symbol found")

	code, _, stderr = run("scan", filepath.Join(dir, "missing.png"))
	assert.Equal(t, exitNotFound, code)
	assert.Contains(t, stderr, "missing.png: error")
}

func TestUsageErrors(t *testing.T) {
	sandbox(t)

	code, _, _ := run("scan")
	assert.Equal(t, exitUsage, code)

	code, _, stderr := run("scan", "--format", "xml", "x.png")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "output.format")

	code, _, _ = run("encode", "x", "--shape", "triangle")
	assert.Equal(t, exitUsage, code)

	code, _, _ = run("encode", "x", "-o", "out.xyz")
	assert.Equal(t, exitUsage, code)

	code, _, _ = run("--config", "nope.yaml", "scan", "x.png")
	assert.Equal(t, exitUsage, code)
}

func TestScanWritesMetrics(t *testing.T) {
	dir := sandbox(t)
	good := encodeTo(t, dir, "good.png", "metrics")
	textfile := filepath.Join(dir, "dmscan.prom")

	code, _, _ := run("scan", "--metrics-textfile", textfile, good)
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `dmscan_decode_total{status="ok"}`)
	assert.Contains(t, string(data), "dmscan_hypotheses_total")
}

func TestEncodeToStdout(t *testing.T) {
	sandbox(t)
	code, stdout, _ := run("encode", "AB", "--margin", "0")
	require.Equal(t, exitOK, code)

	img, format, err := image.Decode(strings.NewReader(stdout))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())
}

func TestEncodeRectangle(t *testing.T) {
	dir := sandbox(t)
	path := filepath.Join(dir, "rect.png")
	code, _, _ := run("encode", "HELLO", "--shape", "rectangle", "--margin", "0", "-o", path)
	require.Equal(t, exitOK, code)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 18, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestLoadImageDownscales(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.png")
	require.NoError(t, imaging.Save(imaging.New(400, 200, color.White), path))

	img, err := loadImage(path, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	img, err = loadImage(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}
