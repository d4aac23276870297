package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/binarizer"
	"github.com/ericlevine/dmscan/datamatrix"
	"github.com/ericlevine/dmscan/internal/config"
	"github.com/ericlevine/dmscan/metrics"
)

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <image-file> [image-file...]",
		Short: "Decode the Data Matrix symbol in each image",
		Long: `Decode the Data Matrix symbol in each image file (PNG, JPEG, GIF, BMP,
TIFF or WebP). Images are processed concurrently; results are printed in
argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scan(cmd, args)
		},
	}

	f := cmd.Flags()
	f.Bool("try-harder", false, "spend more time looking for symbols")
	f.Bool("try-rotate", false, "look for symbols at arbitrary angles")
	f.Bool("pure", false, "hint that the image is a clean, unrotated symbol render")
	f.String("charset", "", "character set of byte data without an ECI (default UTF-8, else ISO-8859-1)")
	f.StringSlice("binarizer", nil, "binarizers to try in order (hybrid, histogram)")
	f.Int("max-dimension", 0, "downscale images larger than this many pixels (0 keeps the size)")
	f.StringP("format", "f", config.FormatText, "output format (text, json, yaml)")
	f.IntP("workers", "j", 0, "number of images decoded at once")
	f.String("metrics-textfile", "", "write Prometheus metrics to this file after the scan")

	a.bind(f.Lookup("try-harder"), "decode.try_harder")
	a.bind(f.Lookup("try-rotate"), "decode.try_rotate")
	a.bind(f.Lookup("pure"), "decode.pure")
	a.bind(f.Lookup("charset"), "decode.character_set")
	a.bind(f.Lookup("binarizer"), "decode.binarizers")
	a.bind(f.Lookup("max-dimension"), "image.max_dimension")
	a.bind(f.Lookup("format"), "output.format")
	a.bind(f.Lookup("workers"), "scan.workers")
	a.bind(f.Lookup("metrics-textfile"), "metrics.textfile")
	return cmd
}

// point is a ResultPoint with lower case field names in JSON and YAML.
type point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// scanResult is the outcome for one file.
type scanResult struct {
	File                string  `json:"file" yaml:"file"`
	Status              string  `json:"status" yaml:"status"`
	Text                string  `json:"text" yaml:"text"`
	Position            []point `json:"position,omitempty" yaml:"position,omitempty"`
	SymbologyIdentifier string  `json:"symbology_identifier,omitempty" yaml:"symbology_identifier,omitempty"`
	ErrorsCorrected     int     `json:"errors_corrected" yaml:"errors_corrected"`
	Hypothesis          string  `json:"hypothesis,omitempty" yaml:"hypothesis,omitempty"`
	Binarizer           string  `json:"binarizer,omitempty" yaml:"binarizer,omitempty"`
	Error               string  `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r *scanResult) ok() bool { return r.Status == dmscan.StatusOK.String() }

// scanner decodes files with one shared reader.
type scanner struct {
	reader     *datamatrix.Reader
	opts       *dmscan.DecodeOptions
	binarizers []string
	maxDim     int
	log        zerolog.Logger
}

func (a *app) scan(cmd *cobra.Command, files []string) error {
	var (
		reg      *prometheus.Registry
		recorder *metrics.Recorder
	)
	if a.cfg.Metrics.Textfile != "" {
		reg = prometheus.NewRegistry()
		recorder = metrics.NewRecorder(reg)
	}

	s := &scanner{
		reader:     datamatrix.NewReader(datamatrix.WithLogger(a.log), datamatrix.WithMetrics(recorder)),
		opts:       a.cfg.DecodeOptions(),
		binarizers: a.cfg.Decode.Binarizers,
		maxDim:     a.cfg.Image.MaxDimension,
		log:        a.log,
	}

	start := time.Now()
	results, err := s.scanAll(cmd.Context(), files, a.cfg.Scan.Workers)
	if err != nil {
		return err
	}

	failed := 0
	for i := range results {
		if !results[i].ok() {
			failed++
		}
	}
	a.log.Info().
		Int("files", len(files)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("scan finished")

	if err := writeResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), a.cfg.Output.Format, results); err != nil {
		return err
	}
	if reg != nil {
		if err := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if failed > 0 {
		return &exitError{code: exitNotFound}
	}
	return nil
}

// scanAll decodes files on up to workers goroutines and returns the
// results in input order.
func (s *scanner) scanAll(ctx context.Context, files []string, workers int) ([]scanResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	workers = max(1, min(workers, len(files)))

	type job struct {
		index int
		file  string
	}
	jobs := make(chan job)
	results := make([]scanResult, len(files))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = s.scanFile(j.file)
			}
		}()
	}

	func() {
		defer close(jobs)
		for i, f := range files {
			select {
			case jobs <- job{index: i, file: f}:
			case <-ctx.Done():
				return
			}
		}
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// scanFile tries each binarizer in turn until one yields a symbol. When
// none does, the last decoding error is reported, or not_found.
func (s *scanner) scanFile(file string) scanResult {
	res := scanResult{File: file, Status: dmscan.StatusNotFound.String()}
	log := s.log.With().Str("file", file).Logger()

	img, err := loadImage(file, s.maxDim)
	if err != nil {
		log.Warn().Err(err).Msg("cannot load image")
		res.Status = "error"
		res.Error = err.Error()
		return res
	}
	source := dmscan.NewImageLuminanceSource(img)

	var lastErr error
	for _, name := range s.binarizers {
		b, err := binarizer.ByName(name, source)
		if err != nil {
			lastErr = err
			continue
		}
		r, err := s.reader.Decode(dmscan.NewBinaryBitmap(b), s.opts)
		if err != nil {
			log.Debug().Err(err).Str("binarizer", name).Msg("decode failed")
			lastErr = err
			continue
		}
		if r.Status != dmscan.StatusOK {
			continue
		}

		res.Status = r.Status.String()
		res.Text = r.Text
		res.Binarizer = name
		for _, p := range r.Position {
			res.Position = append(res.Position, point{X: p.X, Y: p.Y})
		}
		res.SymbologyIdentifier, _ = r.Metadata[dmscan.MetadataSymbologyIdentifier].(string)
		res.ErrorsCorrected, _ = r.Metadata[dmscan.MetadataErrorsCorrected].(int)
		res.Hypothesis, _ = r.Metadata[dmscan.MetadataHypothesis].(string)
		log.Info().Str("binarizer", name).Str("hypothesis", res.Hypothesis).Msg("decoded")
		return res
	}

	if lastErr != nil {
		res.Status = dmscan.StatusOf(lastErr).String()
		res.Error = lastErr.Error()
		if errors.Is(lastErr, dmscan.ErrNotFound) {
			res.Error = ""
		}
	}
	log.Info().Str("status", res.Status).Msg("no symbol decoded")
	return res
}
