// Package datamatrix provides Data Matrix (ECC200) reading and writing.
package datamatrix

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/datamatrix/decoder"
	"github.com/ericlevine/dmscan/datamatrix/detector"
	"github.com/ericlevine/dmscan/internal"
	"github.com/ericlevine/dmscan/metrics"
)

// Values of the MetadataHypothesis entry.
const (
	HypothesisPrimary = "primary"
	HypothesisBackup  = "backup"
)

// Detector locates symbol candidates in a binary image.
type Detector interface {
	Detect(image *bitutil.BitMatrix, tryHarder, tryRotate, isPure bool) detector.Detection
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(image *bitutil.BitMatrix, tryHarder, tryRotate, isPure bool) detector.Detection

// Detect calls f.
func (f DetectorFunc) Detect(image *bitutil.BitMatrix, tryHarder, tryRotate, isPure bool) detector.Detection {
	return f(image, tryHarder, tryRotate, isPure)
}

// Decoder turns a module grid into its payload.
type Decoder interface {
	Decode(bits *bitutil.BitMatrix, characterSet string) (*internal.DecoderResult, error)
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger decode decisions are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reader) { r.log = l }
}

// WithMetrics records decode outcomes on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Reader) { r.metrics = m }
}

// WithDetector replaces the symbol detector.
func WithDetector(d Detector) Option {
	return func(r *Reader) { r.detector = d }
}

// WithDecoder replaces the grid decoder.
func WithDecoder(d Decoder) Option {
	return func(r *Reader) { r.decoder = d }
}

// Reader decodes Data Matrix symbols from binary images. It keeps no
// per-call state and is safe for concurrent use.
type Reader struct {
	detector Detector
	decoder  Decoder
	log      zerolog.Logger
	metrics  *metrics.Recorder
}

// NewReader creates a Reader using the package's detector and decoder
// unless replaced by opts.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		detector: DetectorFunc(detector.Detect),
		decoder:  decoder.NewDecoder(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Decode locates and decodes a symbol in image.
//
// A missing bit matrix or an invalid primary hypothesis gives a result
// with StatusNotFound, whatever the backup hypothesis holds. Decoding
// errors are returned as is and are never retried. The backup hypothesis
// is decoded only when the primary one decodes to empty text; its result,
// or its error, then replaces the primary one.
func (r *Reader) Decode(image dmscan.Bitmap, opts *dmscan.DecodeOptions) (res *dmscan.Result, err error) {
	start := time.Now()
	defer func() {
		status := dmscan.StatusOf(err)
		if res != nil {
			status = res.Status
		}
		r.metrics.Decode(status, time.Since(start))
	}()

	if opts == nil {
		opts = &dmscan.DecodeOptions{}
	}
	if image == nil {
		return dmscan.NotFoundResult(dmscan.FormatDataMatrix), nil
	}
	matrix, err := image.BlackMatrix()
	if err != nil || matrix == nil {
		r.log.Debug().Err(err).Msg("no bit matrix")
		return dmscan.NotFoundResult(dmscan.FormatDataMatrix), nil
	}

	d := r.detector.Detect(matrix, opts.TryHarder, opts.TryRotate, opts.PureBarcode)
	r.metrics.Hypothesis(HypothesisPrimary, d.Primary.Valid)
	r.metrics.Hypothesis(HypothesisBackup, d.Backup.Valid)
	r.log.Debug().
		Bool("primary", d.Primary.Valid).
		Bool("backup", d.Backup.Valid).
		Msg("detected")
	if !d.Primary.Valid {
		return dmscan.NotFoundResult(dmscan.FormatDataMatrix), nil
	}

	dr, err := r.decoder.Decode(d.Primary.Bits, opts.CharacterSet)
	if err != nil {
		r.log.Debug().Err(err).Msg("primary decode failed")
		return nil, err
	}

	winner, name := &d.Primary, HypothesisPrimary
	if dr.Text == "" {
		if !d.Backup.Valid {
			r.metrics.Fallback(metrics.FallbackUnavailable)
			r.log.Debug().Msg("primary text empty, no backup")
		} else {
			dr, err = r.decoder.Decode(d.Backup.Bits, opts.CharacterSet)
			if err != nil {
				r.metrics.Fallback(metrics.FallbackFailed)
				r.log.Debug().Err(err).Msg("backup decode failed")
				return nil, err
			}
			r.metrics.Fallback(metrics.FallbackUsed)
			r.log.Debug().Str("text", dr.Text).Msg("primary text empty, using backup")
			winner, name = &d.Backup, HypothesisBackup
		}
	}

	// the grid has served its purpose; only the outline leaves the reader
	_, position := winner.Take()
	return newResult(dr, position, name), nil
}

func newResult(dr *internal.DecoderResult, position dmscan.Quadrilateral, hypothesis string) *dmscan.Result {
	res := dmscan.NewResult(dr.Text, dr.RawBytes, position, dmscan.FormatDataMatrix)
	res.PutMetadata(dmscan.MetadataSymbologyIdentifier, fmt.Sprintf("]d%d", dr.SymbologyModifier))
	if len(dr.ByteSegments) > 0 {
		res.PutMetadata(dmscan.MetadataByteSegments, dr.ByteSegments)
	}
	if dr.ECLevel != "" {
		res.PutMetadata(dmscan.MetadataErrorCorrectionLevel, dr.ECLevel)
	}
	res.PutMetadata(dmscan.MetadataErrorsCorrected, dr.ErrorsCorrected)
	if sa := dr.StructuredAppend; sa != nil {
		res.PutMetadata(dmscan.MetadataStructuredAppendSequence, sa.Index<<4|sa.Count)
		res.PutMetadata(dmscan.MetadataStructuredAppendParity, sa.ID)
	}
	res.PutMetadata(dmscan.MetadataHypothesis, hypothesis)
	return res
}

var _ dmscan.Reader = (*Reader)(nil)
