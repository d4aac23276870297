// Package dmscan locates and decodes Data Matrix (ECC200) symbols in
// binarized images.
package dmscan

import (
	"math"
	"time"

	"github.com/ericlevine/dmscan/bitutil"
)

// Format identifies a symbology.
type Format int

const (
	FormatDataMatrix Format = iota
)

func (f Format) String() string {
	switch f {
	case FormatDataMatrix:
		return "DATA_MATRIX"
	default:
		return "UNKNOWN"
	}
}

// ResultMetadataKey identifies a type of metadata about a result.
type ResultMetadataKey int

const (
	MetadataByteSegments ResultMetadataKey = iota
	MetadataErrorCorrectionLevel
	MetadataErrorsCorrected
	MetadataStructuredAppendSequence // index<<4 | count, count 0 if unknown
	MetadataStructuredAppendParity   // file identification
	MetadataSymbologyIdentifier
	MetadataHypothesis
)

func (k ResultMetadataKey) String() string {
	switch k {
	case MetadataByteSegments:
		return "byte_segments"
	case MetadataErrorCorrectionLevel:
		return "error_correction_level"
	case MetadataErrorsCorrected:
		return "errors_corrected"
	case MetadataStructuredAppendSequence:
		return "structured_append_sequence"
	case MetadataStructuredAppendParity:
		return "structured_append_parity"
	case MetadataSymbologyIdentifier:
		return "symbology_identifier"
	case MetadataHypothesis:
		return "hypothesis"
	default:
		return "unknown"
	}
}

// ResultPoint is a location in image coordinates.
type ResultPoint struct {
	X, Y float64
}

// Distance returns the distance between two points.
func Distance(a, b ResultPoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Quadrilateral is a symbol outline: top-left, bottom-left, bottom-right,
// top-right, where "top-left" is the end of the solid L's vertical leg.
type Quadrilateral [4]ResultPoint

// Center returns the mean of the four corners.
func (q Quadrilateral) Center() ResultPoint {
	var c ResultPoint
	for _, p := range q {
		c.X += p.X / 4
		c.Y += p.Y / 4
	}
	return c
}

// Result is the outward value of one decode call.
type Result struct {
	Status    Status
	Text      string
	RawBytes  []byte
	NumBits   int
	Position  Quadrilateral
	Format    Format
	Metadata  map[ResultMetadataKey]interface{}
	Timestamp time.Time
}

// NewResult creates an OK result.
func NewResult(text string, rawBytes []byte, position Quadrilateral, format Format) *Result {
	return &Result{
		Status:    StatusOK,
		Text:      text,
		RawBytes:  rawBytes,
		NumBits:   8 * len(rawBytes),
		Position:  position,
		Format:    format,
		Metadata:  make(map[ResultMetadataKey]interface{}),
		Timestamp: time.Now(),
	}
}

// NotFoundResult returns a result carrying only StatusNotFound.
func NotFoundResult(format Format) *Result {
	return &Result{Status: StatusNotFound, Format: format, Timestamp: time.Now()}
}

// PutMetadata adds a metadata key/value pair.
func (r *Result) PutMetadata(key ResultMetadataKey, value interface{}) {
	if r.Metadata == nil {
		r.Metadata = make(map[ResultMetadataKey]interface{})
	}
	r.Metadata[key] = value
}

// Bitmap is the input boundary of a reader: a source of a binary pixel
// grid. An error or a nil matrix means no grid exists for the image.
type Bitmap interface {
	BlackMatrix() (*bitutil.BitMatrix, error)
}

// BinaryBitmap binarizes a luminance source on first use and caches the
// resulting matrix.
type BinaryBitmap struct {
	binarizer Binarizer
	matrix    *bitutil.BitMatrix
}

// NewBinaryBitmap creates a BinaryBitmap from the given Binarizer.
func NewBinaryBitmap(binarizer Binarizer) *BinaryBitmap {
	return &BinaryBitmap{binarizer: binarizer}
}

// Width returns the width of the bitmap.
func (b *BinaryBitmap) Width() int { return b.binarizer.Width() }

// Height returns the height of the bitmap.
func (b *BinaryBitmap) Height() int { return b.binarizer.Height() }

// BlackMatrix returns the binarized matrix.
func (b *BinaryBitmap) BlackMatrix() (*bitutil.BitMatrix, error) {
	if b.matrix != nil {
		return b.matrix, nil
	}
	m, err := b.binarizer.BlackMatrix()
	if err != nil {
		return nil, err
	}
	b.matrix = m
	return m, nil
}

// MatrixBitmap adapts an already binarized matrix to the Bitmap interface.
type MatrixBitmap struct {
	Matrix *bitutil.BitMatrix
}

// BlackMatrix returns the wrapped matrix, or ErrNotFound when it is nil.
func (m MatrixBitmap) BlackMatrix() (*bitutil.BitMatrix, error) {
	if m.Matrix == nil {
		return nil, ErrNotFound
	}
	return m.Matrix, nil
}
