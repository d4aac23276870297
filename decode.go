package dmscan

import "github.com/ericlevine/dmscan/bitutil"

// DecodeOptions configures decoding behavior.
type DecodeOptions struct {
	// PureBarcode hints that the image contains only an unrotated,
	// noise-free symbol.
	PureBarcode bool

	// TryHarder enables slower search heuristics with better recall.
	TryHarder bool

	// TryRotate permits symbols that are not axis aligned.
	TryRotate bool

	// CharacterSet names the encoding of byte data when the symbol carries
	// no ECI. Empty means UTF-8 when the bytes are valid UTF-8, otherwise
	// ISO-8859-1.
	CharacterSet string
}

// Reader decodes a symbol from a Bitmap.
//
// A missing symbol is reported as a Result with StatusNotFound and a nil
// error. Undecodable symbols return an error wrapping ErrFormat or
// ErrChecksum.
type Reader interface {
	Decode(image Bitmap, opts *DecodeOptions) (*Result, error)
}

// SymbolShape restricts the symbol sizes an encoder may choose.
type SymbolShape int

const (
	ShapeNone SymbolShape = iota
	ShapeSquare
	ShapeRectangle
)

// Dimension is a width and height in modules.
type Dimension struct {
	Width, Height int
}

// EncodeOptions configures encoding behavior.
type EncodeOptions struct {
	Shape SymbolShape

	// MinSize and MaxSize bound the symbol size in modules when set.
	MinSize *Dimension
	MaxSize *Dimension

	// Margin is the quiet zone in modules. Nil means one module.
	Margin *int

	// AllowDMRE admits the rectangular extension sizes (ISO 21471).
	AllowDMRE bool
}

// Writer renders contents into a symbol.
type Writer interface {
	Encode(contents string, width, height int, opts *EncodeOptions) (*bitutil.BitMatrix, error)
}
