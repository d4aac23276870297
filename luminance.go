package dmscan

import "github.com/ericlevine/dmscan/bitutil"

// LuminanceSource provides greyscale values for an image, 0 black to 255 white.
type LuminanceSource interface {
	// Row returns row y, reusing row when it is large enough.
	Row(y int, row []byte) []byte

	// Matrix returns all rows concatenated.
	Matrix() []byte

	Width() int
	Height() int
}

// Binarizer converts luminance to a black/white matrix.
type Binarizer interface {
	BlackMatrix() (*bitutil.BitMatrix, error)
	LuminanceSource() LuminanceSource
	Width() int
	Height() int
}
