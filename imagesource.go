package dmscan

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ImageLuminanceSource is a LuminanceSource over an in-memory greyscale copy
// of an image.
type ImageLuminanceSource struct {
	luminances []byte
	width      int
	height     int
}

// NewImageLuminanceSource converts img to greyscale. Fully transparent
// pixels are treated as white.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	if g, ok := img.(*image.Gray); ok {
		return NewGrayImageLuminanceSource(g)
	}
	gray := imaging.Grayscale(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	lum := make([]byte, w*h)
	for y := 0; y < h; y++ {
		px := gray.Pix[y*gray.Stride : y*gray.Stride+4*w]
		for x := 0; x < w; x++ {
			if px[4*x+3] == 0 {
				lum[y*w+x] = 0xFF
			} else {
				lum[y*w+x] = px[4*x]
			}
		}
	}
	return &ImageLuminanceSource{luminances: lum, width: w, height: h}
}

// NewGrayImageLuminanceSource copies the pixels of a greyscale image.
func NewGrayImageLuminanceSource(img *image.Gray) *ImageLuminanceSource {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	lum := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(lum[y*w:], img.Pix[off:off+w])
	}
	return &ImageLuminanceSource{luminances: lum, width: w, height: h}
}

// Row returns a row of luminance data, or nil when y is out of range.
func (s *ImageLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		return nil
	}
	if len(row) < s.width {
		row = make([]byte, s.width)
	}
	copy(row, s.luminances[y*s.width:(y+1)*s.width])
	return row
}

// Matrix returns a copy of the whole luminance matrix.
func (s *ImageLuminanceSource) Matrix() []byte {
	out := make([]byte, len(s.luminances))
	copy(out, s.luminances)
	return out
}

func (s *ImageLuminanceSource) Width() int  { return s.width }
func (s *ImageLuminanceSource) Height() int { return s.height }

// BitMatrixToImage renders set bits black and clear bits white.
func BitMatrixToImage(matrix interface {
	Width() int
	Height() int
	Get(x, y int) bool
}) *image.Gray {
	w, h := matrix.Width(), matrix.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}
