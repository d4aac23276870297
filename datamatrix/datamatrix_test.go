package datamatrix

import (
	"image"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/binarizer"
)

// bitmapOf binarizes img the way the scan command does.
func bitmapOf(img image.Image, name string) *dmscan.BinaryBitmap {
	b, err := binarizer.ByName(name, dmscan.NewImageLuminanceSource(img))
	if err != nil {
		panic(err)
	}
	return dmscan.NewBinaryBitmap(b)
}

func TestDataMatrixRoundTrip(t *testing.T) {
	tests := []string{
		"Hello",
		"Test123",
		"1234567890",
		"ABCDEF",
		"Hello, World!",
		"THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG 0123456789",
		"grüße",
	}

	writer := NewWriter()
	reader := NewReader()

	for _, tc := range tests {
		t.Run(tc, func(t *testing.T) {
			matrix, err := writer.Encode(tc, 200, 200, nil)
			require.NoError(t, err)
			img := dmscan.BitMatrixToImage(matrix)

			for _, opts := range []*dmscan.DecodeOptions{
				{PureBarcode: true},
				{},
				{TryHarder: true},
			} {
				result, err := reader.Decode(bitmapOf(img, "histogram"), opts)
				require.NoError(t, err, "options %+v", opts)
				assert.Equal(t, dmscan.StatusOK, result.Status)
				assert.Equal(t, tc, result.Text)
				assert.Equal(t, dmscan.FormatDataMatrix, result.Format)
				assert.Equal(t, "]d1", result.Metadata[dmscan.MetadataSymbologyIdentifier])
				assert.Equal(t, "ECC200", result.Metadata[dmscan.MetadataErrorCorrectionLevel])
			}
		})
	}
}

func TestDataMatrixRoundTripRotated(t *testing.T) {
	matrix, err := NewWriter().Encode("quarter turn", 160, 160, nil)
	require.NoError(t, err)
	img := dmscan.BitMatrixToImage(matrix)

	for name, rotated := range map[string]image.Image{
		"90":  imaging.Rotate90(img),
		"180": imaging.Rotate180(img),
		"270": imaging.Rotate270(img),
	} {
		t.Run(name, func(t *testing.T) {
			result, err := NewReader().Decode(bitmapOf(rotated, "hybrid"), &dmscan.DecodeOptions{TryHarder: true})
			require.NoError(t, err)
			assert.Equal(t, "quarter turn", result.Text)
		})
	}
}

func TestDataMatrixEmptyMessage(t *testing.T) {
	matrix, err := NewWriter().Encode("", 120, 120, nil)
	require.NoError(t, err)

	result, err := NewReader().Decode(bitmapOf(dmscan.BitMatrixToImage(matrix), "histogram"), nil)
	require.NoError(t, err)
	assert.Equal(t, dmscan.StatusOK, result.Status)
	assert.Empty(t, result.Text)
}

func TestDataMatrixBlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	result, err := NewReader().Decode(bitmapOf(img, "histogram"), &dmscan.DecodeOptions{TryHarder: true})
	require.NoError(t, err)
	assert.Equal(t, dmscan.StatusNotFound, result.Status)
}

func TestDataMatrixPositionInsideImage(t *testing.T) {
	matrix, err := NewWriter().Encode("where", 150, 150, nil)
	require.NoError(t, err)

	result, err := NewReader().Decode(dmscan.MatrixBitmap{Matrix: matrix}, nil)
	require.NoError(t, err)
	for _, p := range result.Position {
		assert.True(t, p.X >= 0 && p.X <= 150 && p.Y >= 0 && p.Y <= 150, "corner %v", p)
	}
	c := result.Position.Center()
	assert.InDelta(t, 75, c.X, 10)
	assert.InDelta(t, 75, c.Y, 10)
}

func TestWriterDimensions(t *testing.T) {
	w := NewWriter()

	m, err := w.Encode("AB", 0, 0, nil)
	require.NoError(t, err)
	// 10x10 symbol plus the default quiet zone
	assert.Equal(t, 12, m.Width())
	assert.Equal(t, 12, m.Height())

	margin := 0
	m, err = w.Encode("AB", 50, 30, &dmscan.EncodeOptions{Margin: &margin})
	require.NoError(t, err)
	assert.Equal(t, 50, m.Width())
	assert.Equal(t, 30, m.Height())

	m, err = w.Encode("HELLO", 0, 0, &dmscan.EncodeOptions{Shape: dmscan.ShapeRectangle, Margin: &margin})
	require.NoError(t, err)
	assert.Equal(t, 18, m.Width())
	assert.Equal(t, 8, m.Height())
}

func TestWriterRejectsBadArguments(t *testing.T) {
	w := NewWriter()
	_, err := w.Encode("A", -1, 10, nil)
	assert.ErrorIs(t, err, dmscan.ErrWriter)

	margin := -2
	_, err = w.Encode("A", 10, 10, &dmscan.EncodeOptions{Margin: &margin})
	assert.ErrorIs(t, err, dmscan.ErrWriter)
}
