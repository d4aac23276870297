package datamatrix

import (
	"fmt"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/datamatrix/encoder"
)

const defaultQuietZoneSize = 1

// Writer renders Data Matrix symbols.
type Writer struct{}

// NewWriter creates a new Data Matrix Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Encode encodes contents and scales the symbol into a width x height
// matrix, centred, with a quiet zone of opts.Margin modules. The output is
// never smaller than the symbol plus its quiet zone; zero dimensions
// request exactly that size.
func (w *Writer) Encode(contents string, width, height int, opts *dmscan.EncodeOptions) (*bitutil.BitMatrix, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("datamatrix: requested dimensions are too small: %dx%d: %w", width, height, dmscan.ErrWriter)
	}
	quietZone := defaultQuietZoneSize
	if opts != nil && opts.Margin != nil {
		if *opts.Margin < 0 {
			return nil, fmt.Errorf("datamatrix: negative margin %d: %w", *opts.Margin, dmscan.ErrWriter)
		}
		quietZone = *opts.Margin
	}

	symbol, err := encoder.Encode(contents, opts)
	if err != nil {
		return nil, err
	}
	return renderResult(symbol, width, height, quietZone), nil
}

func renderResult(input *bitutil.BitMatrix, width, height, quietZone int) *bitutil.BitMatrix {
	inputWidth, inputHeight := input.Width(), input.Height()
	fullWidth := inputWidth + 2*quietZone
	fullHeight := inputHeight + 2*quietZone
	outputWidth := max(width, fullWidth)
	outputHeight := max(height, fullHeight)

	multiple := min(outputWidth/fullWidth, outputHeight/fullHeight)
	leftPadding := (outputWidth - inputWidth*multiple) / 2
	topPadding := (outputHeight - inputHeight*multiple) / 2

	output := bitutil.NewBitMatrixWithSize(outputWidth, outputHeight)
	for y := 0; y < inputHeight; y++ {
		for x := 0; x < inputWidth; x++ {
			if input.Get(x, y) {
				output.SetRegion(leftPadding+x*multiple, topPadding+y*multiple, multiple, multiple)
			}
		}
	}
	return output
}

var _ dmscan.Writer = (*Writer)(nil)
