package datamatrix

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/datamatrix/detector"
	"github.com/ericlevine/dmscan/internal"
	"github.com/ericlevine/dmscan/metrics"
)

type mockDetector struct{ mock.Mock }

func (m *mockDetector) Detect(image *bitutil.BitMatrix, tryHarder, tryRotate, isPure bool) detector.Detection {
	args := m.Called(image, tryHarder, tryRotate, isPure)
	return args.Get(0).(detector.Detection)
}

type mockDecoder struct{ mock.Mock }

func (m *mockDecoder) Decode(bits *bitutil.BitMatrix, characterSet string) (*internal.DecoderResult, error) {
	args := m.Called(bits, characterSet)
	dr, _ := args.Get(0).(*internal.DecoderResult)
	return dr, args.Error(1)
}

type failingBitmap struct{}

func (failingBitmap) BlackMatrix() (*bitutil.BitMatrix, error) {
	return nil, errors.New("sensor unplugged")
}

var (
	primaryPos = dmscan.Quadrilateral{{X: 10, Y: 10}, {X: 10, Y: 50}, {X: 50, Y: 50}, {X: 50, Y: 10}}
	backupPos  = dmscan.Quadrilateral{{X: 11, Y: 9}, {X: 9, Y: 51}, {X: 51, Y: 52}, {X: 52, Y: 8}}
)

// fixture wires a reader to mocks. The grids differ in size so the mocks
// can tell them apart.
type fixture struct {
	image    *bitutil.BitMatrix
	primary  *bitutil.BitMatrix
	backup   *bitutil.BitMatrix
	detector *mockDetector
	decoder  *mockDecoder
	reader   *Reader
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	f := &fixture{
		image:    bitutil.NewBitMatrix(64),
		primary:  bitutil.NewBitMatrix(10),
		backup:   bitutil.NewBitMatrix(12),
		detector: &mockDetector{},
		decoder:  &mockDecoder{},
	}
	f.detector.Test(t)
	f.decoder.Test(t)
	f.reader = NewReader(append([]Option{WithDetector(f.detector), WithDecoder(f.decoder)}, opts...)...)
	t.Cleanup(func() {
		f.detector.AssertExpectations(t)
		f.decoder.AssertExpectations(t)
	})
	return f
}

func (f *fixture) detects(primaryValid, backupValid bool) {
	var d detector.Detection
	if primaryValid {
		d.Primary = internal.NewHypothesis(f.primary, primaryPos)
	}
	if backupValid {
		d.Backup = internal.NewHypothesis(f.backup, backupPos)
	}
	f.detector.On("Detect", f.image, false, false, false).Return(d).Once()
}

func (f *fixture) decodes(grid *bitutil.BitMatrix, text string, err error) {
	var dr *internal.DecoderResult
	if err == nil {
		dr = &internal.DecoderResult{Text: text, RawBytes: []byte(text), SymbologyModifier: 1, ECLevel: "ECC200"}
	}
	f.decoder.On("Decode", grid, "").Return(dr, err).Once()
}

func (f *fixture) decode(t *testing.T) (*dmscan.Result, error) {
	t.Helper()
	return f.reader.Decode(dmscan.MatrixBitmap{Matrix: f.image}, nil)
}

func TestReaderNoMatrix(t *testing.T) {
	for name, bitmap := range map[string]dmscan.Bitmap{
		"nil bitmap":   nil,
		"nil matrix":   dmscan.MatrixBitmap{},
		"bitmap error": failingBitmap{},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			res, err := f.reader.Decode(bitmap, &dmscan.DecodeOptions{TryHarder: true})
			require.NoError(t, err)
			assert.Equal(t, dmscan.StatusNotFound, res.Status)
			f.detector.AssertNotCalled(t, "Detect", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.decoder.AssertNotCalled(t, "Decode", mock.Anything, mock.Anything)
		})
	}
}

func TestReaderPrimaryInvalid(t *testing.T) {
	for _, backupValid := range []bool{false, true} {
		t.Run(fmt.Sprintf("backup valid %v", backupValid), func(t *testing.T) {
			f := newFixture(t)
			f.detects(false, backupValid)
			res, err := f.decode(t)
			require.NoError(t, err)
			assert.Equal(t, dmscan.StatusNotFound, res.Status)
			assert.Empty(t, res.Text)
			f.decoder.AssertNotCalled(t, "Decode", mock.Anything, mock.Anything)
		})
	}
}

func TestReaderPrimaryText(t *testing.T) {
	f := newFixture(t)
	f.detects(true, true)
	f.decodes(f.primary, "HELLO", nil)

	res, err := f.decode(t)
	require.NoError(t, err)
	assert.Equal(t, dmscan.StatusOK, res.Status)
	assert.Equal(t, "HELLO", res.Text)
	assert.Equal(t, primaryPos, res.Position)
	assert.Equal(t, dmscan.FormatDataMatrix, res.Format)
	assert.Equal(t, HypothesisPrimary, res.Metadata[dmscan.MetadataHypothesis])
	f.decoder.AssertNotCalled(t, "Decode", f.backup, mock.Anything)
}

func TestReaderFallsBackOnEmptyText(t *testing.T) {
	f := newFixture(t)
	f.detects(true, true)
	f.decodes(f.primary, "", nil)
	f.decodes(f.backup, "WORLD", nil)

	res, err := f.decode(t)
	require.NoError(t, err)
	assert.Equal(t, dmscan.StatusOK, res.Status)
	assert.Equal(t, "WORLD", res.Text)
	assert.Equal(t, backupPos, res.Position)
	assert.Equal(t, HypothesisBackup, res.Metadata[dmscan.MetadataHypothesis])
}

func TestReaderEmptyTextWithoutBackup(t *testing.T) {
	f := newFixture(t)
	f.detects(true, false)
	f.decodes(f.primary, "", nil)

	res, err := f.decode(t)
	require.NoError(t, err)
	assert.Equal(t, dmscan.StatusOK, res.Status)
	assert.Empty(t, res.Text)
	assert.Equal(t, primaryPos, res.Position)
}

func TestReaderPrimaryErrorPropagates(t *testing.T) {
	for _, sentinel := range []error{dmscan.ErrChecksum, dmscan.ErrFormat} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			f := newFixture(t)
			f.detects(true, true)
			f.decodes(f.primary, "", fmt.Errorf("corrupt: %w", sentinel))

			res, err := f.decode(t)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, sentinel)
			f.decoder.AssertNotCalled(t, "Decode", f.backup, mock.Anything)
		})
	}
}

func TestReaderBackupErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.detects(true, true)
	f.decodes(f.primary, "", nil)
	f.decodes(f.backup, "", fmt.Errorf("bad: %w", dmscan.ErrFormat))

	res, err := f.decode(t)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, dmscan.ErrFormat)
	assert.Equal(t, dmscan.StatusFormatError, dmscan.StatusOf(err))
}

func TestReaderBackupEmptyTextIsFinal(t *testing.T) {
	f := newFixture(t)
	f.detects(true, true)
	f.decodes(f.primary, "", nil)
	f.decodes(f.backup, "", nil)

	res, err := f.decode(t)
	require.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Equal(t, backupPos, res.Position)
}

func TestReaderPassesOptions(t *testing.T) {
	f := newFixture(t)
	d := detector.Detection{Primary: internal.NewHypothesis(f.primary, primaryPos)}
	f.detector.On("Detect", f.image, true, true, true).Return(d).Once()
	f.decoder.On("Decode", f.primary, "Shift_JIS").
		Return(&internal.DecoderResult{Text: "x"}, nil).Once()

	res, err := f.reader.Decode(dmscan.MatrixBitmap{Matrix: f.image}, &dmscan.DecodeOptions{
		TryHarder:    true,
		TryRotate:    true,
		PureBarcode:  true,
		CharacterSet: "Shift_JIS",
	})
	require.NoError(t, err)
	assert.Equal(t, "x", res.Text)
}

func TestReaderMetadata(t *testing.T) {
	f := newFixture(t)
	f.detects(true, false)
	f.decoder.On("Decode", f.primary, "").Return(&internal.DecoderResult{
		Text:              "\x1d01",
		RawBytes:          []byte{232, 131},
		ByteSegments:      [][]byte{{1, 2}},
		ECLevel:           "ECC200",
		ErrorsCorrected:   2,
		StructuredAppend:  &internal.StructuredAppend{Index: 1, Count: 3, ID: 258},
		SymbologyModifier: 2,
	}, nil).Once()

	res, err := f.decode(t)
	require.NoError(t, err)
	assert.Equal(t, 16, res.NumBits)
	assert.Equal(t, "]d2", res.Metadata[dmscan.MetadataSymbologyIdentifier])
	assert.Equal(t, [][]byte{{1, 2}}, res.Metadata[dmscan.MetadataByteSegments])
	assert.Equal(t, "ECC200", res.Metadata[dmscan.MetadataErrorCorrectionLevel])
	assert.Equal(t, 2, res.Metadata[dmscan.MetadataErrorsCorrected])
	assert.Equal(t, 1<<4|3, res.Metadata[dmscan.MetadataStructuredAppendSequence])
	assert.Equal(t, 258, res.Metadata[dmscan.MetadataStructuredAppendParity])
}

func TestReaderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newFixture(t, WithMetrics(metrics.NewRecorder(reg)))
	f.detects(true, true)
	f.decodes(f.primary, "", nil)
	f.decodes(f.backup, "WORLD", nil)
	f.detects(false, true)

	_, err := f.decode(t)
	require.NoError(t, err)
	_, err = f.decode(t)
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "dmscan_decode_total", "dmscan_fallback_total", "dmscan_hypotheses_total")
	require.NoError(t, err)
	// ok and not_found, one fallback, primary true/false and backup true
	assert.Equal(t, 6, n)
}
