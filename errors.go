package dmscan

import "errors"

var (
	// ErrNotFound is returned when no symbol is present in the image.
	ErrNotFound = errors.New("barcode not found")

	// ErrChecksum is returned when error correction cannot repair a symbol.
	ErrChecksum = errors.New("checksum error")

	// ErrFormat is returned when a symbol's codewords are structurally invalid.
	ErrFormat = errors.New("format error")

	// ErrWriter is returned when contents cannot be encoded.
	ErrWriter = errors.New("writer error")
)

// Status classifies the outcome of a decode call.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusFormatError
	StatusChecksumError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusFormatError:
		return "format_error"
	case StatusChecksumError:
		return "checksum_error"
	default:
		return "unknown"
	}
}

// StatusOf maps an error returned by a reader onto a Status. Errors that
// wrap none of the sentinels are reported as format errors.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrChecksum):
		return StatusChecksumError
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	default:
		return StatusFormatError
	}
}
