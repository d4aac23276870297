// Package internal holds the value types passed between the Data Matrix
// detector, decoder and reader.
package internal

// StructuredAppend describes a symbol's place in a multi-symbol message.
// Index is zero-based; Count is 0 when unknown.
type StructuredAppend struct {
	Index int
	Count int
	ID    int
}

// DecoderResult is the payload decoded from one module grid.
type DecoderResult struct {
	RawBytes          []byte
	Text              string
	ByteSegments      [][]byte
	ECLevel           string
	ErrorsCorrected   int
	StructuredAppend  *StructuredAppend
	ReaderInit        bool
	SymbologyModifier int
}

// NumBits returns the number of bits in RawBytes.
func (d *DecoderResult) NumBits() int { return 8 * len(d.RawBytes) }

// HasStructuredAppend reports whether the symbol is part of a sequence.
func (d *DecoderResult) HasStructuredAppend() bool { return d.StructuredAppend != nil }
