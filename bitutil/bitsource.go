package bitutil

import (
	"errors"
	"fmt"
)

// ErrBitsExhausted is returned when a read asks for more bits than remain.
var ErrBitsExhausted = errors.New("bitsource: not enough bits")

// BitSource reads big-endian bit fields of arbitrary width from a byte
// slice, most significant bit of the first byte first.
type BitSource struct {
	bytes []byte
	pos   int // absolute bit position
}

// NewBitSource wraps bytes without copying them.
func NewBitSource(bytes []byte) *BitSource {
	return &BitSource{bytes: bytes}
}

// ByteOffset returns the index of the byte holding the next bit.
func (bs *BitSource) ByteOffset() int { return bs.pos / 8 }

// BitOffset returns the index of the next bit within the current byte.
func (bs *BitSource) BitOffset() int { return bs.pos % 8 }

// Available returns the number of unread bits.
func (bs *BitSource) Available() int { return 8*len(bs.bytes) - bs.pos }

// ReadBits consumes numBits (1..32) bits and returns them right-aligned.
func (bs *BitSource) ReadBits(numBits int) (int, error) {
	if numBits < 1 || numBits > 32 {
		return 0, fmt.Errorf("bitsource: cannot read %d bits", numBits)
	}
	if numBits > bs.Available() {
		return 0, fmt.Errorf("%w: want %d, have %d", ErrBitsExhausted, numBits, bs.Available())
	}
	result := 0
	for numBits > 0 {
		// take as many bits as possible from the current byte
		inByte := 8 - bs.BitOffset()
		n := min(inByte, numBits)
		shift := inByte - n
		chunk := (int(bs.bytes[bs.ByteOffset()]) >> uint(shift)) & (1<<uint(n) - 1)
		result = result<<uint(n) | chunk
		bs.pos += n
		numBits -= n
	}
	return result, nil
}

// SkipToByteBoundary advances to the start of the next byte unless already
// aligned.
func (bs *BitSource) SkipToByteBoundary() {
	if r := bs.pos % 8; r != 0 {
		bs.pos += 8 - r
	}
}
