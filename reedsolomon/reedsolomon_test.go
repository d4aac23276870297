package reedsolomon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldArithmetic(t *testing.T) {
	f := DataMatrixField256
	assert.Equal(t, 256, f.Size())
	assert.Equal(t, 1, f.GeneratorBase())
	assert.Equal(t, "GF(0x12d,256)", f.String())
	for a := 1; a < f.Size(); a++ {
		assert.Equal(t, 1, f.Multiply(a, f.Inverse(a)), "a=%d", a)
		assert.Equal(t, a, f.Exp(f.Log(a)))
	}
	assert.Equal(t, 0, f.Multiply(0, 17))
	assert.Panics(t, func() { f.Log(0) })
	assert.Panics(t, func() { f.Inverse(0) })
}

func TestEncodeKnownBlock(t *testing.T) {
	// "123456" as ASCII digit pairs in a 10x10 symbol.
	block := []int{142, 164, 186, 0, 0, 0, 0, 0}
	require.NoError(t, NewEncoder(DataMatrixField256).Encode(block, 5))
	assert.Equal(t, []int{142, 164, 186, 114, 25, 5, 88, 102}, block)
}

func TestEncodeRejectsBadSizes(t *testing.T) {
	enc := NewEncoder(DataMatrixField256)
	assert.Error(t, enc.Encode([]int{1, 2, 3}, 0))
	assert.Error(t, enc.Encode([]int{1, 2, 3}, 3))
}

func TestDecodeCorrectsErrors(t *testing.T) {
	const dataSize, ecSize = 10, 8
	block := make([]int, dataSize+ecSize)
	for i := 0; i < dataSize; i++ {
		block[i] = (i*37 + 5) & 0xFF
	}
	require.NoError(t, NewEncoder(DataMatrixField256).Encode(block, ecSize))

	received := append([]int(nil), block...)
	received[0] = 0
	received[3] ^= 0x55
	received[7] = 200
	received[15] ^= 1

	n, err := NewDecoder(DataMatrixField256).Decode(received, ecSize)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, block, received)
}

func TestDecodeCleanBlock(t *testing.T) {
	block := []int{10, 20, 30, 40, 50, 0, 0, 0, 0}
	require.NoError(t, NewEncoder(DataMatrixField256).Encode(block, 4))
	received := append([]int(nil), block...)
	n, err := NewDecoder(DataMatrixField256).Decode(received, 4)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, block, received)
}

func TestDecodeTooManyErrors(t *testing.T) {
	block := make([]int, 12)
	for i := 0; i < 8; i++ {
		block[i] = i + 1
	}
	require.NoError(t, NewEncoder(DataMatrixField256).Encode(block, 4))

	received := append([]int(nil), block...)
	for i := 0; i < 6; i++ {
		received[i] ^= 0xA5
	}
	_, err := NewDecoder(DataMatrixField256).Decode(received, 4)
	if err == nil {
		// miscorrection into another codeword is possible; it must not be the original
		assert.NotEqual(t, block, received)
		return
	}
	assert.ErrorIs(t, err, ErrUncorrectable)
}

func TestGeneratorBaseZeroField(t *testing.T) {
	f := NewField(0x011D, 256, 0)
	block := []int{1, 2, 3, 4, 5, 6, 0, 0, 0, 0, 0, 0}
	require.NoError(t, NewEncoder(f).Encode(block, 6))
	received := append([]int(nil), block...)
	received[1] = 99
	received[10] ^= 7
	n, err := NewDecoder(f).Decode(received, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, block, received)
}
