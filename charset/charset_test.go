package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByValue(t *testing.T) {
	for value, want := range map[int]*ECI{
		0: Cp437, 2: Cp437, 3: ISO8859_1, 20: ShiftJIS, 26: UTF8, 170: ASCII,
	} {
		got, err := ByValue(value)
		require.NoError(t, err)
		assert.Same(t, want, got, "value %d", value)
	}

	got, err := ByValue(899)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ByValue(-1)
	assert.ErrorIs(t, err, ErrInvalidECI)
	_, err = ByValue(1000000)
	assert.ErrorIs(t, err, ErrInvalidECI)
}

func TestByName(t *testing.T) {
	assert.Same(t, ShiftJIS, ByName("sjis"))
	assert.Same(t, UTF8, ByName("UTF-8"))
	assert.Same(t, GB18030, ByName("GBK"))
	assert.Nil(t, ByName(""))
	assert.Nil(t, ByName("no-such-charset"))

	koi := ByName("KOI8-R")
	require.NotNil(t, koi)
	assert.Equal(t, "KOI8-R", koi.Name)
}

func TestTextBuilderDefaults(t *testing.T) {
	b := NewTextBuilder("")
	b.AppendBytes([]byte{'A', 0xE9})
	assert.Equal(t, "Aé", b.String())
	assert.False(t, b.HasECI())
	assert.Equal(t, 2, b.Len())

	utf := NewTextBuilder("")
	utf.AppendString("é")
	assert.Equal(t, "é", utf.String())
}

func TestTextBuilderHint(t *testing.T) {
	b := NewTextBuilder("Shift_JIS")
	b.AppendBytes([]byte{0x93, 0xfa, 0x96, 0x7b})
	assert.Equal(t, "日本", b.String())

	unknown := NewTextBuilder("nonsense")
	unknown.AppendByte(0xC4)
	assert.Equal(t, "Ä", unknown.String())
}

func TestTextBuilderSwitchECI(t *testing.T) {
	b := NewTextBuilder("")
	b.AppendByte('a')
	require.NoError(t, b.SwitchECI(7)) // ISO-8859-5
	b.AppendByte(0xB0)
	require.NoError(t, b.SwitchECI(26))
	b.AppendString("ü")
	require.NoError(t, b.SwitchECI(899)) // not a character set, UTF-8 stays
	b.AppendString("ß")

	assert.True(t, b.HasECI())
	assert.Equal(t, "aАüß", b.String())
	assert.Equal(t, []byte{'a', 0xB0, 0xC3, 0xBC, 0xC3, 0x9F}, b.Bytes())

	assert.Error(t, b.SwitchECI(-5))
}
