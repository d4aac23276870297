package decoder

import (
	"errors"
	"fmt"

	"github.com/ericlevine/dmscan"
	"github.com/ericlevine/dmscan/bitutil"
	"github.com/ericlevine/dmscan/charset"
	"github.com/ericlevine/dmscan/internal"
)

// Data Matrix encodation modes.
type mode int

const (
	modePad mode = iota // padding reached, stop
	modeASCII
	modeC40
	modeText
	modeX12
	modeEDIFACT
	modeBase256
	modeECI
)

const gs = 0x1D

var (
	c40BasicSet  = []byte("*** 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	textBasicSet = []byte("*** 0123456789abcdefghijklmnopqrstuvwxyz")
	// Shift 2 values 27 (FNC1) and 30 (Upper Shift) are handled in code.
	shift2Set     = []byte("!\"#$%&'()*+,-./:;<=>?@[\\]^_")
	textShift3Set = []byte("`ABCDEFGHIJKLMNOPQRSTUVWXYZ{|}~\x7f")
)

func errFormat(format string, args ...interface{}) error {
	return fmt.Errorf("datamatrix/decoder: "+format+": %w", append(args, dmscan.ErrFormat)...)
}

// parser holds the state of one pass over the data codewords.
type parser struct {
	bits     *bitutil.BitSource
	text     *charset.TextBuilder
	trailer  string
	segments [][]byte
	fnc1     []int // text offsets of FNC1 characters
	sa       *internal.StructuredAppend
	init     bool
}

// parse decodes the error-corrected data codewords of a symbol.
func parse(data []byte, characterSet string) (*internal.DecoderResult, error) {
	p := &parser{
		bits: bitutil.NewBitSource(data),
		text: charset.NewTextBuilder(characterSet),
	}
	if err := p.run(); err != nil {
		if errors.Is(err, bitutil.ErrBitsExhausted) {
			return nil, fmt.Errorf("datamatrix/decoder: truncated data: %w: %v", dmscan.ErrFormat, err)
		}
		return nil, err
	}
	p.text.AppendString(p.trailer)

	return &internal.DecoderResult{
		RawBytes:          data,
		Text:              p.text.String(),
		ByteSegments:      p.segments,
		StructuredAppend:  p.sa,
		ReaderInit:        p.init,
		SymbologyModifier: p.symbologyModifier(),
	}, nil
}

func (p *parser) run() error {
	m := modeASCII
	for m != modePad && p.bits.Available() > 0 {
		var err error
		switch m {
		case modeASCII:
			m, err = p.decodeASCII()
		case modeC40:
			err = p.decodeC40Text(false)
			m = modeASCII
		case modeText:
			err = p.decodeC40Text(true)
			m = modeASCII
		case modeX12:
			err = p.decodeAnsiX12()
			m = modeASCII
		case modeEDIFACT:
			err = p.decodeEdifact()
			m = modeASCII
		case modeBase256:
			err = p.decodeBase256()
			m = modeASCII
		case modeECI:
			err = p.decodeECI()
			m = modeASCII
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// symbologyModifier returns the AIM modifier: 2 for FNC1 in first position
// (GS1), 3 for FNC1 in second position, 1 otherwise, plus 3 with ECI.
func (p *parser) symbologyModifier() int {
	mod := 1
	for _, pos := range p.fnc1 {
		if pos == 0 || pos == 4 {
			mod = 2
			break
		}
		if pos == 1 || pos == 5 {
			mod = 3
		}
	}
	if p.text.HasECI() {
		mod += 3
	}
	return mod
}

func (p *parser) readByte() (int, error) {
	return p.bits.ReadBits(8)
}

func (p *parser) appendFNC1() {
	p.fnc1 = append(p.fnc1, p.text.Len())
	p.text.AppendByte(gs)
}

// decodeASCII processes codewords in ASCII mode until a latch, a pad or the
// end of data.
func (p *parser) decodeASCII() (mode, error) {
	upperShift := false
	for p.bits.Available() > 0 {
		first := p.bits.ByteOffset() == 0
		b, err := p.readByte()
		if err != nil {
			return modePad, err
		}

		switch {
		case b == 0:
			return modePad, errFormat("ASCII codeword 0")
		case b <= 128:
			if upperShift {
				b += 128
			}
			p.text.AppendByte(byte(b - 1))
			return modeASCII, nil
		case b == 129:
			return modePad, nil
		case b <= 229:
			pair := b - 130
			p.text.AppendByte(byte('0' + pair/10))
			p.text.AppendByte(byte('0' + pair%10))
		case b == 230:
			return modeC40, nil
		case b == 231:
			return modeBase256, nil
		case b == 232:
			p.appendFNC1()
		case b == 233:
			if !first {
				return modePad, errFormat("structured append not in first position")
			}
			if err := p.decodeStructuredAppend(); err != nil {
				return modePad, err
			}
		case b == 234:
			if !first {
				return modePad, errFormat("reader programming not in first position")
			}
			p.init = true
		case b == 235:
			upperShift = true
		case b == 236:
			p.text.AppendString("[)>\x1E05\x1D")
			p.trailer = "\x1E\x04" + p.trailer
		case b == 237:
			p.text.AppendString("[)>\x1E06\x1D")
			p.trailer = "\x1E\x04" + p.trailer
		case b == 238:
			return modeX12, nil
		case b == 239:
			return modeText, nil
		case b == 240:
			return modeEDIFACT, nil
		case b == 241:
			return modeECI, nil
		case b == 254 && p.bits.Available() == 0:
			// some encoders end with an unlatch
		default:
			return modePad, errFormat("ASCII codeword %d", b)
		}
	}
	return modeASCII, nil
}

func (p *parser) decodeStructuredAppend() error {
	ssi, err := p.readByte()
	if err != nil {
		return err
	}
	fid1, err := p.readByte()
	if err != nil {
		return err
	}
	fid2, err := p.readByte()
	if err != nil {
		return err
	}
	sa := &internal.StructuredAppend{
		Index: ssi >> 4,
		Count: 17 - (ssi & 0x0F),
		ID:    fid1<<8 | fid2,
	}
	if sa.Count == 17 || sa.Count <= sa.Index {
		sa.Count = 0
	}
	p.sa = sa
	return nil
}

// readTriple reads one codeword pair of C40, Text or X12 data. ok is false
// when the segment ends: a single codeword left (encoded as ASCII) or the
// unlatch codeword.
func (p *parser) readTriple() (values [3]int, ok bool, err error) {
	if p.bits.Available() == 8 {
		return values, false, nil
	}
	b1, err := p.readByte()
	if err != nil || b1 == 254 {
		return values, false, err
	}
	b2, err := p.readByte()
	if err != nil {
		return values, false, err
	}
	v := b1<<8 + b2 - 1
	values[0] = v / 1600
	v %= 1600
	values[1] = v / 40
	values[2] = v % 40
	return values, true, nil
}

// decodeC40Text decodes C40 or, with textMode, Text encodation. The basic
// sets differ in letter case; shift 3 differs entirely.
func (p *parser) decodeC40Text(textMode bool) error {
	basic := c40BasicSet
	if textMode {
		basic = textBasicSet
	}
	upperShift := false
	emit := func(c int) {
		if upperShift {
			c += 128
			upperShift = false
		}
		p.text.AppendByte(byte(c))
	}

	shift := 0
	for p.bits.Available() > 0 {
		values, ok, err := p.readTriple()
		if err != nil || !ok {
			return err
		}
		for _, v := range values {
			switch shift {
			case 0:
				if v < 3 {
					shift = v + 1
					continue
				}
				emit(int(basic[v]))
			case 1:
				emit(v)
			case 2:
				switch {
				case v < len(shift2Set):
					emit(int(shift2Set[v]))
				case v == 27:
					p.appendFNC1()
				case v == 30:
					upperShift = true
				default:
					return errFormat("shift 2 value %d", v)
				}
			case 3:
				if !textMode {
					emit(v + 96)
				} else if v < len(textShift3Set) {
					emit(int(textShift3Set[v]))
				} else {
					return errFormat("text shift 3 value %d", v)
				}
			}
			shift = 0
		}
	}
	return nil
}

// decodeAnsiX12 decodes ANSI X12 data: CR, '*', '>', space, digits and
// upper-case letters.
func (p *parser) decodeAnsiX12() error {
	for p.bits.Available() > 0 {
		values, ok, err := p.readTriple()
		if err != nil || !ok {
			return err
		}
		for _, v := range values {
			switch {
			case v == 0:
				p.text.AppendByte('\r')
			case v == 1:
				p.text.AppendByte('*')
			case v == 2:
				p.text.AppendByte('>')
			case v == 3:
				p.text.AppendByte(' ')
			case v < 14:
				p.text.AppendByte(byte(v + 44))
			case v < 40:
				p.text.AppendByte(byte(v + 51))
			default:
				return errFormat("X12 value %d", v)
			}
		}
	}
	return nil
}

// decodeEdifact unpacks four 6-bit values per three codewords. Two or fewer
// trailing codewords are ASCII.
func (p *parser) decodeEdifact() error {
	for p.bits.Available() > 16 {
		for i := 0; i < 4; i++ {
			v, err := p.bits.ReadBits(6)
			if err != nil {
				return err
			}
			if v == 0x1F {
				p.bits.SkipToByteBoundary()
				return nil
			}
			if v&0x20 == 0 {
				v |= 0x40
			}
			p.text.AppendByte(byte(v))
		}
	}
	return nil
}

// decodeBase256 decodes a length-prefixed run of randomised bytes and
// records it as a byte segment.
func (p *parser) decodeBase256() error {
	// codeword positions are 1-based
	pos := p.bits.ByteOffset() + 1
	b, err := p.readByte()
	if err != nil {
		return err
	}
	d1 := unRandomize255State(b, pos)
	pos++

	var count int
	switch {
	case d1 == 0:
		count = p.bits.Available() / 8
	case d1 < 250:
		count = d1
	default:
		b, err := p.readByte()
		if err != nil {
			return err
		}
		count = 250*(d1-249) + unRandomize255State(b, pos)
		pos++
	}

	if count*8 > p.bits.Available() {
		return errFormat("base 256 run of %d bytes exceeds data", count)
	}
	out := make([]byte, count)
	for i := range out {
		b, err := p.readByte()
		if err != nil {
			return err
		}
		out[i] = byte(unRandomize255State(b, pos))
		pos++
	}
	p.segments = append(p.segments, out)
	p.text.AppendBytes(out)
	return nil
}

// decodeECI reads a one to three codeword ECI designator.
func (p *parser) decodeECI() error {
	c1, err := p.readByte()
	if err != nil {
		return err
	}
	var value int
	if c1 <= 127 {
		value = c1 - 1
	} else {
		c2, err := p.readByte()
		if err != nil {
			return err
		}
		if c1 <= 191 {
			value = (c1-128)*254 + 127 + c2 - 1
		} else {
			c3, err := p.readByte()
			if err != nil {
				return err
			}
			value = (c1-192)*64516 + 16383 + (c2-1)*254 + c3 - 1
		}
	}
	if err := p.text.SwitchECI(value); err != nil {
		return fmt.Errorf("datamatrix/decoder: %w: %v", dmscan.ErrFormat, err)
	}
	return nil
}

// unRandomize255State removes the 255-state pseudo-random masking used in
// Base 256 mode.
func unRandomize255State(randomized, codewordPosition int) int {
	pseudoRandom := ((149 * codewordPosition) % 255) + 1
	v := randomized - pseudoRandom
	if v >= 0 {
		return v
	}
	return v + 256
}
