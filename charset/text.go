package charset

import (
	"strings"
	"unicode/utf8"
)

type segment struct {
	eci   *ECI // nil until an ECI designator is seen
	bytes []byte
}

// TextBuilder collects decoded bytes and the ECI designators interleaved
// with them, and renders the whole as UTF-8.
//
// Bytes that precede any ECI are interpreted with the fallback character
// set: the hint when given, otherwise UTF-8 if they form multi-byte UTF-8
// sequences, otherwise ISO-8859-1.
type TextBuilder struct {
	hint     *ECI
	segments []segment
	hasECI   bool
}

// NewTextBuilder creates a builder; characterSet may be empty or unknown.
func NewTextBuilder(characterSet string) *TextBuilder {
	return &TextBuilder{hint: ByName(characterSet), segments: []segment{{}}}
}

func (b *TextBuilder) cur() *segment { return &b.segments[len(b.segments)-1] }

// AppendByte appends one raw byte in the current character set.
func (b *TextBuilder) AppendByte(c byte) {
	s := b.cur()
	s.bytes = append(s.bytes, c)
}

// AppendBytes appends raw bytes in the current character set.
func (b *TextBuilder) AppendBytes(p []byte) {
	s := b.cur()
	s.bytes = append(s.bytes, p...)
}

// AppendString appends ASCII text such as macro headers.
func (b *TextBuilder) AppendString(str string) {
	b.AppendBytes([]byte(str))
}

// SwitchECI makes subsequent bytes use designator value. Designators that
// are not character sets leave the current interpretation unchanged.
func (b *TextBuilder) SwitchECI(value int) error {
	e, err := ByValue(value)
	if err != nil {
		return err
	}
	b.hasECI = true
	if e == nil {
		e = b.cur().eci
	}
	b.segments = append(b.segments, segment{eci: e})
	return nil
}

// HasECI reports whether any ECI designator was seen.
func (b *TextBuilder) HasECI() bool { return b.hasECI }

// Len returns the number of raw bytes collected.
func (b *TextBuilder) Len() int {
	n := 0
	for _, s := range b.segments {
		n += len(s.bytes)
	}
	return n
}

// Bytes returns all raw bytes collected.
func (b *TextBuilder) Bytes() []byte {
	out := make([]byte, 0, b.Len())
	for _, s := range b.segments {
		out = append(out, s.bytes...)
	}
	return out
}

// String renders the collected bytes as UTF-8.
func (b *TextBuilder) String() string {
	var sb strings.Builder
	for _, s := range b.segments {
		if len(s.bytes) == 0 {
			continue
		}
		e := s.eci
		if e == nil {
			e = b.fallback(s.bytes)
		}
		sb.WriteString(Decode(s.bytes, e))
	}
	return sb.String()
}

func (b *TextBuilder) fallback(p []byte) *ECI {
	if b.hint != nil {
		return b.hint
	}
	if utf8.Valid(p) && !isASCII(p) {
		return UTF8
	}
	return ISO8859_1
}

// Decode converts p from e's encoding to UTF-8, falling back to
// ISO-8859-1 if p is not valid in e.
func Decode(p []byte, e *ECI) string {
	if e == nil || e.Encoding == nil {
		e = ISO8859_1
	}
	out, err := e.Encoding.NewDecoder().Bytes(p)
	if err != nil {
		out, _ = ISO8859_1.Encoding.NewDecoder().Bytes(p)
	}
	return string(out)
}

func isASCII(p []byte) bool {
	for _, c := range p {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
