// Package charset maps Extended Channel Interpretation (ECI) designators
// and character set names onto text encodings.
package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// ErrInvalidECI is returned for designators outside 0..999999.
var ErrInvalidECI = errors.New("charset: invalid ECI value")

// ECI is a character set ECI assignment.
type ECI struct {
	Values   []int
	Name     string
	Aliases  []string
	Encoding encoding.Encoding
}

// Value returns the primary designator.
func (e *ECI) Value() int { return e.Values[0] }

var (
	Cp437      = &ECI{[]int{0, 2}, "Cp437", []string{"IBM437"}, charmap.CodePage437}
	ISO8859_1  = &ECI{[]int{1, 3}, "ISO-8859-1", []string{"ISO8859_1", "latin1"}, charmap.ISO8859_1}
	ISO8859_2  = &ECI{[]int{4}, "ISO-8859-2", []string{"ISO8859_2"}, charmap.ISO8859_2}
	ISO8859_3  = &ECI{[]int{5}, "ISO-8859-3", []string{"ISO8859_3"}, charmap.ISO8859_3}
	ISO8859_4  = &ECI{[]int{6}, "ISO-8859-4", []string{"ISO8859_4"}, charmap.ISO8859_4}
	ISO8859_5  = &ECI{[]int{7}, "ISO-8859-5", []string{"ISO8859_5"}, charmap.ISO8859_5}
	ISO8859_6  = &ECI{[]int{8}, "ISO-8859-6", []string{"ISO8859_6"}, charmap.ISO8859_6}
	ISO8859_7  = &ECI{[]int{9}, "ISO-8859-7", []string{"ISO8859_7"}, charmap.ISO8859_7}
	ISO8859_8  = &ECI{[]int{10}, "ISO-8859-8", []string{"ISO8859_8"}, charmap.ISO8859_8}
	ISO8859_9  = &ECI{[]int{11}, "ISO-8859-9", []string{"ISO8859_9"}, charmap.ISO8859_9}
	ISO8859_10 = &ECI{[]int{12}, "ISO-8859-10", []string{"ISO8859_10"}, charmap.ISO8859_10}
	// Windows-874 is a superset of ISO-8859-11.
	ISO8859_11 = &ECI{[]int{13}, "ISO-8859-11", []string{"ISO8859_11"}, charmap.Windows874}
	ISO8859_13 = &ECI{[]int{15}, "ISO-8859-13", []string{"ISO8859_13"}, charmap.ISO8859_13}
	ISO8859_14 = &ECI{[]int{16}, "ISO-8859-14", []string{"ISO8859_14"}, charmap.ISO8859_14}
	ISO8859_15 = &ECI{[]int{17}, "ISO-8859-15", []string{"ISO8859_15"}, charmap.ISO8859_15}
	ISO8859_16 = &ECI{[]int{18}, "ISO-8859-16", []string{"ISO8859_16"}, charmap.ISO8859_16}
	ShiftJIS   = &ECI{[]int{20}, "Shift_JIS", []string{"SJIS"}, japanese.ShiftJIS}
	Cp1250     = &ECI{[]int{21}, "windows-1250", []string{"Cp1250"}, charmap.Windows1250}
	Cp1251     = &ECI{[]int{22}, "windows-1251", []string{"Cp1251"}, charmap.Windows1251}
	Cp1252     = &ECI{[]int{23}, "windows-1252", []string{"Cp1252"}, charmap.Windows1252}
	Cp1256     = &ECI{[]int{24}, "windows-1256", []string{"Cp1256"}, charmap.Windows1256}
	UTF16BE    = &ECI{[]int{25}, "UTF-16BE", []string{"UnicodeBig", "UnicodeBigUnmarked"}, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	UTF8       = &ECI{[]int{26}, "UTF-8", []string{"UTF8"}, unicode.UTF8}
	ASCII      = &ECI{[]int{27, 170}, "US-ASCII", []string{"ASCII"}, charmap.ISO8859_1}
	Big5       = &ECI{[]int{28}, "Big5", nil, traditionalchinese.Big5}
	GB18030    = &ECI{[]int{29}, "GB18030", []string{"GB2312", "EUC_CN", "GBK"}, simplifiedchinese.GB18030}
	EUCKR      = &ECI{[]int{30}, "EUC-KR", []string{"EUC_KR"}, korean.EUCKR}
)

var (
	byValue = map[int]*ECI{}
	byName  = map[string]*ECI{}
)

func init() {
	for _, e := range []*ECI{
		Cp437, ISO8859_1, ISO8859_2, ISO8859_3, ISO8859_4, ISO8859_5, ISO8859_6,
		ISO8859_7, ISO8859_8, ISO8859_9, ISO8859_10, ISO8859_11, ISO8859_13,
		ISO8859_14, ISO8859_15, ISO8859_16, ShiftJIS, Cp1250, Cp1251, Cp1252,
		Cp1256, UTF16BE, UTF8, ASCII, Big5, GB18030, EUCKR,
	} {
		for _, v := range e.Values {
			byValue[v] = e
		}
		byName[strings.ToLower(e.Name)] = e
		for _, a := range e.Aliases {
			byName[strings.ToLower(a)] = e
		}
	}
}

// ByValue returns the character set ECI for a designator. A nil ECI with a
// nil error means the designator is valid but not a character set.
func ByValue(value int) (*ECI, error) {
	if value < 0 || value > 999999 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidECI, value)
	}
	return byValue[value], nil
}

// ByName resolves a character set name, case-insensitively, first against
// the ECI table and then against the IANA registry. It returns nil for
// unknown names.
func ByName(name string) *ECI {
	if name == "" {
		return nil
	}
	if e, ok := byName[strings.ToLower(name)]; ok {
		return e
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	if e, ok := byName[strings.ToLower(canonical)]; ok {
		return e
	}
	return &ECI{Values: []int{-1}, Name: canonical, Encoding: enc}
}
