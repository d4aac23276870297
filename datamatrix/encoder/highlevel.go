package encoder

// ASCII mode codewords.
const (
	asciiPad        = 129
	asciiUpperShift = 235
	latchToC40      = 230
	unlatchASCII    = 254 // from C40, Text and X12
)

// minC40Run is the shortest run of basic C40 characters worth latching
// for: the latch and unlatch cost two codewords.
const minC40Run = 6

// EncodeHighLevel converts msg into data codewords. Runs of digits, upper
// case letters and spaces are packed in C40 when that is shorter than
// ASCII with digit pairs.
func EncodeHighLevel(msg string) []byte {
	data := []byte(msg)
	ascii := encodeASCII(data, false)
	if c40 := encodeASCII(data, true); len(c40) < len(ascii) {
		return c40
	}
	return ascii
}

// encodeASCII encodes data in ASCII mode, switching to C40 for long basic
// runs when withC40 is set.
func encodeASCII(data []byte, withC40 bool) []byte {
	out := make([]byte, 0, len(data)+2)
	for i := 0; i < len(data); {
		if withC40 {
			if n := basicC40Run(data[i:]); n >= minC40Run {
				packed := n - n%3
				out = appendC40(out, data[i:i+packed])
				i += packed
				continue
			}
		}

		c := data[i]
		switch {
		case isDigit(c) && i+1 < len(data) && isDigit(data[i+1]):
			out = append(out, byte(int(c-'0')*10+int(data[i+1]-'0')+130))
			i += 2
			continue
		case c < 128:
			out = append(out, c+1)
		default:
			out = append(out, asciiUpperShift, c-128+1)
		}
		i++
	}
	return out
}

// appendC40 latches to C40, packs run (a multiple of three basic
// characters) and unlatches.
func appendC40(out, run []byte) []byte {
	out = append(out, latchToC40)
	for k := 0; k+3 <= len(run); k += 3 {
		v := 1600*c40Value(run[k]) + 40*c40Value(run[k+1]) + c40Value(run[k+2]) + 1
		out = append(out, byte(v>>8), byte(v))
	}
	return append(out, unlatchASCII)
}

func basicC40Run(data []byte) int {
	n := 0
	for n < len(data) && isBasicC40(data[n]) {
		n++
	}
	return n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isBasicC40(b byte) bool {
	return b == ' ' || isDigit(b) || (b >= 'A' && b <= 'Z')
}

func c40Value(b byte) int {
	switch {
	case b == ' ':
		return 3
	case isDigit(b):
		return int(b-'0') + 4
	default:
		return int(b-'A') + 14
	}
}

// randomize253State returns the pad codeword for a 1-based codeword
// position.
func randomize253State(position int) byte {
	v := asciiPad + ((149*position)%253 + 1)
	if v > 254 {
		v -= 254
	}
	return byte(v)
}

// PadCodewords fills codewords up to capacity: one plain pad codeword, then
// randomised pads.
func PadCodewords(codewords []byte, capacity int) []byte {
	if len(codewords) >= capacity {
		return codewords
	}
	out := make([]byte, capacity)
	copy(out, codewords)
	out[len(codewords)] = asciiPad
	for i := len(codewords) + 1; i < capacity; i++ {
		out[i] = randomize253State(i + 1)
	}
	return out
}
