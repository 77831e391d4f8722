package normalize

import "github.com/ovtok/tokenizers/ragged"

// leadClass classifies a byte expected to start a new UTF-8 sequence:
// 0 = invalid, 1/2/3/4 = that many total bytes in the sequence.
func leadClass(b byte) (length int, minCodepoint rune) {
	switch {
	case b < 0x80:
		return 1, 0
	case b&0xE0 == 0xC0:
		return 2, 0x80
	case b&0xF0 == 0xE0:
		return 3, 0x800
	case b&0xF8 == 0xF0:
		return 4, 0x10000
	default:
		return 0, 0
	}
}

func leadPayload(b byte, length int) rune {
	switch length {
	case 1:
		return rune(b)
	case 2:
		return rune(b & 0x1F)
	case 3:
		return rune(b & 0x0F)
	case 4:
		return rune(b & 0x07)
	}
	return 0
}

// UTF8Validate scans data for malformed UTF-8. In replace mode each
// invalid byte sequence is replaced with U+FFFD (EF BF BD); in skip mode
// it is dropped.
func UTF8Validate(data []byte, replace bool) []byte {
	out := make([]byte, 0, len(data)*3)

	var pending int
	var need int
	var cp rune
	var seqStart int

	flushInvalid := func() {
		if replace {
			out = append(out, 0xEF, 0xBF, 0xBD)
		}
	}

	i := 0
	for i < len(data) {
		b := data[i]

		if need == 0 {
			length, minCP := leadClass(b)
			if length == 0 {
				flushInvalid()
				i++
				continue
			}
			if length == 1 {
				out = append(out, b)
				i++
				continue
			}

			need = length - 1
			pending = length - 1
			cp = leadPayload(b, length)
			seqStart = i
			_ = minCP
			i++
			continue
		}

		if b&0xC0 != 0x80 {
			// Continuation expected but not found: rewind and treat the
			// offending byte as a fresh leading byte.
			flushInvalid()
			need = 0
			pending = 0
			i = seqStart + 1
			continue
		}

		cp = (cp << 6) | rune(b&0x3F)
		need--
		i++

		if need == 0 {
			_, minCP := leadClass(data[seqStart])
			length := pending + 1
			if cp < minCP || (length == 4 && cp > 0x10FFFF) || (cp >= 0xD800 && cp <= 0xDFFF) {
				flushInvalid()
			} else {
				out = append(out, data[seqStart:seqStart+length]...)
			}
		}
	}

	if need != 0 {
		// Truncated multi-byte sequence at end of input.
		flushInvalid()
	}

	return out
}

// UTF8ValidateStrings applies UTF8Validate to every element of in.
func UTF8ValidateStrings(in ragged.Strings, replace bool) ragged.Strings {
	var b ragged.Builder
	for j := 0; j < in.Len(); j++ {
		if in.Skip(j) {
			b.Add(in.Get(j), true)
			continue
		}
		b.Add(UTF8Validate(in.Get(j), replace), false)
	}
	return b.Build()
}
