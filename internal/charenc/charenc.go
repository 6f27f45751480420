// Package charenc converts bytes of the character encodings used by 6502
// systems to printable characters.
package charenc

import "fmt"

// Encoding is a character encoding of string data.
type Encoding uint8

// supported encodings.
const (
	Unknown Encoding = iota
	ASCII
	HighASCII // ASCII with the high bit set, used by the Apple II
	C64Petscii
	C64ScreenCode
)

// NoChar is returned by a Converter for bytes that have no printable
// representation.
const NoChar rune = -1

// Converter maps a byte to a printable character or NoChar.
type Converter func(b byte) rune

var encodingNames = map[Encoding]string{
	ASCII:         "ascii",
	HighASCII:     "high-ascii",
	C64Petscii:    "c64-petscii",
	C64ScreenCode: "c64-screen",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(e))
}

// Converter returns the conversion function of the encoding.
func (e Encoding) Converter() Converter {
	switch e {
	case ASCII:
		return ConvASCII
	case HighASCII:
		return ConvHighASCII
	case C64Petscii:
		return ConvPetscii
	case C64ScreenCode:
		return ConvScreenCode
	default:
		return func(byte) rune { return NoChar }
	}
}

// IsPrintable returns whether the byte has a printable representation in the
// encoding.
func (e Encoding) IsPrintable(b byte) bool {
	return e.Converter()(b) != NoChar
}

// ConvASCII converts plain printable ASCII.
func ConvASCII(b byte) rune {
	if b >= 0x20 && b < 0x7f {
		return rune(b)
	}
	return NoChar
}

// ConvHighASCII converts printable ASCII with the high bit set.
func ConvHighASCII(b byte) rune {
	if b >= 0xa0 && b < 0xff {
		return rune(b & 0x7f)
	}
	return NoChar
}

// ConvPetscii converts C64 PETSCII in the lower case character set. Unshifted
// letters map to lower case, shifted letters to upper case.
func ConvPetscii(b byte) rune {
	switch {
	case b >= 0x20 && b <= 0x40:
		return rune(b)
	case b >= 0x41 && b <= 0x5a:
		return rune(b - 0x41 + 'a')
	case b == 0x5b || b == 0x5d:
		return rune(b)
	case b >= 0xc1 && b <= 0xda:
		return rune(b - 0xc1 + 'A')
	default:
		return NoChar
	}
}

// ConvScreenCode converts C64 screen codes in the lower case character set.
func ConvScreenCode(b byte) rune {
	switch {
	case b == 0x00:
		return '@'
	case b >= 0x01 && b <= 0x1a:
		return rune(b - 0x01 + 'a')
	case b == 0x1b:
		return '['
	case b == 0x1d:
		return ']'
	case b >= 0x20 && b <= 0x3f:
		return rune(b)
	case b >= 0x41 && b <= 0x5a:
		return rune(b - 0x41 + 'A')
	default:
		return NoChar
	}
}
