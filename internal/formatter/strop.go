package formatter

import (
	"strings"

	"github.com/retroenv/asmgen/internal/charenc"
)

// RawDataStyle defines how bytes without printable representation are
// written inside of a string operand.
type RawDataStyle uint8

// raw data styles.
const (
	CommaSeparated RawDataStyle = iota // $0d,$0a
	DenseHex                           // 0D0A
)

// FeedMode defines how the bytes of a string are fed into the formatter.
type FeedMode uint8

// feed modes.
const (
	FeedNormal  FeedMode = iota
	FeedReverse          // bytes are stored in reverse order
	FeedDci              // the high bit of the last byte is inverted
)

// StringOpFormatter converts byte runs into string operands, splitting them
// into multiple lines that do not exceed the maximum operand length.
type StringOpFormatter struct {
	f      *Formatter
	delim  Delimiter
	style  RawDataStyle
	conv   charenc.Converter
	escape byte // 0 if the assembler has no escape character

	// Lines contains the operands after Finish.
	Lines []string
	// HasEscapedText is set when a character was written with an escape
	// sequence.
	HasEscapedText bool
	// HasRawBytes is set when at least one byte was written as hex value.
	HasRawBytes bool

	buf     strings.Builder
	inQuote bool
	lastRaw bool
}

// NewStringOpFormatter returns a string operand formatter.
func NewStringOpFormatter(f *Formatter, delim Delimiter, style RawDataStyle, conv charenc.Converter) *StringOpFormatter {
	return &StringOpFormatter{
		f:     f,
		delim: delim,
		style: style,
		conv:  conv,
	}
}

// SetEscapeChar sets the character that escapes quotes and itself.
func (s *StringOpFormatter) SetEscapeChar(escape byte) {
	s.escape = escape
}

// Reset clears the state for formatting a new string.
func (s *StringOpFormatter) Reset() {
	s.Lines = nil
	s.HasEscapedText = false
	s.HasRawBytes = false
	s.buf.Reset()
	s.inQuote = false
	s.lastRaw = false
}

// FeedBytes adds the bytes of a string. The first leadingBytes bytes are
// always written as hex values, this is used for length prefixes.
func (s *StringOpFormatter) FeedBytes(data []byte, offset, length, leadingBytes int, mode FeedMode) {
	for i := range leadingBytes {
		s.AddRaw(data[offset+i])
	}

	start := offset + leadingBytes
	end := offset + length
	switch mode {
	case FeedReverse:
		for i := end - 1; i >= start; i-- {
			s.AddChar(data[i])
		}
	case FeedDci:
		for i := start; i < end-1; i++ {
			s.AddChar(data[i])
		}
		if end > start {
			last := data[end-1]
			if s.printable(last ^ 0x80) {
				s.AddChar(last ^ 0x80)
			} else {
				s.AddRaw(last)
			}
		}
	default:
		for i := start; i < end; i++ {
			s.AddChar(data[i])
		}
	}
}

// AddChar adds a byte as character if it is printable, otherwise as hex.
func (s *StringOpFormatter) AddChar(b byte) {
	ch := s.conv(b)
	if ch == charenc.NoChar {
		s.AddRaw(b)
		return
	}

	text := string(ch)
	if text == s.delim.OpenQuote || text == s.delim.CloseQuote || (s.escape != 0 && ch == rune(s.escape)) {
		if s.escape == 0 {
			s.AddRaw(b)
			return
		}
		text = string(rune(s.escape)) + text
		s.HasEscapedText = true
	}
	s.addText(text)
}

// AddRaw adds a byte as hex value.
func (s *StringOpFormatter) AddRaw(b byte) {
	s.HasRawBytes = true

	var value string
	if s.style == DenseHex {
		value = s.f.FormatHexDigits(int(b), 2)
	} else {
		value = s.f.FormatHexValue(int(b), 2)
	}

	prefix := ""
	switch {
	case s.inQuote:
		prefix = s.delim.CloseQuote + ","
	case s.buf.Len() > 0 && !(s.style == DenseHex && s.lastRaw):
		prefix = ","
	}

	if s.buf.Len() > 0 && s.buf.Len()+len(prefix)+len(value) > s.f.cfg.MaxOperandLen {
		s.flush()
		prefix = ""
	}

	s.buf.WriteString(prefix)
	s.buf.WriteString(value)
	s.inQuote = false
	s.lastRaw = true
}

// Finish completes the last line. An empty string results in a single pair
// of quotes.
func (s *StringOpFormatter) Finish() {
	if s.buf.Len() > 0 {
		s.flush()
	}
	if len(s.Lines) == 0 {
		s.Lines = append(s.Lines, s.delim.OpenQuote+s.delim.CloseQuote)
	}
}

func (s *StringOpFormatter) addText(text string) {
	add := text
	if !s.inQuote {
		add = s.delim.OpenQuote + text
		if s.buf.Len() > 0 {
			add = "," + add
		}
	}

	if s.buf.Len() > 0 && s.buf.Len()+len(add)+len(s.delim.CloseQuote) > s.f.cfg.MaxOperandLen {
		s.flush()
		add = s.delim.OpenQuote + text
	}

	s.buf.WriteString(add)
	s.inQuote = true
	s.lastRaw = false
}

func (s *StringOpFormatter) flush() {
	if s.inQuote {
		s.buf.WriteString(s.delim.CloseQuote)
	}
	s.Lines = append(s.Lines, s.buf.String())
	s.buf.Reset()
	s.inQuote = false
	s.lastRaw = false
}

func (s *StringOpFormatter) printable(b byte) bool {
	ch := s.conv(b)
	if ch == charenc.NoChar {
		return false
	}
	text := string(ch)
	return s.escape != 0 || (text != s.delim.OpenQuote && text != s.delim.CloseQuote)
}
