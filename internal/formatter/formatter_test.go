package formatter

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/retroenv/asmgen/internal/charenc"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/retrogolib/assert"
)

func TestFormatHexValue(t *testing.T) {
	f := New(DefaultConfig())
	assert.Equal(t, "$0a", f.FormatHexValue(10, 2))
	assert.Equal(t, "$00ff", f.FormatHexValue(0xff, 4))
	assert.Equal(t, "$123456", f.FormatHexValue(0x123456, 6))

	cfg := DefaultConfig()
	cfg.UpperHexDigits = true
	f = New(cfg)
	assert.Equal(t, "$0A", f.FormatHexValue(10, 2))
	assert.Equal(t, "$1000", f.FormatAddress(0x1000))
	assert.Equal(t, "$012345", f.FormatAddress(0x12345))
}

func TestFormatHexValuePanics(t *testing.T) {
	f := New(DefaultConfig())
	assert.True(t, panics(func() { f.FormatHexValue(0x100, 2) }))
	assert.True(t, panics(func() { f.FormatHexValue(-1, 2) }))
	assert.True(t, panics(func() { f.FormatBinaryValue(0x100, 8) }))
	assert.False(t, panics(func() { f.FormatHexValue(0xffffffff, 8) }))
}

func TestFormatRoundTrip(t *testing.T) {
	f := New(DefaultConfig())
	rnd := rand.New(rand.NewSource(1))

	for width := 1; width <= 4; width++ {
		maxValue := 1<<(8*width) - 1
		values := []int{0, 1, maxValue, maxValue / 2}
		for range 50 {
			values = append(values, rnd.Intn(maxValue+1))
		}

		for _, value := range values {
			hex := f.FormatHexValue(value, width*2)
			parsed, err := strconv.ParseInt(hex[1:], 16, 64)
			assert.NoError(t, err)
			assert.Equal(t, int64(value), parsed)

			bin := f.FormatBinaryValue(value, width*8)
			assert.Equal(t, 1+width*8, len(bin))
			parsed, err = strconv.ParseInt(bin[1:], 2, 64)
			assert.NoError(t, err)
			assert.Equal(t, int64(value), parsed)

			dec := f.FormatDecimalValue(value)
			parsed, err = strconv.ParseInt(dec, 10, 64)
			assert.NoError(t, err)
			assert.Equal(t, int64(value), parsed)
		}
	}
}

func TestFormatCharOrHex(t *testing.T) {
	f := New(DefaultConfig())

	tests := []struct {
		name     string
		value    int
		enc      charenc.Encoding
		expected string
	}{
		{name: "ascii", value: 'A', enc: charenc.ASCII, expected: "'A'"},
		{name: "high ascii", value: 0xc1, enc: charenc.HighASCII, expected: "'A' | $80"},
		{name: "control", value: 0x0d, enc: charenc.ASCII, expected: "$0d"},
		{name: "quote", value: '\'', enc: charenc.ASCII, expected: "$27"},
		{name: "no delimiter", value: 0x41, enc: charenc.C64Petscii, expected: "$41"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.FormatCharOrHex(tt.value, tt.enc))
		})
	}
}

func TestFormatAdjustment(t *testing.T) {
	f := New(DefaultConfig())
	assert.Equal(t, "", f.FormatAdjustment(0))
	assert.Equal(t, "+1", f.FormatAdjustment(1))
	assert.Equal(t, "-255", f.FormatAdjustment(-255))
	assert.Equal(t, "+$0100", f.FormatAdjustment(256))
	assert.Equal(t, "-$010000", f.FormatAdjustment(-0x10000))
}

func TestFormatMnemonic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForceAbsOpcodeSuffix = "+2"
	cfg.ForceLongOpcodeSuffix = "+3"
	cfg.ForceAbsOperandPrefix = "a:"
	f := New(cfg)

	assert.Equal(t, "lda", f.FormatMnemonic("LDA", cpudef.WidthNone))
	assert.Equal(t, "lda+2", f.FormatMnemonic("LDA", cpudef.ForceAbs))
	assert.Equal(t, "lda+3", f.FormatMnemonic("LDA", cpudef.ForceLongMaybe))
	assert.Equal(t, "a:", f.FormatWidthPrefix(cpudef.ForceAbs))
	assert.Equal(t, "", f.FormatWidthPrefix(cpudef.ForceLong))

	cfg.UpperOpcodes = true
	cfg.UpperPseudoOps = true
	f = New(cfg)
	assert.Equal(t, "LDA", f.FormatMnemonic("lda", cpudef.WidthNone))
	assert.Equal(t, "ORG", f.FormatPseudoOp("org"))
}

func TestFormatComments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FullLineCommentDelimiter = "*"
	f := New(cfg)

	assert.Equal(t, "; text", f.FormatEolComment("text"))
	assert.Equal(t, "", f.FormatEolComment(""))
	assert.Equal(t, "* text", f.FormatFullLineComment("text"))
	assert.Equal(t, "*", f.FormatFullLineComment(""))
}

func TestFormatHexData(t *testing.T) {
	f := New(DefaultConfig())
	assert.Equal(t, "00ab7f", f.FormatDenseHex([]byte{0x00, 0xab, 0x7f}))
	assert.Equal(t, "$00,$ab,$7f", f.FormatByteList([]byte{0x00, 0xab, 0x7f}))
}

func panics(fn func()) (panicked bool) {
	defer func() {
		if recover() != nil {
			panicked = true
		}
	}()
	fn()
	return false
}

func TestHexDigits(t *testing.T) {
	tests := []struct {
		value    int
		expected int
	}{
		{value: 0, expected: 2},
		{value: 0xff, expected: 2},
		{value: 0x100, expected: 4},
		{value: 0xffff, expected: 4},
		{value: 0x10000, expected: 6},
		{value: 0x1000000, expected: 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, HexDigits(tt.value))
	}
}
