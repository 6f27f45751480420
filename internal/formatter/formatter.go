// Package formatter converts numbers, symbols and strings into the textual
// tokens of a target assembler.
package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/asmgen/internal/charenc"
	"github.com/retroenv/asmgen/internal/cpudef"
	"golang.org/x/exp/constraints"
)

// ExpressionMode selects the operator semantics of the target assembler.
type ExpressionMode uint8

// expression modes.
const (
	// ExprCommon byte selectors have a lower precedence than arithmetic
	// operators and apply to the whole expression.
	ExprCommon ExpressionMode = iota
	// ExprCc65 byte selectors bind tightly, expressions need parentheses.
	ExprCc65
	// ExprMerlin expressions are evaluated left to right and the byte
	// selectors shift the whole value instead of masking it.
	ExprMerlin
)

// Delimiter defines how a character or string literal is written.
type Delimiter struct {
	Prefix     string
	OpenQuote  string
	CloseQuote string
	Suffix     string
}

// Config configures a Formatter. It must not be modified after the
// formatter has been created.
type Config struct {
	UpperHexDigits bool
	UpperOpcodes   bool
	UpperPseudoOps bool
	UpperOperandA  bool // accumulator operand "A"
	UpperOperandXY bool // index register names

	HexPrefix string

	// operand prefixes and opcode suffixes that force an operand width
	ForceDirectOperandPrefix string
	ForceAbsOperandPrefix    string
	ForceLongOperandPrefix   string
	ForceDirectOpcodeSuffix  string
	ForceAbsOpcodeSuffix     string
	ForceLongOpcodeSuffix    string

	LocalVariableLabelPrefix string
	NonUniqueLabelPrefix     string

	EolCommentDelimiter      string
	FullLineCommentDelimiter string

	ExpressionMode ExpressionMode
	LowSelector    string
	HighSelector   string
	BankSelector   string

	CharDelimiters map[charenc.Encoding]Delimiter

	MaxOperandLen int
}

// DefaultConfig returns a configuration with common 6502 assembler syntax.
func DefaultConfig() Config {
	return Config{
		HexPrefix:                "$",
		EolCommentDelimiter:      ";",
		FullLineCommentDelimiter: ";",
		ExpressionMode:           ExprCommon,
		LowSelector:              "<",
		HighSelector:             ">",
		BankSelector:             "^",
		CharDelimiters: map[charenc.Encoding]Delimiter{
			charenc.ASCII:     {OpenQuote: "'", CloseQuote: "'"},
			charenc.HighASCII: {OpenQuote: "'", CloseQuote: "'", Suffix: " | $80"},
		},
		MaxOperandLen: 64,
	}
}

// Formatter formats values for a specific assembler.
type Formatter struct {
	cfg       Config
	hexFormat string
}

// New returns a new formatter for the configuration.
func New(cfg Config) *Formatter {
	hexFormat := "%0*x"
	if cfg.UpperHexDigits {
		hexFormat = "%0*X"
	}
	if cfg.MaxOperandLen <= 0 {
		cfg.MaxOperandLen = DefaultConfig().MaxOperandLen
	}
	return &Formatter{
		cfg:       cfg,
		hexFormat: hexFormat,
	}
}

// Config returns the configuration of the formatter.
func (f *Formatter) Config() Config {
	return f.cfg
}

// MaxOperandLen returns the maximum length of a data operand.
func (f *Formatter) MaxOperandLen() int {
	return f.cfg.MaxOperandLen
}

// FormatHexValue formats a value with the given number of hex digits. It
// panics if the value does not fit.
func (f *Formatter) FormatHexValue(value, digits int) string {
	if value < 0 || digits < 8 && value >= 1<<(4*digits) {
		panic(fmt.Sprintf("value $%x does not fit into %d hex digits", value, digits))
	}
	return f.cfg.HexPrefix + fmt.Sprintf(f.hexFormat, digits, value)
}

// FormatHexDigits formats a value as hex digits without prefix.
func (f *Formatter) FormatHexDigits(value, digits int) string {
	return fmt.Sprintf(f.hexFormat, digits, value)
}

// FormatAddress formats an address with 4 digits, or 6 if it is outside of
// bank 0.
func (f *Formatter) FormatAddress(address int) string {
	if address > 0xffff {
		return f.FormatHexValue(address, 6)
	}
	return f.FormatHexValue(address, 4)
}

// FormatDecimalValue formats a value as decimal number.
func (f *Formatter) FormatDecimalValue(value int) string {
	return strconv.Itoa(value)
}

// FormatBinaryValue formats a value as binary number with the given number
// of digits. It panics if the value does not fit.
func (f *Formatter) FormatBinaryValue(value, digits int) string {
	if value < 0 || digits < 32 && value >= 1<<digits {
		panic(fmt.Sprintf("value %d does not fit into %d binary digits", value, digits))
	}
	return fmt.Sprintf("%%%0*b", digits, value)
}

// FormatCharOrHex formats a byte as character literal of the encoding if it
// is printable, otherwise as hex value.
func (f *Formatter) FormatCharOrHex(value int, enc charenc.Encoding) string {
	delim, ok := f.cfg.CharDelimiters[enc]
	if !ok || value < 0 || value > 0xff {
		return f.FormatHexValue(value&0xff, 2)
	}
	ch := enc.Converter()(byte(value))
	if ch == charenc.NoChar || string(ch) == delim.OpenQuote || string(ch) == delim.CloseQuote {
		return f.FormatHexValue(value, 2)
	}
	return delim.Prefix + delim.OpenQuote + string(ch) + delim.CloseQuote + delim.Suffix
}

// FormatAdjustment formats the offset that is added to a symbol. Small
// values are decimal, larger ones hex.
func (f *Formatter) FormatAdjustment(adjustment int) string {
	if adjustment == 0 {
		return ""
	}
	sign := "+"
	if adjustment < 0 {
		sign = "-"
	}
	value := abs(adjustment)
	if value < 256 {
		return sign + f.FormatDecimalValue(value)
	}
	return sign + f.FormatHexValue(value, HexDigits(value))
}

// FormatOpcode formats the mnemonic of an opcode, including a suffix that
// forces the operand width if the assembler uses one.
func (f *Formatter) FormatOpcode(op *cpudef.OpDef, width cpudef.WidthDisambiguation) string {
	return f.FormatMnemonic(op.Mnemonic, width)
}

// FormatMnemonic formats a mnemonic with an optional width suffix.
func (f *Formatter) FormatMnemonic(mnemonic string, width cpudef.WidthDisambiguation) string {
	mnemonic = applyCase(mnemonic, f.cfg.UpperOpcodes)
	switch width {
	case cpudef.ForceDirect:
		return mnemonic + f.cfg.ForceDirectOpcodeSuffix
	case cpudef.ForceAbs:
		return mnemonic + f.cfg.ForceAbsOpcodeSuffix
	case cpudef.ForceLong, cpudef.ForceLongMaybe:
		return mnemonic + f.cfg.ForceLongOpcodeSuffix
	default:
		return mnemonic
	}
}

// FormatWidthPrefix returns the operand prefix that forces the width.
func (f *Formatter) FormatWidthPrefix(width cpudef.WidthDisambiguation) string {
	switch width {
	case cpudef.ForceDirect:
		return f.cfg.ForceDirectOperandPrefix
	case cpudef.ForceAbs:
		return f.cfg.ForceAbsOperandPrefix
	case cpudef.ForceLong, cpudef.ForceLongMaybe:
		return f.cfg.ForceLongOperandPrefix
	default:
		return ""
	}
}

// FormatPseudoOp formats the name of a pseudo op.
func (f *Formatter) FormatPseudoOp(name string) string {
	return applyCase(name, f.cfg.UpperPseudoOps)
}

// FormatAccumulator returns the accumulator operand.
func (f *Formatter) FormatAccumulator() string {
	return applyCase("a", f.cfg.UpperOperandA)
}

// FormatRegister returns an index or stack register operand.
func (f *Formatter) FormatRegister(reg string) string {
	return applyCase(reg, f.cfg.UpperOperandXY)
}

// FormatVariableLabel formats the label of a local variable.
func (f *Formatter) FormatVariableLabel(label string) string {
	return f.cfg.LocalVariableLabelPrefix + label
}

// FormatEolComment formats an end of line comment.
func (f *Formatter) FormatEolComment(comment string) string {
	if comment == "" {
		return ""
	}
	return f.cfg.EolCommentDelimiter + " " + comment
}

// FormatFullLineComment formats a comment that occupies a whole line.
func (f *Formatter) FormatFullLineComment(comment string) string {
	if comment == "" {
		return f.cfg.FullLineCommentDelimiter
	}
	return f.cfg.FullLineCommentDelimiter + " " + comment
}

// FormatDenseHex formats bytes as continuous hex digits.
func (f *Formatter) FormatDenseHex(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		sb.WriteString(fmt.Sprintf(f.hexFormat, 2, b))
	}
	return sb.String()
}

// FormatByteList formats bytes as comma separated hex values.
func (f *Formatter) FormatByteList(data []byte) string {
	values := make([]string, len(data))
	for i, b := range data {
		values[i] = f.FormatHexValue(int(b), 2)
	}
	return strings.Join(values, ",")
}

func applyCase(s string, upper bool) string {
	if upper {
		return strings.ToUpper(s)
	}
	return strings.ToLower(s)
}

func abs[T constraints.Signed](value T) T {
	if value < 0 {
		return -value
	}
	return value
}

// HexDigits returns the even number of hex digits needed for a value.
func HexDigits(value int) int {
	digits := 2
	for value > 0xff {
		value >>= 8
		digits += 2
	}
	return digits
}
