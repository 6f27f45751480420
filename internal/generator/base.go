package generator

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/asmgen/internal/addrmap"
	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/charenc"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/formatter"
	"github.com/retroenv/asmgen/internal/labels"
	"github.com/retroenv/asmgen/internal/program"
	"github.com/retroenv/asmgen/internal/symbols"
	"github.com/retroenv/asmgen/internal/writer"
)

// Config is the static configuration that an assembler specific generator
// passes to NewBase.
type Config struct {
	Info   assembler.Info
	Quirks assembler.Quirks
	Format formatter.Config

	// LocalPrefix is prepended to local labels.
	LocalPrefix string
	// LabelSuffix is appended to label definitions.
	LabelSuffix string
	// OmitAccumulator writes accumulator instructions without operand.
	OmitAccumulator bool
}

// Base contains the state and functionality that is shared by all
// generators.
type Base struct {
	Project   *program.Project
	Settings  Settings
	Info      assembler.Info
	Quirks    assembler.Quirks
	Formatter *formatter.Formatter
	Localizer *labels.Localizer
	Writer    *writer.Writer
	LvLookup  *program.LocalVariableLookup

	// SelectEncoding is called before a character operand of the encoding
	// is written, if set.
	SelectEncoding func(enc charenc.Encoding)

	labelSuffix     string
	omitAccumulator bool
	labelOffsets    map[string]int
	asmFlags        cpudef.StatusFlags
	extraFiles      []ExtraFile
	canonical       map[opcodeKey]byte
}

// NewBase returns the shared state for a generator.
func NewBase(project *program.Project, settings Settings, out io.Writer, cfg Config) *Base {
	format := cfg.Format
	if settings.UpperCase {
		format.UpperOpcodes = true
		format.UpperPseudoOps = true
		format.UpperOperandA = true
		format.UpperOperandXY = true
	}
	if settings.MaxOperandLen > 0 {
		format.MaxOperandLen = settings.MaxOperandLen
	}

	widths := cfg.Info.ColumnWidths
	if settings.ColumnWidths != [4]int{} {
		widths = settings.ColumnWidths
	}

	localizer := labels.New(project)
	localizer.LocalPrefix = cfg.LocalPrefix
	localizer.QuirkVariablesEndScope = cfg.Quirks.VariablesEndScope
	localizer.QuirkNoOpcodeMnemonics = cfg.Quirks.NoOpcodeMnemonicLabels
	localizer.Analyze()

	b := &Base{
		Project:   project,
		Settings:  settings,
		Info:      cfg.Info,
		Quirks:    cfg.Quirks,
		Formatter: formatter.New(format),
		Localizer: localizer,
		Writer: writer.New(out, writer.Options{
			ColumnWidths:     widths,
			LongLabelNewLine: settings.LongLabelNewLine,
		}),
		LvLookup: program.NewLocalVariableLookup(project.LvTables),

		labelSuffix:     cfg.LabelSuffix,
		omitAccumulator: cfg.OmitAccumulator,
		labelOffsets:    map[string]int{},
		asmFlags:        cpudef.StatusFlags{M: cpudef.Set, X: cpudef.Set, E: cpudef.Clear},
	}
	for offset := range project.Attribs {
		if sym := project.Attribs[offset].Symbol; sym != nil {
			b.labelOffsets[sym.Label] = offset
		}
	}
	return b
}

// ExtraFiles returns the files that have to be written in addition to the
// source file.
func (b *Base) ExtraFiles() []ExtraFile {
	return b.extraFiles
}

// AddExtraFile adds a file that is written with the source file.
func (b *Base) AddExtraFile(name string, data []byte) {
	b.extraFiles = append(b.extraFiles, ExtraFile{Name: name, Data: data})
}

// OutputLine writes a line with label, opcode, operand and comment fields.
func (b *Base) OutputLine(label, opcode, operand, comment string) {
	b.Writer.Line(label, opcode, operand, comment)
}

// OutputFullLineComment writes a comment line.
func (b *Base) OutputFullLineComment(comment string) {
	b.Writer.FullLine(b.Formatter.FormatFullLineComment(comment))
}

// OutputBlankLine writes an empty line.
func (b *Base) OutputBlankLine() {
	b.Writer.FullLine("")
}

// OutputItemLines writes the operand lines of an item. The label and the
// comment of the offset are written on the first line.
func (b *Base) OutputItemLines(offset, length int, opcode string, operands []string) {
	for i, operand := range operands {
		if i == 0 {
			b.OutputLine(b.LabelAt(offset), opcode, operand, b.CommentAt(offset, length))
			continue
		}
		b.OutputLine("", opcode, operand, "")
	}
}

// LabelAt returns the label definition for an offset, or an empty string.
func (b *Base) LabelAt(offset int) string {
	sym := b.Project.Attribs[offset].Symbol
	if sym == nil {
		return ""
	}
	return b.Localizer.ConvLabel(sym.Label) + b.labelSuffix
}

// ConvLabel returns the label to emit for an original label.
func (b *Base) ConvLabel(label string) string {
	return b.Localizer.ConvLabel(label)
}

// CommentAt returns the end of line comment of an item, including the
// address and hex code comments if enabled.
func (b *Base) CommentAt(offset, length int) string {
	var parts []string
	attr := &b.Project.Attribs[offset]
	if b.Settings.OffsetComments && attr.Address != addrmap.NonAddressable {
		parts = append(parts, formatAddressComment(attr.Address))
	}
	if b.Settings.HexComments {
		parts = append(parts, b.Project.HexCodeComment(offset, min(length, 4)))
	}
	if comment := b.Project.Comments[offset]; comment != "" {
		parts = append(parts, comment)
	}
	return b.Formatter.FormatEolComment(strings.Join(parts, "  "))
}

// FormatEquValue formats the value of an equate.
func (b *Base) FormatEquValue(def *symbols.DefSymbol) string {
	f := b.Formatter
	if def.Value < 0 {
		return f.FormatDecimalValue(def.Value)
	}
	switch def.Radix {
	case 10:
		return f.FormatDecimalValue(def.Value)
	case 2:
		return f.FormatBinaryValue(def.Value, max(def.Width, 1)*8)
	}

	if def.IsConstant() {
		return f.FormatHexValue(def.Value, formatter.HexDigits(def.Value))
	}
	switch {
	case def.Value <= 0xff:
		return f.FormatHexValue(def.Value, 2)
	case def.Value <= 0xffff:
		return f.FormatHexValue(def.Value, 4)
	default:
		return f.FormatHexValue(def.Value, 6)
	}
}

// FormatOperandValue formats a numeric operand of the item at the offset.
func (b *Base) FormatOperandValue(offset int, desc *dataformat.Descriptor, value, operandLen int,
	flags formatter.OperandFlags) string {

	if desc != nil && desc.SubType == dataformat.Ascii && b.SelectEncoding != nil {
		b.SelectEncoding(desc.Encoding)
	}
	return b.Formatter.FormatNumericOperand(desc, value, operandLen, b.resolverAt(offset),
		b.Localizer.LabelMap(), flags)
}

// IsForwardReference returns whether the label is defined after the offset
// in the source.
func (b *Base) IsForwardReference(offset int, label string) bool {
	target, ok := b.labelOffsets[label]
	return ok && target > offset
}

// resolverAt returns a symbol resolver that also knows the local variables
// that are active at the offset.
func (b *Base) resolverAt(offset int) formatter.SymbolResolver {
	return func(ref *symbols.WeakRef) (*symbols.Symbol, bool) {
		if ref.IsVariable {
			def, ok := b.LvLookup.GetSymbol(offset, ref.Label)
			if !ok {
				return nil, false
			}
			return &def.Symbol, true
		}
		if sym, ok := b.Project.Symbols.Get(ref.Label); ok {
			return sym, true
		}
		if def, ok := b.Project.Symbols.GetDef(ref.Label); ok {
			return &def.Symbol, true
		}
		return nil, false
	}
}

func formatAddressComment(address int) string {
	if address > 0xffff {
		return fmt.Sprintf("$%02X/%04X", address>>16, address&0xffff)
	}
	return fmt.Sprintf("$%04X", address)
}
