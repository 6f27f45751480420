// Package tass64 generates source code for the 64tass assembler.
package tass64

import (
	"fmt"
	"io"

	"github.com/retroenv/asmgen/internal/addrmap"
	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/charenc"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/formatter"
	"github.com/retroenv/asmgen/internal/generator"
	"github.com/retroenv/asmgen/internal/program"
	"github.com/retroenv/asmgen/internal/symbols"
)

const (
	hiAsciiEncoding = "sg_hiascii"
	asciiEncoding   = "sg_ascii"
)

var cpuNames = map[cpudef.Type]string{
	cpudef.CPU6502:      "6502",
	cpudef.CPU6502Undoc: "6502i",
	cpudef.CPU65C02:     "65c02",
	cpudef.CPUW65C02:    "w65c02",
	cpudef.CPU65802:     "65816",
	cpudef.CPU65816:     "65816",
}

var encodingNames = map[charenc.Encoding]string{
	charenc.ASCII:         asciiEncoding,
	charenc.HighASCII:     hiAsciiEncoding,
	charenc.C64Petscii:    "none",
	charenc.C64ScreenCode: "screen",
}

var stringDelimiter = formatter.Delimiter{OpenQuote: `"`, CloseQuote: `"`}

// Generator generates 64tass source code.
type Generator struct {
	base *generator.Base
	ops  generator.DataOps

	encoding     string
	pending      []addrmap.Change
	depth        int
	endDirective string
}

// New returns a new 64tass generator.
// nolint: ireturn
func New(project *program.Project, settings generator.Settings, out io.Writer) generator.Generator {
	info, _ := assembler.Lookup(assembler.Tass64)
	cfg := generator.Config{
		Info:        info,
		Quirks:      assembler.Tass64.Quirks(settings.AssemblerVersion),
		Format:      formatConfig(),
		LocalPrefix: "_",
	}

	g := &Generator{
		base:         generator.NewBase(project, settings, out, cfg),
		encoding:     asciiEncoding,
		endDirective: ".endlogical",
	}
	if !settings.AssemblerVersion.AtLeast(1, 55, 0) {
		g.endDirective = ".here"
	}
	g.base.SelectEncoding = g.selectEncoding
	g.ops = generator.DataOps{
		Define: [5]string{"", ".byte", ".word", ".long", ".dword"},
		Fill:   ".fill",
		Align: func(alignment, value int) (string, string, bool) {
			f := g.base.Formatter
			return ".align", f.FormatDecimalValue(alignment) + "," + f.FormatHexValue(value, 2), true
		},
	}
	return g
}

func formatConfig() formatter.Config {
	cfg := formatter.DefaultConfig()
	cfg.BankSelector = "`"
	cfg.ForceDirectOperandPrefix = "@b"
	cfg.ForceAbsOperandPrefix = "@w"
	cfg.ForceLongOperandPrefix = "@l"
	cfg.CharDelimiters = map[charenc.Encoding]formatter.Delimiter{
		charenc.ASCII:         {OpenQuote: "'", CloseQuote: "'"},
		charenc.HighASCII:     {OpenQuote: "'", CloseQuote: "'"},
		charenc.C64Petscii:    {OpenQuote: "'", CloseQuote: "'"},
		charenc.C64ScreenCode: {OpenQuote: "'", CloseQuote: "'"},
	}
	return cfg
}

// Base returns the shared generator state.
func (g *Generator) Base() *generator.Base {
	return g.base
}

// OutputAsmConfig writes the CPU selection, the character encodings and the
// initial program counter.
func (g *Generator) OutputAsmConfig() {
	b := g.base
	f := b.Formatter
	cpu := cpuNames[b.Project.CPU.Type]

	b.OutputLine("", f.FormatPseudoOp(".cpu"), `"`+cpu+`"`, "")
	b.OutputLine("", f.FormatPseudoOp(".enc"), `"`+hiAsciiEncoding+`"`, "")
	b.OutputLine("", f.FormatPseudoOp(".cdef"), "$20,$7e,$a0", "")
	b.OutputLine("", f.FormatPseudoOp(".enc"), `"`+asciiEncoding+`"`, "")
	b.OutputLine("", f.FormatPseudoOp(".cdef"), "$20,$7e,$20", "")
	b.OutputBlankLine()
	b.OutputLine("*", "=", f.FormatHexValue(0, 4), "")
}

// OutputEquDirective writes a constant or address equate.
func (g *Generator) OutputEquDirective(def *symbols.DefSymbol) {
	b := g.base
	b.OutputLine(b.ConvLabel(def.Label), "=", b.FormatEquValue(def), b.Formatter.FormatEolComment(def.Comment))
}

// OutputLocalVariableTable writes the variables as redefinable symbols.
func (g *Generator) OutputLocalVariableTable(_ int, defs []*symbols.DefSymbol, _ bool) {
	b := g.base
	for _, def := range defs {
		b.OutputLine(b.Formatter.FormatVariableLabel(def.Label), b.Formatter.FormatPseudoOp(".var"),
			b.FormatEquValue(def), b.Formatter.FormatEolComment(def.Comment))
	}
}

// OutputArDirective queues region starts and closes logical blocks.
func (g *Generator) OutputArDirective(change addrmap.Change) {
	if change.IsStart {
		g.pending = append(g.pending, change)
		return
	}
	g.depth--
	g.base.OutputLine("", g.base.Formatter.FormatPseudoOp(g.endDirective), "", "")
}

// FlushArDirectives opens a logical block for every queued region start.
func (g *Generator) FlushArDirectives() {
	b := g.base
	for _, change := range g.pending {
		b.OutputLine("", b.Formatter.FormatPseudoOp(".logical"), g.regionAddress(change), "")
		g.depth++
	}
	g.pending = g.pending[:0]
}

// regionAddress returns the operand of a logical block start.
func (g *Generator) regionAddress(change addrmap.Change) string {
	b := g.base
	reg := change.Region
	if reg.Address == addrmap.NonAddressable {
		return "*"
	}
	if reg.IsRelative {
		parent := b.Project.AddrMap.ParentAddress(reg, change.Offset)
		if parent != addrmap.NonAddressable {
			return "*" + b.Formatter.FormatAdjustment(reg.Address-parent)
		}
	}
	return b.Formatter.FormatAddress(reg.Address)
}

// OutputRegWidthDirective writes the accumulator and index register width
// directives that changed.
func (g *Generator) OutputRegWidthDirective(_ int, prev, next cpudef.StatusFlags) {
	b := g.base
	prevM, prevX := prev.WidthBits()
	nextM, nextX := next.WidthBits()
	if prevM != nextM {
		op := ".al"
		if nextM == 1 {
			op = ".as"
		}
		b.OutputLine("", b.Formatter.FormatPseudoOp(op), "", "")
	}
	if prevX != nextX {
		op := ".xl"
		if nextX == 1 {
			op = ".xs"
		}
		b.OutputLine("", b.Formatter.FormatPseudoOp(op), "", "")
	}
}

// OutputDataOp writes the data item at the offset.
func (g *Generator) OutputDataOp(offset int) error {
	b := g.base
	desc := b.Project.Attribs[offset].DataDescriptor
	if desc.Type == dataformat.BinaryInclude {
		g.outputBinaryInclude(offset, desc)
		return nil
	}
	if handled, err := b.OutputFormattedData(offset, &g.ops); handled || err != nil {
		return err
	}

	switch desc.Type {
	case dataformat.StringGeneric, dataformat.StringReverse, dataformat.StringL16:
		g.outputGenericString(offset, desc)
	case dataformat.StringNullTerm:
		g.outputString(offset, desc, generator.StringDirective{Opcode: ".null", Trailing: 1, AllowRaw: true})
	case dataformat.StringL8:
		g.outputString(offset, desc, generator.StringDirective{Opcode: ".ptext", Leading: 1, AllowRaw: true})
	case dataformat.StringDci:
		// .shift sets the high bit of the last character
		last := b.Project.FileData[offset+desc.Length-1]
		if desc.Encoding == charenc.HighASCII || last&0x80 == 0 {
			g.outputGenericString(offset, desc)
			return nil
		}
		g.outputString(offset, desc, generator.StringDirective{Opcode: ".shift", Mode: formatter.FeedDci})
	default:
		return fmt.Errorf("unsupported data type %s", desc.Type)
	}
	return nil
}

// outputBinaryInclude moves the data into a side file that is included.
func (g *Generator) outputBinaryInclude(offset int, desc *dataformat.Descriptor) {
	b := g.base
	data := b.Project.FileData[offset : offset+desc.Length]
	b.AddExtraFile(desc.Filename, data)
	b.OutputLine(b.LabelAt(offset), b.Formatter.FormatPseudoOp(".binary"), `"`+desc.Filename+`"`,
		b.CommentAt(offset, desc.Length))
}

func (g *Generator) outputString(offset int, desc *dataformat.Descriptor, dir generator.StringDirective) {
	sof := g.stringFormatter(desc)
	if !g.base.OutputStringDirective(offset, sof, dir) {
		g.base.OutputGenericString(offset, sof, ".text")
	}
}

func (g *Generator) outputGenericString(offset int, desc *dataformat.Descriptor) {
	g.base.OutputGenericString(offset, g.stringFormatter(desc), ".text")
}

func (g *Generator) stringFormatter(desc *dataformat.Descriptor) *formatter.StringOpFormatter {
	sof := g.base.NewStringFormatter(stringDelimiter, formatter.CommaSeparated, desc)
	sof.SetEscapeChar('"')
	return sof
}

// selectEncoding switches the character encoding of the assembler.
func (g *Generator) selectEncoding(enc charenc.Encoding) {
	name, ok := encodingNames[enc]
	if !ok || name == g.encoding {
		return
	}
	g.encoding = name
	g.base.OutputLine("", g.base.Formatter.FormatPseudoOp(".enc"), `"`+name+`"`, "")
}

// ModifyOpcode rejects the undocumented opcodes that 64tass does not know.
func (g *Generator) ModifyOpcode(_ int, op *cpudef.OpDef) (string, bool) {
	if !op.Undocumented {
		return "", true
	}
	switch op.Mnemonic {
	case "ALR":
		return "ASR", true
	case "ISC":
		return "ISB", true
	case "LAS":
		return "LDS", true
	case "TAS":
		return "SHS", true
	default:
		return "", true
	}
}

// GenerateShortSequence writes the bytes of an instruction as byte values.
func (g *Generator) GenerateShortSequence(offset, length int) {
	g.base.OutputByteList(offset, length, &g.ops)
}

// Finish checks that all logical blocks were closed.
func (g *Generator) Finish() error {
	if g.depth != 0 || len(g.pending) != 0 {
		return fmt.Errorf("%w: %d logical blocks are not closed", generator.ErrInternal, g.depth)
	}
	return nil
}
