// Package acme generates source code for the ACME cross assembler.
package acme

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

var cpuNames = map[cpudef.Type]string{
	cpudef.CPU6502:      "6502",
	cpudef.CPU6502Undoc: "6510",
	cpudef.CPU65C02:     "65c02",
	cpudef.CPUW65C02:    "w65c02",
	cpudef.CPU65802:     "65816",
	cpudef.CPU65816:     "65816",
}

var stringOps = map[charenc.Encoding]string{
	charenc.ASCII:         "!text",
	charenc.HighASCII:     "!text",
	charenc.C64Petscii:    "!pet",
	charenc.C64ScreenCode: "!scr",
}

var stringDelimiter = formatter.Delimiter{OpenQuote: `"`, CloseQuote: `"`}

// Generator generates ACME source code.
type Generator struct {
	base *generator.Base
	ops  generator.DataOps

	escapes bool
	pending []addrmap.Change
	depth   int
}

// New returns a new ACME generator.
// nolint: ireturn
func New(project *program.Project, settings generator.Settings, out io.Writer) generator.Generator {
	info, _ := assembler.Lookup(assembler.Acme)
	cfg := generator.Config{
		Info:            info,
		Quirks:          assembler.Acme.Quirks(settings.AssemblerVersion),
		Format:          formatConfig(),
		LocalPrefix:     "@",
		OmitAccumulator: true,
	}

	// backslash escapes and !hex were introduced with 0.97
	modern := settings.AssemblerVersion.AtLeast(0, 97, 0)

	g := &Generator{
		base:    generator.NewBase(project, settings, out, cfg),
		escapes: modern,
	}
	g.ops = generator.DataOps{
		Define:    [5]string{"", "!byte", "!word", "!24", "!32"},
		DefineBig: [5]string{"", "!byte", "!be16", "!be24", "!be32"},
		Fill:      "!fill",
		Align: func(alignment, value int) (string, string, bool) {
			f := g.base.Formatter
			mask := alignment - 1
			digits := 2
			if mask > 0xff {
				digits = 4
			}
			if mask > 0xffff {
				return "", "", false
			}
			return "!align", f.FormatHexValue(mask, digits) + ",0," + f.FormatHexValue(value, 2), true
		},
	}
	if modern {
		g.ops.Dense = "!hex"
	}
	return g
}

func formatConfig() formatter.Config {
	cfg := formatter.DefaultConfig()
	cfg.ForceDirectOpcodeSuffix = "+1"
	cfg.ForceAbsOpcodeSuffix = "+2"
	cfg.ForceLongOpcodeSuffix = "+3"
	return cfg
}

// Base returns the shared generator state.
func (g *Generator) Base() *generator.Base {
	return g.base
}

// OutputAsmConfig writes the CPU selection and the initial program counter.
func (g *Generator) OutputAsmConfig() {
	b := g.base
	b.OutputLine("", b.Formatter.FormatPseudoOp("!cpu"), cpuNames[b.Project.CPU.Type], "")
	b.OutputLine("*", "=", b.Formatter.FormatHexValue(0, 4), "")
}

// OutputEquDirective writes a constant or address equate.
func (g *Generator) OutputEquDirective(def *symbols.DefSymbol) {
	b := g.base
	b.OutputLine(b.ConvLabel(def.Label), "=", b.FormatEquValue(def), b.Formatter.FormatEolComment(def.Comment))
}

// OutputLocalVariableTable redefines the variables with !set.
func (g *Generator) OutputLocalVariableTable(_ int, defs []*symbols.DefSymbol, _ bool) {
	b := g.base
	for _, def := range defs {
		operand := b.Formatter.FormatVariableLabel(def.Label) + " = " + b.FormatEquValue(def)
		b.OutputLine("", b.Formatter.FormatPseudoOp("!set"), operand, b.Formatter.FormatEolComment(def.Comment))
	}
}

// OutputArDirective queues region starts and closes pseudo PC blocks.
func (g *Generator) OutputArDirective(change addrmap.Change) {
	if change.IsStart {
		g.pending = append(g.pending, change)
		return
	}
	g.depth--
	g.base.OutputLine("", "}", "", "")
}

// FlushArDirectives opens a pseudo PC block for every queued region start.
func (g *Generator) FlushArDirectives() {
	b := g.base
	for _, change := range g.pending {
		b.OutputLine("", b.Formatter.FormatPseudoOp("!pseudopc"), g.regionAddress(change)+" {", "")
		g.depth++
	}
	g.pending = g.pending[:0]
}

// regionAddress returns the operand of a pseudo PC block start.
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
		op := "!al"
		if nextM == 1 {
			op = "!as"
		}
		b.OutputLine("", b.Formatter.FormatPseudoOp(op), "", "")
	}
	if prevX != nextX {
		op := "!rl"
		if nextX == 1 {
			op = "!rs"
		}
		b.OutputLine("", b.Formatter.FormatPseudoOp(op), "", "")
	}
}

// OutputDataOp writes the data item at the offset.
func (g *Generator) OutputDataOp(offset int) error {
	b := g.base
	if handled, err := b.OutputFormattedData(offset, &g.ops); handled || err != nil {
		return err
	}

	desc := b.Project.Attribs[offset].DataDescriptor
	if !desc.IsString() {
		return fmt.Errorf("unsupported data type %s", desc.Type)
	}
	g.outputString(offset, desc)
	return nil
}

// outputString writes a string with the generic string directive of the
// encoding, ACME has no directives for terminated or prefixed strings.
func (g *Generator) outputString(offset int, desc *dataformat.Descriptor) {
	b := g.base
	opcode, ok := stringOps[desc.Encoding]
	if !ok {
		b.OutputDenseData(offset, desc.Length, &g.ops)
		return
	}

	sof := b.NewStringFormatter(stringDelimiter, formatter.CommaSeparated, desc)
	if g.escapes {
		sof.SetEscapeChar('\\')
	}

	if desc.Encoding != charenc.HighASCII {
		b.OutputGenericString(offset, sof, opcode)
		return
	}

	f := b.Formatter
	b.OutputLine("", f.FormatPseudoOp("!xor"), f.FormatHexValue(0x80, 2)+" {", "")
	b.OutputGenericString(offset, sof, opcode)
	b.OutputLine("", "}", "", "")
}

// ModifyOpcode maps undocumented mnemonics to the names that ACME uses.
func (g *Generator) ModifyOpcode(_ int, op *cpudef.OpDef) (string, bool) {
	if op.Undocumented && op.Mnemonic == "ALR" {
		return "ASR", true
	}
	return "", true
}

// GenerateShortSequence writes the bytes of an instruction as byte values.
func (g *Generator) GenerateShortSequence(offset, length int) {
	g.base.OutputByteList(offset, length, &g.ops)
}

// Finish checks that all pseudo PC blocks were closed.
func (g *Generator) Finish() error {
	if g.depth != 0 || len(g.pending) != 0 {
		return fmt.Errorf("%w: %d pseudo pc blocks are not closed", generator.ErrInternal, g.depth)
	}
	return nil
}
