// Package merlin32 generates source code for the Merlin 32 cross assembler.
package merlin32

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

// number of xc directives that select the CPU
var cpuLevels = map[cpudef.Type]int{
	cpudef.CPU6502:      0,
	cpudef.CPU6502Undoc: 0,
	cpudef.CPU65C02:     1,
	cpudef.CPUW65C02:    1,
	cpudef.CPU65802:     2,
	cpudef.CPU65816:     2,
}

// string delimiters select the high bit of the characters
var stringDelimiters = map[charenc.Encoding]formatter.Delimiter{
	charenc.ASCII:     {OpenQuote: "'", CloseQuote: "'"},
	charenc.HighASCII: {OpenQuote: `"`, CloseQuote: `"`},
}

var stringDirectives = map[dataformat.Type]generator.StringDirective{
	dataformat.StringReverse: {Opcode: "rev", Mode: formatter.FeedReverse},
	dataformat.StringL8:      {Opcode: "str", Leading: 1, AllowRaw: true},
	dataformat.StringL16:     {Opcode: "strl", Leading: 2, AllowRaw: true},
	dataformat.StringDci:     {Opcode: "dci", Mode: formatter.FeedDci},
}

// Generator generates Merlin 32 source code.
type Generator struct {
	base *generator.Base
	ops  generator.DataOps
	org  generator.OrgTracker
}

// New returns a new Merlin 32 generator.
// nolint: ireturn
func New(project *program.Project, settings generator.Settings, out io.Writer) generator.Generator {
	info, _ := assembler.Lookup(assembler.Merlin32)
	cfg := generator.Config{
		Info:            info,
		Quirks:          assembler.Merlin32.Quirks(settings.AssemblerVersion),
		Format:          formatConfig(),
		LocalPrefix:     ":",
		OmitAccumulator: true,
	}

	return &Generator{
		base: generator.NewBase(project, settings, out, cfg),
		org:  generator.OrgTracker{Map: project.AddrMap},
		ops: generator.DataOps{
			Define:    [5]string{"", "dfb", "dw", "adr", "adrl"},
			DefineBig: [5]string{"", "dfb", "ddb", "", ""},
			Fill:      "ds",
			Dense:     "hex",
			Align:     alignOperation,
		},
	}
}

func formatConfig() formatter.Config {
	cfg := formatter.DefaultConfig()
	cfg.UpperHexDigits = true
	cfg.ExpressionMode = formatter.ExprMerlin
	cfg.ForceAbsOpcodeSuffix = ":"
	cfg.ForceLongOpcodeSuffix = "l"
	cfg.LocalVariableLabelPrefix = "]"
	cfg.FullLineCommentDelimiter = "*"
	cfg.CharDelimiters = stringDelimiters
	return cfg
}

// alignOperation fills up to the next page boundary, the only alignment
// that Merlin supports.
func alignOperation(alignment, value int) (string, string, bool) {
	if alignment != 0x100 || value != 0 {
		return "", "", false
	}
	return "ds", `\`, true
}

// Base returns the shared generator state.
func (g *Generator) Base() *generator.Base {
	return g.base
}

// OutputAsmConfig enables the instruction set of the CPU and sets the
// initial register widths of the 65816.
func (g *Generator) OutputAsmConfig() {
	b := g.base
	levels := cpuLevels[b.Project.CPU.Type]
	for range levels {
		b.OutputLine("", b.Formatter.FormatPseudoOp("xc"), "", "")
	}
	if levels == 2 {
		b.OutputLine("", b.Formatter.FormatPseudoOp("mx"), "%11", "")
	}
}

// OutputEquDirective writes a constant or address equate.
func (g *Generator) OutputEquDirective(def *symbols.DefSymbol) {
	b := g.base
	b.OutputLine(b.ConvLabel(def.Label), b.Formatter.FormatPseudoOp("equ"), b.FormatEquValue(def),
		b.Formatter.FormatEolComment(def.Comment))
}

// OutputLocalVariableTable redefines the variables.
func (g *Generator) OutputLocalVariableTable(_ int, defs []*symbols.DefSymbol, _ bool) {
	b := g.base
	for _, def := range defs {
		b.OutputLine(b.Formatter.FormatVariableLabel(def.Label), b.Formatter.FormatPseudoOp("equ"),
			b.FormatEquValue(def), b.Formatter.FormatEolComment(def.Comment))
	}
}

// OutputArDirective queues region starts. The end of a nested region
// restores the program counter of the containing region.
func (g *Generator) OutputArDirective(change addrmap.Change) {
	if address, ok := g.org.Change(change); ok {
		g.outputOrg(address)
	}
}

// FlushArDirectives sets the program counter of the innermost region that
// starts at the current offset.
func (g *Generator) FlushArDirectives() {
	if address, ok := g.org.Flush(); ok {
		g.outputOrg(address)
	}
}

func (g *Generator) outputOrg(address int) {
	b := g.base
	b.OutputLine("", b.Formatter.FormatPseudoOp("org"), b.Formatter.FormatAddress(address), "")
}

// OutputRegWidthDirective writes the register widths, Merlin always sets
// both of them.
func (g *Generator) OutputRegWidthDirective(_ int, _, next cpudef.StatusFlags) {
	b := g.base
	m, x := next.WidthBits()
	b.OutputLine("", b.Formatter.FormatPseudoOp("mx"), fmt.Sprintf("%%%d%d", m, x), "")
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

	delim, ok := stringDelimiters[desc.Encoding]
	if !ok {
		b.OutputDenseData(offset, desc.Length, &g.ops)
		return nil
	}

	sof := b.NewStringFormatter(delim, formatter.DenseHex, desc)
	if dir, ok := stringDirectives[desc.Type]; ok && b.OutputStringDirective(offset, sof, dir) {
		return nil
	}
	b.OutputGenericString(offset, sof, "asc")
	return nil
}

// ModifyOpcode rejects undocumented opcodes, Merlin has no mnemonics for
// them.
func (g *Generator) ModifyOpcode(_ int, op *cpudef.OpDef) (string, bool) {
	return "", !op.Undocumented
}

// GenerateShortSequence writes the bytes of an instruction as hex data.
func (g *Generator) GenerateShortSequence(offset, length int) {
	b := g.base
	data := b.Project.FileData[offset : offset+length]
	b.OutputLine(b.LabelAt(offset), b.Formatter.FormatPseudoOp("hex"), b.Formatter.FormatDenseHex(data),
		b.CommentAt(offset, length))
}

// Finish checks that the region starts and ends are balanced.
func (g *Generator) Finish() error {
	return g.org.Err()
}
