// Package cc65 generates source code for the ca65 assembler of the cc65
// tool chain, together with the linker configuration that places the code.
package cc65

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
	cpudef.CPU6502Undoc: "6502X",
	cpudef.CPU65C02:     "65C02",
	cpudef.CPUW65C02:    "65C02",
	cpudef.CPU65802:     "65816",
	cpudef.CPU65816:     "65816",
}

// undocumented opcodes that ca65 knows under a different name, an empty
// name means that ca65 does not support the opcode
var undocumentedNames = map[string]string{
	"SBX": "AXS",
	"ANE": "",
	"LXA": "",
	"SHA": "",
	"SHX": "",
	"SHY": "",
}

var stringDelimiter = formatter.Delimiter{OpenQuote: `"`, CloseQuote: `"`}

// Generator generates ca65 source code.
type Generator struct {
	base *generator.Base
	ops  generator.DataOps
	org  generator.OrgTracker
}

// New returns a new cc65 generator.
// nolint: ireturn
func New(project *program.Project, settings generator.Settings, out io.Writer) generator.Generator {
	info, _ := assembler.Lookup(assembler.Cc65)
	cfg := generator.Config{
		Info:        info,
		Quirks:      assembler.Cc65.Quirks(settings.AssemblerVersion),
		Format:      formatConfig(),
		LocalPrefix: "@",
		LabelSuffix: ":",
	}

	return &Generator{
		base: generator.NewBase(project, settings, out, cfg),
		org:  generator.OrgTracker{Map: project.AddrMap},
		ops: generator.DataOps{
			Define:    [5]string{"", ".byte", ".word", ".faraddr", ".dword"},
			DefineBig: [5]string{"", ".byte", ".dbyt", "", ""},
			Fill:      ".res",
		},
	}
}

func formatConfig() formatter.Config {
	cfg := formatter.DefaultConfig()
	cfg.ExpressionMode = formatter.ExprCc65
	cfg.ForceDirectOperandPrefix = "z:"
	cfg.ForceAbsOperandPrefix = "a:"
	cfg.ForceLongOperandPrefix = "f:"
	return cfg
}

// Base returns the shared generator state.
func (g *Generator) Base() *generator.Base {
	return g.base
}

// OutputAsmConfig writes the CPU selection.
func (g *Generator) OutputAsmConfig() {
	b := g.base
	b.OutputLine("", b.Formatter.FormatPseudoOp(".setcpu"), `"`+cpuNames[b.Project.CPU.Type]+`"`, "")
}

// OutputEquDirective writes a constant or address equate.
func (g *Generator) OutputEquDirective(def *symbols.DefSymbol) {
	b := g.base
	b.OutputLine(b.ConvLabel(def.Label), "=", b.FormatEquValue(def), b.Formatter.FormatEolComment(def.Comment))
}

// OutputLocalVariableTable assigns the variables with .set, which also ends
// the scope of cheap local labels.
func (g *Generator) OutputLocalVariableTable(_ int, defs []*symbols.DefSymbol, _ bool) {
	b := g.base
	for _, def := range defs {
		b.OutputLine(b.Formatter.FormatVariableLabel(def.Label), b.Formatter.FormatPseudoOp(".set"),
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
	b.OutputLine("", b.Formatter.FormatPseudoOp(".org"), b.Formatter.FormatAddress(address), "")
}

// OutputRegWidthDirective writes the accumulator and index register width
// directives that changed.
func (g *Generator) OutputRegWidthDirective(_ int, prev, next cpudef.StatusFlags) {
	b := g.base
	prevM, prevX := prev.WidthBits()
	nextM, nextX := next.WidthBits()
	if prevM != nextM {
		op := ".a16"
		if nextM == 1 {
			op = ".a8"
		}
		b.OutputLine("", b.Formatter.FormatPseudoOp(op), "", "")
	}
	if prevX != nextX {
		op := ".i16"
		if nextX == 1 {
			op = ".i8"
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

	// ca65 strings are plain ASCII
	if desc.Encoding != charenc.ASCII {
		b.OutputDenseData(offset, desc.Length, &g.ops)
		return nil
	}

	sof := b.NewStringFormatter(stringDelimiter, formatter.CommaSeparated, desc)
	if desc.Type == dataformat.StringNullTerm &&
		b.OutputStringDirective(offset, sof, generator.StringDirective{Opcode: ".asciiz", Trailing: 1}) {
		return nil
	}
	b.OutputGenericString(offset, sof, ".byte")
	return nil
}

// ModifyOpcode maps undocumented mnemonics to the names that ca65 uses.
func (g *Generator) ModifyOpcode(_ int, op *cpudef.OpDef) (string, bool) {
	if !op.Undocumented {
		return "", true
	}
	name, ok := undocumentedNames[op.Mnemonic]
	if !ok {
		return "", true
	}
	return name, name != ""
}

// GenerateShortSequence writes the bytes of an instruction as byte values.
func (g *Generator) GenerateShortSequence(offset, length int) {
	g.base.OutputByteList(offset, length, &g.ops)
}

// Finish checks the region balance and adds the linker configuration.
func (g *Generator) Finish() error {
	if err := g.org.Err(); err != nil {
		return err
	}

	b := g.base
	conf := Config{FileLength: len(b.Project.FileData)}
	linkerConfig, err := GenerateLinkerConfig(conf)
	if err != nil {
		return fmt.Errorf("generating linker config: %w", err)
	}
	b.AddExtraFile(ConfigFileName(b.Settings.OutputName, b.Project.Properties.Name), []byte(linkerConfig))
	return nil
}

// ConfigFileName returns the name of the linker configuration that belongs
// to a source file.
func ConfigFileName(outputName, projectName string) string {
	if outputName == "" {
		outputName = projectName + "_cc65"
	}
	return outputName + ".cfg"
}
