// Package generator implements the assembler independent part of the source
// generation: the traversal of the analyzed project and the formatting of
// instructions and data that all target assemblers share.
package generator

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/retroenv/asmgen/internal/addrmap"
	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/program"
	"github.com/retroenv/asmgen/internal/symbols"
)

// ErrInternal is returned for inconsistencies between the analyzed project
// and the generated output. It indicates a defect, not an input error.
var ErrInternal = errors.New("internal generator error")

// Generator is implemented by the assembler specific source generators. The
// methods are called by Generate in source order.
type Generator interface {
	// Base returns the shared generator state.
	Base() *Base

	// OutputAsmConfig writes the assembler and CPU configuration directives.
	OutputAsmConfig()
	// OutputEquDirective writes the equate for a constant or an address.
	OutputEquDirective(def *symbols.DefSymbol)
	// OutputLocalVariableTable writes the definitions of the local
	// variables that are defined at the offset.
	OutputLocalVariableTable(offset int, defs []*symbols.DefSymbol, clearPrevious bool)
	// OutputArDirective handles the start or end of an address region.
	OutputArDirective(change addrmap.Change)
	// FlushArDirectives writes pending address region start directives.
	FlushArDirectives()
	// OutputRegWidthDirective writes the directives that change the
	// register widths that the assembler assumes.
	OutputRegWidthDirective(offset int, prev, next cpudef.StatusFlags)
	// OutputDataOp writes the data item that starts at the offset.
	OutputDataOp(offset int) error
	// ModifyOpcode returns the mnemonic to use for an opcode. An empty
	// string selects the default mnemonic, false means that the opcode can
	// not be expressed and has to be written as raw bytes.
	ModifyOpcode(offset int, op *cpudef.OpDef) (string, bool)
	// GenerateShortSequence writes the bytes of an instruction as data.
	GenerateShortSequence(offset, length int)
	// Finish completes the output and checks the final state.
	Finish() error
}

// Constructor creates a generator that writes the source to out.
type Constructor func(project *program.Project, settings Settings, out io.Writer) Generator

// ProgressFunc is called with the progress in percent.
type ProgressFunc func(percent int)

// Settings are the user options of a generation run.
type Settings struct {
	// AssemblerVersion is the detected version of the assembler, the zero
	// value selects the newest known syntax.
	AssemblerVersion assembler.Version
	// ToolVersion is written into the identification comment.
	ToolVersion string

	IdentComment     bool
	OffsetComments   bool
	HexComments      bool
	UpperCase        bool
	LongLabelNewLine bool

	// ColumnWidths overrides the default column widths of the assembler
	// when not all zero.
	ColumnWidths  [4]int
	MaxOperandLen int

	// OutputName is the base name of the generated files.
	OutputName string
}

// ExtraFile is a file that is generated in addition to the source file.
type ExtraFile struct {
	Name string
	Data []byte
}

// Result contains the generated files of a run.
type Result struct {
	Source     []byte
	ExtraFiles []ExtraFile
}

// Run creates a generator and generates the source into memory.
func Run(ctx context.Context, newGenerator Constructor, project *program.Project,
	settings Settings, progress ProgressFunc) (*Result, error) {

	buf := &bytes.Buffer{}
	gen := newGenerator(project, settings, buf)
	if err := Generate(ctx, gen, progress); err != nil {
		return nil, err
	}

	return &Result{
		Source:     buf.Bytes(),
		ExtraFiles: gen.Base().ExtraFiles(),
	}, nil
}
