// Package options contains the program options.
package options

import (
	"strings"

	"github.com/retroenv/asmgen/internal/generator"
)

// AllAssemblers selects the generation for every supported assembler.
const AllAssemblers = "all"

// Parameters contains file path options.
type Parameters struct {
	Input     string // binary file to generate the source for
	OutputDir string // directory of the generated files, defaults to the input directory
	Batch     string // glob pattern of input files
}

// Flags contains behavior options.
type Flags struct {
	Assembler    string // assembler name or "all"
	CPU          string
	Origin       int  // address of the first byte of the input
	Native       bool // 65816 code starts in native mode
	TwoByteBrk   bool
	AssembleTest bool // verify the output by assembling it with the external assembler
	Debug        bool
	Quiet        bool
}

// Program options of the source generator.
type Program struct {
	Parameters
	Flags
}

// Generator defines options to control the generated source.
type Generator struct {
	IdentComment     bool
	OffsetComments   bool
	HexComments      bool
	UpperCase        bool
	LongLabelNewLine bool
	MaxOperandLen    int
}

// NewGenerator returns a new options instance with default options.
func NewGenerator() Generator {
	return Generator{
		IdentComment:     true,
		LongLabelNewLine: true,
		MaxOperandLen:    64,
	}
}

// Settings converts the options into the settings of a generator run.
func (g Generator) Settings() generator.Settings {
	return generator.Settings{
		IdentComment:     g.IdentComment,
		OffsetComments:   g.OffsetComments,
		HexComments:      g.HexComments,
		UpperCase:        g.UpperCase,
		LongLabelNewLine: g.LongLabelNewLine,
		MaxOperandLen:    g.MaxOperandLen,
	}
}

// IsAllAssemblers returns whether the source should be generated for every
// supported assembler.
func (p Program) IsAllAssemblers() bool {
	return strings.EqualFold(strings.TrimSpace(p.Assembler), AllAssemblers)
}
