// Package loader handles loading binary files into projects.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/asmgen/internal/addrmap"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/options"
	"github.com/retroenv/asmgen/internal/program"
	"github.com/retroenv/asmgen/internal/symbols"
)

// length of the load address header of C64 program files
const prgHeaderLength = 2

var errEmptyFile = errors.New("file is empty")

// Loader handles loading binary files from disk.
type Loader struct{}

// New creates a new binary file loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the input file and builds a project that decodes the whole file
// as code, starting at the origin address. C64 program files start with
// their load address, which is kept as a non addressable data word.
func (l *Loader) Load(opts options.Program, typ cpudef.Type) (*program.Project, error) {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", opts.Input, err)
	}
	if len(data) == 0 {
		return nil, errEmptyFile
	}

	cpu, err := cpudef.New(typ, opts.TwoByteBrk)
	if err != nil {
		return nil, fmt.Errorf("creating cpu definition: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(opts.Input), filepath.Ext(opts.Input))
	b := program.NewBuilder(data, cpu, program.Properties{Name: name})

	start := 0
	origin := opts.Origin
	if isPrgFile(opts.Input, data) {
		start = prgHeaderLength
		origin = int(data[0]) | int(data[1])<<8
		if err := b.AddRegion(0, prgHeaderLength, addrmap.NonAddressable, false); err != nil {
			return nil, err
		}
		if err := b.SetDataFormat(0, dataformat.NewNumeric(prgHeaderLength, false, dataformat.Hex), false); err != nil {
			return nil, fmt.Errorf("setting load address format: %w", err)
		}
	}

	if err := b.AddRegion(start, len(data)-start, origin, false); err != nil {
		return nil, err
	}
	if err := b.MarkCode(start, len(data), startFlags(opts)); err != nil {
		return nil, fmt.Errorf("marking code: %w", err)
	}
	if err := b.SetLabel(start, "start", symbols.GlobalAddr); err != nil {
		return nil, fmt.Errorf("setting entry label: %w", err)
	}

	project, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("building project: %w", err)
	}
	return project, nil
}

func isPrgFile(filename string, data []byte) bool {
	return strings.EqualFold(filepath.Ext(filename), ".prg") && len(data) > prgHeaderLength
}

func startFlags(opts options.Program) cpudef.StatusFlags {
	if opts.Native {
		return cpudef.StatusFlags{M: cpudef.Set, X: cpudef.Set, E: cpudef.Clear}
	}
	return cpudef.ShortFlags()
}
