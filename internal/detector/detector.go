// Package detector handles CPU type detection.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles CPU type detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new CPU detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the CPU type from options or file auto-detection.
// An explicitly specified CPU takes precedence over the input filename
// extension.
func (d *Detector) Detect(opts options.Program) (cpudef.Type, error) {
	if opts.CPU != "" {
		typ, err := cpudef.ParseType(opts.CPU)
		if err != nil {
			return cpudef.Unknown, fmt.Errorf("parsing cpu type: %w", err)
		}
		return typ, nil
	}

	typ := detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected cpu",
		log.Stringer("cpu", typ),
		log.String("file", opts.Input))
	return typ, nil
}

// detectFromFile determines the CPU type based on file extension.
func detectFromFile(filename string) cpudef.Type {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".sfc", ".smc", ".2mg":
		return cpudef.CPU65816
	default:
		return cpudef.CPU6502
	}
}
