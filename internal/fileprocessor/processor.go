// Package fileprocessor handles the selection and processing of input files.
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/retroenv/asmgen/internal/options"
	"github.com/retroenv/asmgen/internal/pipeline"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var errNoFiles = errors.New("no files match the batch pattern")

// ProcessFile runs the pipeline for a single input file.
func ProcessFile(ctx context.Context, p *pipeline.Pipeline, opts options.Program, genOpts options.Generator) error {
	if err := p.Execute(ctx, opts, genOpts); err != nil {
		return fmt.Errorf("processing file '%s': %w", opts.Input, err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options.
func GetFilesToProcess(opts options.Program) ([]string, error) {
	if opts.Batch == "" {
		return []string{opts.Input}, nil
	}

	matches, err := filepath.Glob(opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("globbing batch pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w '%s'", errNoFiles, opts.Batch)
	}
	return matches, nil
}

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("asmgen", log.String("version", buildinfo.Version(version, commit, date)))
}
