// Package main implements a source generator for 6502 family assemblers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/cli"
	"github.com/retroenv/asmgen/internal/config"
	"github.com/retroenv/asmgen/internal/fileprocessor"
	"github.com/retroenv/asmgen/internal/options"
	"github.com/retroenv/asmgen/internal/pipeline"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	urfave "github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	cliApp := cli.NewApp(buildinfo.Version(version, commit, date), func(c *urfave.Context,
		opts options.Program, genOpts options.Generator) error {

		return run(c.Context, opts, genOpts)
	})

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		logger := config.CreateLogger(false, false)
		logger.Error("Generating source failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options.Program, genOpts options.Generator) error {
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	files, err := fileprocessor.GetFilesToProcess(opts)
	if err != nil {
		return err
	}

	p := pipeline.New(logger, assembler.NewVersionCache(nil))
	var failed int
	for _, file := range files {
		opts.Input = file
		if err := fileprocessor.ProcessFile(ctx, p, opts, genOpts); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return nil
			}
			logger.Error("Generating source failed", log.Err(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}
