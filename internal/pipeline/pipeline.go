// Package pipeline orchestrates the source generation workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/assembler/acme"
	"github.com/retroenv/asmgen/internal/assembler/cc65"
	"github.com/retroenv/asmgen/internal/assembler/merlin32"
	"github.com/retroenv/asmgen/internal/assembler/tass64"
	"github.com/retroenv/asmgen/internal/config"
	"github.com/retroenv/asmgen/internal/detector"
	"github.com/retroenv/asmgen/internal/generator"
	"github.com/retroenv/asmgen/internal/loader"
	"github.com/retroenv/asmgen/internal/options"
	"github.com/retroenv/asmgen/internal/program"
	"github.com/retroenv/asmgen/internal/verification"
	"github.com/retroenv/retrogolib/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var generators = map[assembler.ID]generator.Constructor{
	assembler.Tass64:   tass64.New,
	assembler.Acme:     acme.New,
	assembler.Cc65:     cc65.New,
	assembler.Merlin32: merlin32.New,
}

// Pipeline orchestrates the complete source generation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	versions *assembler.VersionCache
}

// New creates a new source generation pipeline. The version cache is shared
// by all files that are processed with the pipeline.
func New(logger *log.Logger, versions *assembler.VersionCache) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		versions: versions,
	}
}

// Execute runs the complete pipeline for the input file of the options.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, genOpts options.Generator) error {
	typ, err := p.detector.Detect(opts)
	if err != nil {
		return fmt.Errorf("detecting cpu: %w", err)
	}

	project, err := p.loader.Load(opts, typ)
	if err != nil {
		return fmt.Errorf("loading file: %w", err)
	}

	ids, err := Targets(opts)
	if err != nil {
		return err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(opts.Input)
	}

	if !opts.Quiet {
		p.logger.Info("Processing file",
			log.String("file", opts.Input),
			log.Stringer("cpu", typ),
			log.Int("size", len(project.FileData)))
	}

	return p.ExecuteWithProject(ctx, project, ids, outputDir, opts.AssembleTest, genOpts)
}

// ExecuteWithProject generates the source of an already built project for
// all given assemblers concurrently. The first failing assembler cancels
// the generation for the others.
func (p *Pipeline) ExecuteWithProject(ctx context.Context, project *program.Project, ids []assembler.ID,
	outputDir string, verify bool, genOpts options.Generator) error {

	group, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		group.Go(func() error {
			if err := p.generateTarget(ctx, project, id, outputDir, verify, genOpts); err != nil {
				return fmt.Errorf("generating %s source: %w", id, err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("generating source: %w", err)
	}
	return nil
}

// Targets returns the assemblers that the options select.
func Targets(opts options.Program) ([]assembler.ID, error) {
	if opts.IsAllAssemblers() {
		return assembler.All(), nil
	}
	id, err := assembler.ParseID(opts.Assembler)
	if err != nil {
		return nil, fmt.Errorf("parsing assembler: %w", err)
	}
	return []assembler.ID{id}, nil
}

// OutputName returns the base name of the generated files of a project for
// an assembler.
func OutputName(project *program.Project, id assembler.ID) string {
	info, _ := assembler.Lookup(id)
	return project.Properties.Name + "_" + info.CLIName
}

func (p *Pipeline) generateTarget(ctx context.Context, project *program.Project, id assembler.ID,
	outputDir string, verify bool, genOpts options.Generator) error {

	info, _ := assembler.Lookup(id)
	settings := genOpts.Settings()
	settings.OutputName = OutputName(project, id)
	settings.AssemblerVersion = p.assemblerVersion(ctx, id)

	result, err := generator.Run(ctx, generators[id], project, settings, config.ProgressLogger(p.logger, info.CLIName))
	if err != nil {
		return fmt.Errorf("running generator: %w", err)
	}

	if err := generator.ValidateExtraFiles(outputDir, result.ExtraFiles); err != nil {
		return fmt.Errorf("validating extra files: %w", err)
	}

	asmFile := filepath.Join(outputDir, settings.OutputName+".S")
	if err := os.WriteFile(asmFile, result.Source, 0644); err != nil {
		return fmt.Errorf("writing source file: %w", err)
	}
	if err := generator.WriteExtraFiles(outputDir, result.ExtraFiles); err != nil {
		return fmt.Errorf("writing extra files: %w", err)
	}

	p.logger.Info("Generated source",
		log.String("assembler", info.Name),
		log.String("file", asmFile),
		log.String("extra_files", strings.Join(lo.Map(result.ExtraFiles, func(file generator.ExtraFile, _ int) string {
			return file.Name
		}), ",")))

	if !verify {
		return nil
	}
	if err := verification.VerifyOutput(ctx, p.logger, id, asmFile, project.FileData); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	p.logger.Info("Verification successful", log.String("assembler", info.Name))
	return nil
}

// assemblerVersion returns the version of the installed assembler, or the
// zero version that selects the newest syntax if it can not be detected.
func (p *Pipeline) assemblerVersion(ctx context.Context, id assembler.ID) assembler.Version {
	version, err := p.versions.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.Debug("Assembler version not detected",
				log.String("assembler", id.String()),
				log.Err(err))
		}
		return assembler.Version{}
	}
	return version
}
