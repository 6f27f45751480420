// Package cli handles command line interface logic.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/options"
	urfave "github.com/urfave/cli/v2"
)

var errMissingInput = errors.New("no input file given")

// Action is called with the parsed options.
type Action func(c *urfave.Context, opts options.Program, genOpts options.Generator) error

// NewApp returns the command line application.
func NewApp(version string, action Action) *urfave.App {
	app := urfave.NewApp()
	app.Name = "asmgen"
	app.Usage = "Generate assembly source for 64tass, ACME, cc65 and Merlin 32 from 6502 family binaries"
	app.ArgsUsage = "<file to generate source for>"
	app.Version = version
	app.HideHelpCommand = true
	app.Flags = flags()
	app.Action = func(c *urfave.Context) error {
		opts, genOpts, err := ParseOptions(c)
		if err != nil {
			return err
		}
		return action(c, opts, genOpts)
	}
	return app
}

func flags() []urfave.Flag {
	return []urfave.Flag{
		&urfave.StringFlag{
			Name:    "assembler",
			Aliases: []string{"a"},
			Value:   assembler.Names()[0],
			Usage:   "assembler format of the generated source: " + strings.Join(assembler.Names(), ", ") + " or all",
		},
		&urfave.StringFlag{
			Name:  "cpu",
			Usage: "cpu type: 6502, 6502u, 65c02, w65c02, 65802, 65816 (default: auto-detect)",
		},
		&urfave.StringFlag{
			Name:  "org",
			Value: "$1000",
			Usage: "address of the first byte of the input file",
		},
		&urfave.BoolFlag{
			Name:  "native",
			Usage: "65816 code starts in native mode with 8 bit registers",
		},
		&urfave.BoolFlag{
			Name:  "twobytebrk",
			Usage: "treat BRK as two byte instruction with a signature byte",
		},
		&urfave.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output directory of the generated files (default: directory of the input file)",
		},
		&urfave.StringFlag{
			Name:  "batch",
			Usage: "process a batch of files matching the pattern, for example *.bin",
		},
		&urfave.BoolFlag{
			Name:  "verify",
			Usage: "verify the generated output by assembling it and comparing it to the input",
		},
		&urfave.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		&urfave.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "perform operations quietly",
		},
		&urfave.BoolFlag{
			Name:  "noident",
			Usage: "do not output the identification comment",
		},
		&urfave.BoolFlag{
			Name:  "offsets",
			Usage: "output addresses in comments",
		},
		&urfave.BoolFlag{
			Name:  "hexcomments",
			Usage: "output instruction bytes as hex values in comments",
		},
		&urfave.BoolFlag{
			Name:  "upper",
			Usage: "output opcodes and pseudo ops in upper case",
		},
		&urfave.BoolFlag{
			Name:  "nolonglabelnewline",
			Usage: "do not put labels that are wider than the label column on their own line",
		},
		&urfave.IntFlag{
			Name:  "maxoperand",
			Value: options.NewGenerator().MaxOperandLen,
			Usage: "maximum length of data operands",
		},
	}
}

// ParseOptions maps the command line flags and arguments to the program
// and generator options.
func ParseOptions(c *urfave.Context) (options.Program, options.Generator, error) {
	opts := options.Program{
		Parameters: options.Parameters{
			OutputDir: c.String("output"),
			Batch:     c.String("batch"),
		},
		Flags: options.Flags{
			Assembler:    strings.ToLower(c.String("assembler")),
			CPU:          c.String("cpu"),
			Native:       c.Bool("native"),
			TwoByteBrk:   c.Bool("twobytebrk"),
			AssembleTest: c.Bool("verify"),
			Debug:        c.Bool("debug"),
			Quiet:        c.Bool("quiet"),
		},
	}

	args := c.Args()
	switch {
	case args.Len() > 1:
		return opts, options.Generator{}, fmt.Errorf("unexpected argument '%s' after the input file, "+
			"please pass the input file as last argument", args.Get(1))
	case args.Len() == 1:
		opts.Input = args.First()
	case opts.Batch == "":
		return opts, options.Generator{}, errMissingInput
	}

	if !opts.IsAllAssemblers() {
		if _, err := assembler.ParseID(opts.Assembler); err != nil {
			return opts, options.Generator{}, err
		}
	}

	origin, err := ParseAddress(c.String("org"))
	if err != nil {
		return opts, options.Generator{}, fmt.Errorf("parsing origin: %w", err)
	}
	opts.Origin = origin

	genOpts := options.NewGenerator()
	genOpts.IdentComment = !c.Bool("noident")
	genOpts.OffsetComments = c.Bool("offsets")
	genOpts.HexComments = c.Bool("hexcomments")
	genOpts.UpperCase = c.Bool("upper")
	genOpts.LongLabelNewLine = !c.Bool("nolonglabelnewline")
	genOpts.MaxOperandLen = c.Int("maxoperand")

	return opts, genOpts, nil
}

// ParseAddress parses a 24 bit address in decimal, 0x or $ prefixed hex
// notation.
func ParseAddress(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") {
		s = "0x" + s[1:]
	}
	value, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	if value < 0 || value > 0xffffff {
		return 0, fmt.Errorf("address $%x outside of 24 bit address space", value)
	}
	return int(value), nil
}
