// Package verification verifies that the generated source assembles to the
// input file.
package verification

import (
	"context"
	"fmt"
	"os"

	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/assembler/acme"
	"github.com/retroenv/asmgen/internal/assembler/cc65"
	"github.com/retroenv/asmgen/internal/assembler/merlin32"
	"github.com/retroenv/asmgen/internal/assembler/tass64"
	"github.com/retroenv/retrogolib/log"
)

const maxLoggedMismatches = 10

// VerifyOutput assembles the source file with the external assembler and
// compares the result with the input data.
func VerifyOutput(ctx context.Context, logger *log.Logger, id assembler.ID, asmFile string, input []byte) error {
	outputFile, err := os.CreateTemp("", "asmgen.*.bin")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(outputFile.Name())
	}()
	if err := outputFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := assembleFile(ctx, id, asmFile, outputFile.Name(), len(input)); err != nil {
		return fmt.Errorf("reassembling file using %s failed: %w", id, err)
	}

	output, err := os.ReadFile(outputFile.Name())
	if err != nil {
		return fmt.Errorf("reading assembled file for comparison: %w", err)
	}
	return checkBufferEqual(logger, input, output)
}

func assembleFile(ctx context.Context, id assembler.ID, asmFile, outputFile string, fileLength int) error {
	switch id {
	case assembler.Tass64:
		return tass64.AssembleUsingExternalApp(ctx, asmFile, outputFile)

	case assembler.Acme:
		return acme.AssembleUsingExternalApp(ctx, asmFile, outputFile)

	case assembler.Cc65:
		objectFile, err := os.CreateTemp("", "asmgen.*.o")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		defer func() {
			_ = os.Remove(objectFile.Name())
		}()
		if err := objectFile.Close(); err != nil {
			return fmt.Errorf("closing temp file: %w", err)
		}

		conf := cc65.Config{FileLength: fileLength}
		return cc65.AssembleUsingExternalApp(ctx, asmFile, objectFile.Name(), outputFile, conf)

	case assembler.Merlin32:
		return merlin32.AssembleUsingExternalApp(ctx, asmFile, outputFile)

	default:
		return fmt.Errorf("unsupported assembler '%s'", id)
	}
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs <= maxLoggedMismatches {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
