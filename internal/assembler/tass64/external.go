package tass64

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/retroenv/asmgen/internal/assembler"
)

// AssembleUsingExternalApp calls the external assembler to generate a raw
// binary from the given asm file.
func AssembleUsingExternalApp(ctx context.Context, asmFile, outputFile string) error {
	info, _ := assembler.Lookup(assembler.Tass64)
	executable := info.ExecutableName()
	if _, err := exec.LookPath(executable); err != nil {
		return fmt.Errorf("%s is not installed", executable)
	}

	cmd := exec.CommandContext(ctx, executable, "--case-sensitive", "--nostart", "-Wall",
		"-o", outputFile, asmFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("assembling file: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
