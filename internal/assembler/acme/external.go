package acme

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
	info, _ := assembler.Lookup(assembler.Acme)
	executable := info.ExecutableName()
	if _, err := exec.LookPath(executable); err != nil {
		return fmt.Errorf("%s is not installed", executable)
	}

	cmd := exec.CommandContext(ctx, executable, "-o", outputFile, "--outfile-format", "plain", asmFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("assembling file: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
