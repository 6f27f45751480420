package merlin32

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/retroenv/asmgen/internal/assembler"
)

// AssembleUsingExternalApp calls the external assembler to generate a raw
// binary from the given asm file. Merlin 32 writes the binary next to the
// source file, named like the source without extension.
func AssembleUsingExternalApp(ctx context.Context, asmFile, outputFile string) error {
	info, _ := assembler.Lookup(assembler.Merlin32)
	executable := info.ExecutableName()
	if _, err := exec.LookPath(executable); err != nil {
		return fmt.Errorf("%s is not installed", executable)
	}

	dir, name := filepath.Split(asmFile)
	if dir == "" {
		dir = "."
	}

	cmd := exec.CommandContext(ctx, executable, "-V", ".", name)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("assembling file: %s: %w", strings.TrimSpace(string(out)), err)
	}

	assembled := strings.TrimSuffix(asmFile, filepath.Ext(asmFile))
	data, err := os.ReadFile(assembled)
	if err != nil {
		return fmt.Errorf("reading assembled file: %w", err)
	}
	_ = os.Remove(assembled)

	if err := os.WriteFile(outputFile, data, 0666); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
