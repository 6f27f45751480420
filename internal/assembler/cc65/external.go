package cc65

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const (
	assemblerName = "ca65"
	linkerName    = "ld65"
)

// AssembleUsingExternalApp calls the external assembler and linker to
// generate a raw binary from the given asm file.
func AssembleUsingExternalApp(ctx context.Context, asmFile, objectFile, outputFile string, conf Config) error {
	assembler := assemblerName
	linker := linkerName
	if runtime.GOOS == "windows" {
		assembler += ".exe"
		linker += ".exe"
	}

	if _, err := exec.LookPath(assembler); err != nil {
		return fmt.Errorf("%s is not installed", assembler)
	}
	if _, err := exec.LookPath(linker); err != nil {
		return fmt.Errorf("%s is not installed", linker)
	}

	cmd := exec.CommandContext(ctx, assembler, asmFile, "-o", objectFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("assembling file: %s: %w", strings.TrimSpace(string(out)), err)
	}

	configFile, err := os.CreateTemp("", "asmgen.*.cfg")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(configFile.Name())
	}()
	if err := configFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	linkerConfig, err := GenerateLinkerConfig(conf)
	if err != nil {
		return fmt.Errorf("generating linker config: %w", err)
	}
	if err := os.WriteFile(configFile.Name(), []byte(linkerConfig), 0666); err != nil {
		return fmt.Errorf("writing linker config: %w", err)
	}

	cmd = exec.CommandContext(ctx, linker, "-C", configFile.Name(), "-o", outputFile, objectFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("linking file: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
