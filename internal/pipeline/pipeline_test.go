package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/options"
	"github.com/retroenv/asmgen/internal/program"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var errNotInstalled = errors.New("not installed")

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	versions := assembler.NewVersionCache(func(context.Context, assembler.Info) (string, error) {
		return "", errNotInstalled
	})
	return New(log.NewTestLogger(t), versions)
}

func TestTargets(t *testing.T) {
	ids, err := Targets(options.Program{Flags: options.Flags{Assembler: "all"}})
	assert.NoError(t, err)
	assert.Equal(t, assembler.All(), ids)

	ids, err = Targets(options.Program{Flags: options.Flags{Assembler: "ACME"}})
	assert.NoError(t, err)
	assert.Equal(t, []assembler.ID{assembler.Acme}, ids)

	_, err = Targets(options.Program{Flags: options.Flags{Assembler: "asm6"}})
	assert.ErrorContains(t, err, "unsupported assembler 'asm6'")
}

func TestExecuteWithProject(t *testing.T) {
	data := []byte{
		0xa9, 0x01, // lda #$01
		0x60, // rts
	}
	cpu, err := cpudef.New(cpudef.CPU6502, false)
	assert.NoError(t, err)
	b := program.NewBuilder(data, cpu, program.Properties{Name: "test"})
	assert.NoError(t, b.AddRegion(0, len(data), 0x1000, false))
	assert.NoError(t, b.MarkCode(0, len(data), cpudef.ShortFlags()))
	project, err := b.Build()
	assert.NoError(t, err)

	dir := t.TempDir()
	p := newTestPipeline(t)
	err = p.ExecuteWithProject(context.Background(), project, assembler.All(), dir, false, options.NewGenerator())
	assert.NoError(t, err)

	for _, name := range []string{"test_64tass.S", "test_acme.S", "test_cc65.S", "test_cc65.cfg", "test_merlin32.S"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "game.bin")
	assert.NoError(t, os.WriteFile(input, []byte{0xea, 0x60}, 0600))

	opts := options.Program{
		Parameters: options.Parameters{Input: input},
		Flags:      options.Flags{Assembler: "acme", Origin: 0x2000, Quiet: true},
	}
	p := newTestPipeline(t)
	assert.NoError(t, p.Execute(context.Background(), opts, options.NewGenerator()))

	source, err := os.ReadFile(filepath.Join(dir, "game_acme.S"))
	assert.NoError(t, err)
	assert.Contains(t, string(source), "!pseudopc $2000 {")
	assert.Contains(t, string(source), "start   nop")
}

func TestExecuteCanceled(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "game.bin")
	assert.NoError(t, os.WriteFile(input, []byte{0xea, 0x60}, 0600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := options.Program{
		Parameters: options.Parameters{Input: input},
		Flags:      options.Flags{Assembler: "all", Quiet: true},
	}
	err := newTestPipeline(t).Execute(ctx, opts, options.NewGenerator())
	assert.True(t, errors.Is(err, context.Canceled))
}
