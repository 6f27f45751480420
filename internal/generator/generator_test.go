package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/retroenv/asmgen/internal/addrmap"
	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/formatter"
	"github.com/retroenv/asmgen/internal/program"
	"github.com/retroenv/asmgen/internal/symbols"
	"github.com/retroenv/retrogolib/assert"
)

var testDataOps = DataOps{
	Define: [5]string{"", ".byte", ".word", ".long", ".dword"},
	Fill:   ".fill",
	Dense:  ".hex",
	Align: func(alignment, value int) (string, string, bool) {
		return ".align", strconv.Itoa(alignment), value == 0
	},
}

// recordingGenerator writes instructions and data with the shared helpers
// and records the calls of the driver.
type recordingGenerator struct {
	base   *Base
	events []string
}

func newRecordingGenerator(project *program.Project, settings Settings, out io.Writer) *recordingGenerator {
	info, _ := assembler.Lookup(assembler.Tass64)
	base := NewBase(project, settings, out, Config{
		Info:        info,
		Format:      formatter.DefaultConfig(),
		LocalPrefix: "_",
	})
	return &recordingGenerator{base: base}
}

func (g *recordingGenerator) record(format string, args ...any) {
	g.events = append(g.events, fmt.Sprintf(format, args...))
}

func (g *recordingGenerator) Base() *Base { return g.base }

func (g *recordingGenerator) OutputAsmConfig() { g.record("config") }

func (g *recordingGenerator) OutputEquDirective(def *symbols.DefSymbol) {
	g.record("equ %s", def.Label)
}

func (g *recordingGenerator) OutputLocalVariableTable(offset int, defs []*symbols.DefSymbol, clearPrevious bool) {
	g.record("variables +%02x %d %t", offset, len(defs), clearPrevious)
}

func (g *recordingGenerator) OutputArDirective(change addrmap.Change) {
	if change.IsStart {
		g.record("start $%04x", change.Region.Address)
		return
	}
	g.record("end $%04x", change.Region.Address)
}

func (g *recordingGenerator) FlushArDirectives() { g.record("flush") }

func (g *recordingGenerator) OutputRegWidthDirective(offset int, prev, next cpudef.StatusFlags) {
	m, x := next.WidthBits()
	g.record("width +%02x m%d x%d", offset, m, x)
}

func (g *recordingGenerator) OutputDataOp(offset int) error {
	g.record("data +%02x", offset)
	handled, err := g.base.OutputFormattedData(offset, &testDataOps)
	if err != nil {
		return err
	}
	if !handled {
		return fmt.Errorf("unsupported data type %s", g.base.Project.Attribs[offset].DataDescriptor.Type)
	}
	return nil
}

func (g *recordingGenerator) ModifyOpcode(_ int, op *cpudef.OpDef) (string, bool) {
	g.record("op %s", op.Mnemonic)
	return "", true
}

func (g *recordingGenerator) GenerateShortSequence(offset, length int) {
	g.record("short +%02x %d", offset, length)
	g.base.OutputByteList(offset, length, &testDataOps)
}

func (g *recordingGenerator) Finish() error {
	g.record("finish")
	return nil
}

func buildProject(t *testing.T, typ cpudef.Type, data []byte, setup func(b *program.Builder)) *program.Project {
	t.Helper()
	cpu, err := cpudef.New(typ, false)
	assert.NoError(t, err)
	b := program.NewBuilder(data, cpu, program.Properties{Name: "test"})
	setup(b)
	p, err := b.Build()
	assert.NoError(t, err)
	return p
}

var testRegionCode = []byte{
	0xa9, 0x01, // lda #$01
	0x60, // rts
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

func TestGenerate(t *testing.T) {
	p := buildProject(t, cpudef.CPU6502, testRegionCode, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(testRegionCode), 0x1000, false))
		assert.NoError(t, b.AddRegion(3, 10, 0x2000, false))
		assert.NoError(t, b.MarkCode(0, 3, cpudef.ShortFlags()))
		assert.NoError(t, b.SetLabel(0, "start", symbols.GlobalAddr))
	})

	var buf bytes.Buffer
	gen := newRecordingGenerator(p, Settings{}, &buf)

	var progress []int
	err := Generate(context.Background(), gen, func(percent int) {
		progress = append(progress, percent)
	})
	assert.NoError(t, err)

	expectedEvents := []string{
		"config",
		"start $1000", "flush",
		"op LDA", "op RTS",
		"start $2000", "flush",
		"data +03",
		"end $2000", "end $1000",
		"finish",
	}
	assert.Equal(t, expectedEvents, gen.events)

	expected := "start   lda     #$01\n" +
		"        rts\n" +
		"\n" +
		"        .fill   10,$00\n"
	assert.Equal(t, expected, buf.String())

	assert.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.True(t, progress[i-1] <= progress[i])
	}
}

func TestGenerateCanceled(t *testing.T) {
	p := buildProject(t, cpudef.CPU6502, testRegionCode, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(testRegionCode), 0x1000, false))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	gen := newRecordingGenerator(p, Settings{}, &buf)
	err := Generate(ctx, gen, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, gen.events)
}

func TestGenerateRegionInsideItem(t *testing.T) {
	p := buildProject(t, cpudef.CPU6502, testRegionCode, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(testRegionCode), 0x1000, false))
		assert.NoError(t, b.AddRegion(1, 2, 0x3000, false))
		assert.NoError(t, b.MarkCode(0, 3, cpudef.ShortFlags()))
	})

	var buf bytes.Buffer
	gen := newRecordingGenerator(p, Settings{}, &buf)
	err := Generate(context.Background(), gen, nil)
	assert.True(t, errors.Is(err, ErrInternal))
}

func TestGenerateMixedFill(t *testing.T) {
	data := make([]byte, len(testRegionCode))
	copy(data, testRegionCode)
	p := buildProject(t, cpudef.CPU6502, data, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(data), 0x1000, false))
		assert.NoError(t, b.MarkCode(0, 3, cpudef.ShortFlags()))
	})
	assert.Equal(t, dataformat.Fill, p.Attribs[3].DataDescriptor.Type)
	p.FileData[5] = 0x02

	var buf bytes.Buffer
	gen := newRecordingGenerator(p, Settings{}, &buf)
	err := Generate(context.Background(), gen, nil)
	assert.True(t, errors.Is(err, ErrInternal))
	assert.ErrorContains(t, err, "fill at +000003")
	assert.False(t, strings.Contains(buf.String(), ".fill"))
}

func TestGenerateJunkAlignment(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{
			name:     "padding",
			data:     []byte{0x00, 0x00, 0x00, 0x00},
			expected: "        .align  256\n",
		},
		{
			name:     "mixed bytes",
			data:     []byte{0x01, 0x02, 0x03, 0x04},
			expected: "        .hex    01020304\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildProject(t, cpudef.CPU6502, tt.data, func(b *program.Builder) {
				assert.NoError(t, b.AddRegion(0, len(tt.data), 0x10fc, false))
				assert.NoError(t, b.SetDataFormat(0, dataformat.NewJunk(len(tt.data), dataformat.Align256), false))
			})

			var buf bytes.Buffer
			gen := newRecordingGenerator(p, Settings{}, &buf)
			assert.NoError(t, Generate(context.Background(), gen, nil))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestGenerateRegisterWidths(t *testing.T) {
	code := []byte{
		0xc2, 0x30, // rep #$30
		0xa9, 0x34, 0x12, // lda #$1234
		0xe2, 0x20, // sep #$20
		0x60, // rts
	}
	p := buildProject(t, cpudef.CPU65816, code, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(code), 0x8000, false))
		assert.NoError(t, b.MarkCode(0, len(code), cpudef.StatusFlags{M: cpudef.Set, X: cpudef.Set, E: cpudef.Clear}))
	})

	var buf bytes.Buffer
	gen := newRecordingGenerator(p, Settings{}, &buf)
	assert.NoError(t, Generate(context.Background(), gen, nil))

	expectedEvents := []string{
		"config",
		"start $8000", "flush",
		"op REP",
		"width +02 m0 x0", "op LDA",
		"op SEP",
		"width +07 m1 x0", "op RTS",
		"end $8000",
		"finish",
	}
	assert.Equal(t, expectedEvents, gen.events)
	assert.Contains(t, buf.String(), "lda     #$1234")
}

func TestRun(t *testing.T) {
	p := buildProject(t, cpudef.CPU6502, testRegionCode, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(testRegionCode), 0x1000, false))
		assert.NoError(t, b.MarkCode(0, 3, cpudef.ShortFlags()))
	})

	newGenerator := func(project *program.Project, settings Settings, out io.Writer) Generator {
		gen := newRecordingGenerator(project, settings, out)
		gen.base.AddExtraFile("data.bin", []byte{1, 2})
		return gen
	}
	settings := Settings{
		IdentComment: true,
		ToolVersion:  "1.2.3",
		UpperCase:    true,
	}

	result, err := Run(context.Background(), newGenerator, p, settings, nil)
	assert.NoError(t, err)

	expected := "; Generated by asmgen 1.2.3\n" +
		"; Assembler: 64tass\n" +
		"\n" +
		"        LDA     #$01\n" +
		"        RTS\n" +
		"\n" +
		"        .FILL   10,$00\n"
	assert.Equal(t, expected, string(result.Source))
	assert.Equal(t, []ExtraFile{{Name: "data.bin", Data: []byte{1, 2}}}, result.ExtraFiles)
}
