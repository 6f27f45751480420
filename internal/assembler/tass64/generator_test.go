package tass64

import (
	"context"
	"testing"

	"github.com/retroenv/asmgen/internal/assembler"
	"github.com/retroenv/asmgen/internal/charenc"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/generator"
	"github.com/retroenv/asmgen/internal/program"
	"github.com/retroenv/asmgen/internal/symbols"
	"github.com/retroenv/retrogolib/assert"
)

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

func generate(t *testing.T, p *program.Project, settings generator.Settings) *generator.Result {
	t.Helper()
	result, err := generator.Run(context.Background(), New, p, settings, nil)
	assert.NoError(t, err)
	return result
}

var testCode = []byte{
	0xa9, 0x00, // lda #$00
	0xad, 0x12, 0x00, // lda $0012
	0x60, // rts
	0x00, // empty null terminated string
}

var expectedCode = `        .cpu    "6502"
        .enc    "sg_hiascii"
        .cdef   $20,$7e,$a0
        .enc    "sg_ascii"
        .cdef   $20,$7e,$20

*       =       $0000
        .logical $1000
start   lda     #$00
        lda     @w$0012
        rts

        .null   ""
        .endlogical
`

func TestGenerate(t *testing.T) {
	p := buildProject(t, cpudef.CPU6502, testCode, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(testCode), 0x1000, false))
		assert.NoError(t, b.MarkCode(0, 6, cpudef.ShortFlags()))
		assert.NoError(t, b.SetLabel(0, "start", symbols.GlobalAddr))
		assert.NoError(t, b.SetDataFormat(6, dataformat.NewString(1, dataformat.StringNullTerm, charenc.ASCII), false))
	})

	result := generate(t, p, generator.Settings{})
	assert.Equal(t, expectedCode, string(result.Source))
	assert.Empty(t, result.ExtraFiles)
}

func TestLogicalBlocks(t *testing.T) {
	data := []byte{0xea, 0xea, 0xea, 0xea, 0x60}
	setup := func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(data), 0x1000, false))
		assert.NoError(t, b.AddRegion(2, 2, 0x2000, true))
		assert.NoError(t, b.MarkCode(0, len(data), cpudef.ShortFlags()))
	}

	tests := []struct {
		name     string
		version  assembler.Version
		expected string
	}{
		{name: "unknown version", expected: ".endlogical"},
		{name: "1.55", version: assembler.NewVersion(1, 55, 2933), expected: ".endlogical"},
		{name: "1.53", version: assembler.NewVersion(1, 53, 1515), expected: ".here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildProject(t, cpudef.CPU6502, data, setup)
			result := generate(t, p, generator.Settings{AssemblerVersion: tt.version})

			expected := `*       =       $0000
        .logical $1000
        nop
        nop
        .logical *+$0ffe
        nop
        nop
        ` + tt.expected + `
        rts

        ` + tt.expected + "\n"
			assert.Contains(t, string(result.Source), expected)
		})
	}
}

func TestStrings(t *testing.T) {
	data := []byte{
		0xc8, 0xc9, // "HI" in high ASCII
		0x41, 0x42, 0x00, 0x43, // null terminated string with embedded zero
		0x02, 0x41, 0x22, // length prefixed "A""
		0x41, 0xc2, // "AB" with high bit on the last character
	}
	p := buildProject(t, cpudef.CPU6502, data, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(data), 0x1000, false))
		assert.NoError(t, b.SetDataFormat(0, dataformat.NewString(2, dataformat.StringGeneric, charenc.HighASCII), false))
		assert.NoError(t, b.SetDataFormat(2, dataformat.NewString(4, dataformat.StringNullTerm, charenc.ASCII), false))
		assert.NoError(t, b.SetDataFormat(6, dataformat.NewString(3, dataformat.StringL8, charenc.ASCII), false))
		assert.NoError(t, b.SetDataFormat(9, dataformat.NewString(2, dataformat.StringDci, charenc.ASCII), false))
	})

	result := generate(t, p, generator.Settings{})
	expected := `        .logical $1000
        .enc    "sg_hiascii"
        .text   "HI"
        .enc    "sg_ascii"
        .text   "AB",$00,"C"
        .ptext  "A"""
        .shift  "AB"
        .endlogical
`
	assert.Contains(t, string(result.Source), expected)
}

func TestBinaryInclude(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x60}
	p := buildProject(t, cpudef.CPU6502, data, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(data), 0x1000, false))
		assert.NoError(t, b.SetDataFormat(0, dataformat.NewBinaryInclude(3, "gfx.bin"), false))
		assert.NoError(t, b.MarkCode(3, 4, cpudef.ShortFlags()))
	})

	result := generate(t, p, generator.Settings{})
	assert.Contains(t, string(result.Source), `        .binary "gfx.bin"`)
	assert.Equal(t, []generator.ExtraFile{{Name: "gfx.bin", Data: []byte{0x01, 0x02, 0x03}}}, result.ExtraFiles)
}

func TestRegisterWidths(t *testing.T) {
	data := []byte{
		0xc2, 0x30, // rep #$30
		0xa2, 0x00, 0x10, // ldx #$1000
		0xe2, 0x20, // sep #$20
		0xa9, 0x01, // lda #$01
		0x00, 0x05, // brk $05
	}
	p := buildProject(t, cpudef.CPU65816, data, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(data), 0x8000, false))
		assert.NoError(t, b.MarkCode(0, len(data), cpudef.StatusFlags{M: cpudef.Set, X: cpudef.Set, E: cpudef.Clear}))
	})

	result := generate(t, p, generator.Settings{})
	expected := `        rep     #$30
        .al
        .xl
        ldx     #$1000
        sep     #$20
        .as
        lda     #$01
        brk     #$05
`
	assert.Contains(t, string(result.Source), `.cpu    "65816"`)
	assert.Contains(t, string(result.Source), expected)
}
