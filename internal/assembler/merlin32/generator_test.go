package merlin32

import (
	"context"
	"testing"

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

func generate(t *testing.T, p *program.Project, settings generator.Settings) string {
	t.Helper()
	result, err := generator.Run(context.Background(), New, p, settings, nil)
	assert.NoError(t, err)
	return string(result.Source)
}

func TestGenerate(t *testing.T) {
	data := []byte{
		0x0a,             // asl
		0xad, 0x12, 0x00, // lda $0012
		0xca,       // dex
		0xd0, 0xfd, // bne loop
		0x60, // rts
	}
	p := buildProject(t, cpudef.CPU65C02, data, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(data), 0x1000, false))
		assert.NoError(t, b.MarkCode(0, len(data), cpudef.ShortFlags()))
		assert.NoError(t, b.SetLabel(0, "start", symbols.GlobalAddr))
		assert.NoError(t, b.SetLabel(4, "loop", symbols.LocalOrGlobalAddr))
	})

	expected := `         xc
         org   $1000
start    asl
         lda:  $0012
:loop    dex
         bne   :loop
         rts

`
	assert.Equal(t, expected, generate(t, p, generator.Settings{}))
}

func TestComments(t *testing.T) {
	data := []byte{0xea}
	p := buildProject(t, cpudef.CPU6502, data, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(data), 0x1000, false))
		assert.NoError(t, b.MarkCode(0, len(data), cpudef.ShortFlags()))
		b.AddLongComment(0, "entry")
		b.AddComment(0, "wait")
	})

	expected := `* entry
         org   $1000
         nop              ; wait
`
	assert.Contains(t, generate(t, p, generator.Settings{}), expected)
}

func TestData(t *testing.T) {
	data := []byte{
		0x12, 0x34, // big endian word
		0x02, 0x41, 0x42, // "AB" with length byte
		0xc8, 0xc9, 0x8d, // "HI" in high ASCII with carriage return
		0x41, 0xc2, // "AB" dci
		0x42, 0x41, // "AB" reversed
		0x01, 0x02, 0x03, // dense
		0x00, 0x00, 0x00, 0x00, // junk aligned to 256
	}
	p := buildProject(t, cpudef.CPU6502, data, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(data), 0x10ed, false))
		assert.NoError(t, b.SetDataFormat(0, dataformat.NewNumeric(2, true, dataformat.Hex), false))
		assert.NoError(t, b.SetDataFormat(2, dataformat.NewString(3, dataformat.StringL8, charenc.ASCII), false))
		assert.NoError(t, b.SetDataFormat(5, dataformat.NewString(3, dataformat.StringGeneric, charenc.HighASCII), false))
		assert.NoError(t, b.SetDataFormat(8, dataformat.NewString(2, dataformat.StringDci, charenc.ASCII), false))
		assert.NoError(t, b.SetDataFormat(10, dataformat.NewString(2, dataformat.StringReverse, charenc.ASCII), false))
		assert.NoError(t, b.SetDataFormat(12, &dataformat.Descriptor{Length: 3, Type: dataformat.Dense}, false))
		assert.NoError(t, b.SetDataFormat(15, dataformat.NewJunk(4, dataformat.Align256), false))
	})

	expected := `         ddb   $1234
         str   'AB'
         asc   "HI",8D
         dci   'AB'
         rev   'AB'
         hex   010203
         ds    \
`
	assert.Contains(t, generate(t, p, generator.Settings{}), expected)
}

func TestRegisterWidths(t *testing.T) {
	native := cpudef.StatusFlags{M: cpudef.Set, X: cpudef.Set, E: cpudef.Clear}

	tests := []struct {
		name     string
		data     []byte
		flags    cpudef.StatusFlags
		expected string
	}{
		{
			name: "sep and rep are tracked by the assembler",
			data: []byte{
				0xc2, 0x30, // rep #$30
				0xa9, 0x34, 0x12, // lda #$1234
				0xe2, 0x20, // sep #$20
				0x60, // rts
			},
			flags: native,
			expected: `         xc
         xc
         mx    %11
         org   $8000
         rep   #$30
         lda   #$1234
         sep   #$20
         rts
`,
		},
		{
			name: "widths that are not set by code",
			data: []byte{
				0xa9, 0x34, 0x12, // lda #$1234
				0x60, // rts
			},
			flags: cpudef.LongFlags(),
			expected: `         org   $8000
         mx    %00
         lda   #$1234
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildProject(t, cpudef.CPU65816, tt.data, func(b *program.Builder) {
				assert.NoError(t, b.AddRegion(0, len(tt.data), 0x8000, false))
				assert.NoError(t, b.MarkCode(0, len(tt.data), tt.flags))
			})
			assert.Contains(t, generate(t, p, generator.Settings{}), tt.expected)
		})
	}
}

func TestUndocumentedOpcodes(t *testing.T) {
	data := []byte{0xa7, 0x12} // lax $12
	p := buildProject(t, cpudef.CPU6502Undoc, data, func(b *program.Builder) {
		assert.NoError(t, b.AddRegion(0, len(data), 0x1000, false))
		assert.NoError(t, b.MarkCode(0, len(data), cpudef.ShortFlags()))
	})

	assert.Contains(t, generate(t, p, generator.Settings{}), "         hex   A712\n")
}
