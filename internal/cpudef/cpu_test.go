package cpudef

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNewAllTypes(t *testing.T) {
	for _, typ := range []Type{CPU6502, CPU6502Undoc, CPU65C02, CPUW65C02, CPU65802, CPU65816} {
		t.Run(typ.String(), func(t *testing.T) {
			def, err := New(typ, false)
			assert.NoError(t, err)
			for i := range 256 {
				op := def.GetOpDef(byte(i))
				assert.Equal(t, byte(i), op.Opcode)
				assert.True(t, op.Mnemonic != "", "missing mnemonic for $%02x", i)
				assert.True(t, op.AddrMode != UnknownAddressing, "missing mode for $%02x", i)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("65816")
	assert.NoError(t, err)
	assert.Equal(t, CPU65816, typ)

	typ, err = ParseType(" W65C02 ")
	assert.NoError(t, err)
	assert.Equal(t, CPUW65C02, typ)

	_, err = ParseType("z80")
	assert.Error(t, err)
}

func TestGetLength(t *testing.T) {
	def, err := New(CPU65816, false)
	assert.NoError(t, err)

	tests := []struct {
		name     string
		opcode   byte
		flags    StatusFlags
		expected int
	}{
		{name: "lda imm short", opcode: 0xa9, flags: ShortFlags(), expected: 2},
		{name: "lda imm long", opcode: 0xa9, flags: LongFlags(), expected: 3},
		{name: "ldx imm long m short", opcode: 0xa2, flags: StatusFlags{M: Set, X: Clear, E: Clear}, expected: 3},
		{name: "ldx imm short x", opcode: 0xa2, flags: StatusFlags{M: Clear, X: Set, E: Clear}, expected: 2},
		{name: "rep", opcode: 0xc2, flags: LongFlags(), expected: 2},
		{name: "jsl", opcode: 0x22, flags: ShortFlags(), expected: 4},
		{name: "mvn", opcode: 0x54, flags: ShortFlags(), expected: 3},
		{name: "brk", opcode: 0x00, flags: ShortFlags(), expected: 2},
		{name: "nop", opcode: 0xea, flags: ShortFlags(), expected: 1},
		{name: "emulation forces short", opcode: 0xa9, flags: StatusFlags{M: Clear, X: Clear, E: Set}, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, def.GetOpDef(tt.opcode).GetLength(tt.flags))
		})
	}
}

func TestTwoByteBrk(t *testing.T) {
	def, err := New(CPU6502, false)
	assert.NoError(t, err)
	assert.Equal(t, 1, def.GetOpDef(0x00).GetLength(ShortFlags()))

	def, err = New(CPU6502, true)
	assert.NoError(t, err)
	assert.Equal(t, 2, def.GetOpDef(0x00).GetLength(ShortFlags()))
}

func TestGetOperand(t *testing.T) {
	def, err := New(CPU65816, false)
	assert.NoError(t, err)

	data := []byte{0x22, 0x56, 0x34, 0x12, 0xad, 0xcd, 0xab}
	assert.Equal(t, 0x123456, def.GetOpDef(0x22).GetOperand(data, 0, ShortFlags()))
	assert.Equal(t, 0xabcd, def.GetOpDef(0xad).GetOperand(data, 4, ShortFlags()))

	// truncated instruction at the end of the data
	assert.Equal(t, 0x00cd, def.GetOpDef(0xad).GetOperand(data[:6], 4, ShortFlags()))
}

func TestWDCExtensions(t *testing.T) {
	def, err := New(CPUW65C02, false)
	assert.NoError(t, err)

	op := def.GetOpDef(0x97)
	assert.Equal(t, "SMB1", op.Mnemonic)
	assert.Equal(t, "SMB", op.BaseMnemonic())
	assert.Equal(t, 1, op.BitNumber)

	op = def.GetOpDef(0x7f)
	assert.Equal(t, "BBR7", op.Mnemonic)
	assert.Equal(t, 3, op.GetLength(ShortFlags()))
	assert.Equal(t, FlowConditionalBranch, op.Flow)

	assert.Equal(t, "STP", def.GetOpDef(0xdb).Mnemonic)
	assert.True(t, def.GetOpDef(0xdb).DoesNotContinue())

	plain, err := New(CPU65C02, false)
	assert.NoError(t, err)
	assert.True(t, plain.GetOpDef(0x97).Undocumented)
}

func TestIsMnemonic(t *testing.T) {
	def, err := New(CPU6502, false)
	assert.NoError(t, err)
	assert.True(t, def.IsMnemonic("LDA"))
	assert.True(t, def.IsMnemonic("rts"))
	assert.False(t, def.IsMnemonic("slo"))
	assert.False(t, def.IsMnemonic("bra"))

	undoc, err := New(CPU6502Undoc, false)
	assert.NoError(t, err)
	assert.True(t, undoc.IsMnemonic("slo"))
}

func TestWidthDisambiguation(t *testing.T) {
	assert.Equal(t, ForceAbs, GetWidthDisambiguation(3, 0x12))
	assert.Equal(t, WidthNone, GetWidthDisambiguation(3, 0x1234))
	assert.Equal(t, ForceLong, GetWidthDisambiguation(4, 0x1234))
	assert.Equal(t, ForceLongMaybe, GetWidthDisambiguation(4, 0x123456))
	assert.Equal(t, WidthNone, GetWidthDisambiguation(2, 0x12))

	def, err := New(CPU65816, false)
	assert.NoError(t, err)
	assert.True(t, def.GetOpDef(0xad).IsWidthPotentiallyAmbiguous())  // lda abs
	assert.False(t, def.GetOpDef(0x4c).IsWidthPotentiallyAmbiguous()) // jmp abs
	assert.True(t, def.GetOpDef(0x4c).IsAbsolutePBR())
	assert.False(t, def.GetOpDef(0xa5).IsWidthPotentiallyAmbiguous()) // lda dp
}

func TestFlow(t *testing.T) {
	def, err := New(CPU65816, false)
	assert.NoError(t, err)

	assert.True(t, def.GetOpDef(0x60).DoesNotContinue())  // rts
	assert.True(t, def.GetOpDef(0x80).DoesNotContinue())  // bra
	assert.True(t, def.GetOpDef(0x5c).DoesNotContinue())  // jml
	assert.False(t, def.GetOpDef(0x20).DoesNotContinue()) // jsr
	assert.False(t, def.GetOpDef(0xd0).DoesNotContinue()) // bne
	assert.False(t, def.GetOpDef(0x00).DoesNotContinue()) // brk
}
